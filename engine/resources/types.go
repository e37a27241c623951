package resources

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/geometry"
)

// Media kinds tracked by the reference graphs. Dependency edges recorded at
// load time carry these so a cascading unload can be routed to the graph
// owning the dependency.
const (
	KindTexture = "texture"
	KindShader  = "shader"
	KindModel   = "model"
	KindAudio   = "audio"
	KindFont    = "font"
)

// EmbeddedKey returns a synthetic cache key for embedded or in-memory media
// that has no file path of its own. Keys are unique, so embedded media is
// never accidentally shared between unrelated referencers.
func EmbeddedKey(kind string) string {
	return fmt.Sprintf("%s://embedded/%s", kind, uuid.NewString())
}

// Backend handles are opaque identifiers issued by the graphics and audio
// collaborators. The core never interprets them; zero is never a valid handle.
type (
	TextureHandle     uint32
	BufferHandle      uint32
	VertexArrayHandle uint32
	ProgramHandle     uint32
	AudioBufferHandle uint32
)

/**
 * @brief Represents various types of textures.
 */
type TextureType int

const (
	/** @brief A standard two-dimensional texture. */
	TextureType2d TextureType = iota
	/** @brief A cube texture, used for cubemaps. */
	TextureTypeCube
)

// Image is decoded pixel data, 8 bits per channel. Layers is 1 for a plain
// 2d image and 6 for an assembled cube map (face order +X,-X,+Y,-Y,+Z,-Z).
type Image struct {
	Width    int
	Height   int
	Channels int
	Layers   int
	Pixels   []uint8
}

// TextureUse tags what a texture slot is for. The tag is consumed by the
// renderer, not by the loading core.
type TextureUse int

const (
	TextureUseUnknown TextureUse = iota
	TextureUseMapAlbedo
	TextureUseMapSpecular
	TextureUseMapNormal
	TextureUseMapCubemap
)

// TextureSlot names one texture a mesh wants bound: exactly one of Inline,
// EmbeddedIndex or Path is set, resolved to a single texture reference at
// model load time. EmbeddedIndex is a pointer so the zero-value slot selects
// nothing instead of accidentally naming embedded image 0.
type TextureSlot struct {
	Use           TextureUse
	Inline        *Image
	EmbeddedIndex *int
	Path          string
}

// EmbeddedSlot returns a slot referencing an image embedded in the model
// source container by index.
func EmbeddedSlot(use TextureUse, index int) TextureSlot {
	return TextureSlot{Use: use, EmbeddedIndex: &index}
}

// ShaderStage is one stage of a shader program, already read from its source
// file (or embedded in a model source).
type ShaderStage struct {
	Stage  string
	Source string
}

// MeshSource is one mesh of a model description: raw vertices, indices and
// the texture slots the mesh wants bound.
type MeshSource struct {
	Name     string
	Vertices []geometry.Vertex
	Indices  []uint32
	Slots    []TextureSlot
}

// ModelSource is a complete engine-agnostic model description, assumed
// already materialized by a source-format importer.
type ModelSource struct {
	Name     string
	BasePath string
	Meshes   []MeshSource
	// Images embedded in the source container, referenced by slot index.
	EmbeddedImages []*Image
	// Shader program sources for this model's material.
	ShaderName   string
	ShaderStages []ShaderStage
	Skeleton     *Bone
	Animations   []*AnimationSet
}

// SoundFormat describes raw PCM data.
type SoundFormat struct {
	Channels      int
	BitsPerSample int
}

// SoundData is decoded PCM audio, assumed already materialized by a codec.
type SoundData struct {
	Name       string
	Format     SoundFormat
	SampleRate int
	PCM        []byte
	Streaming  bool
}

// FontSource points at a bitmap font descriptor file (.fnt).
type FontSource struct {
	Name string
	Path string
}

// Texture is a loaded, backend-realized texture.
type Texture struct {
	Name        string
	TextureType TextureType
	Width       int
	Height      int
	Channels    int
	Handle      TextureHandle
}

// NewTexture validates the backend handle before wrapping it; backend
// identifiers are strictly positive.
func NewTexture(name string, textureType TextureType, width, height, channels int, handle TextureHandle) (*Texture, error) {
	if handle == 0 {
		return nil, fmt.Errorf("texture '%s': backend handle 0: %w", name, core.ErrInvalidArgument)
	}
	return &Texture{
		Name:        name,
		TextureType: textureType,
		Width:       width,
		Height:      height,
		Channels:    channels,
		Handle:      handle,
	}, nil
}

// Shader is a loaded, backend-realized shader program.
type Shader struct {
	Name    string
	Program ProgramHandle
}

func NewShader(name string, program ProgramHandle) (*Shader, error) {
	if program == 0 {
		return nil, fmt.Errorf("shader '%s': backend handle 0: %w", name, core.ErrInvalidArgument)
	}
	return &Shader{Name: name, Program: program}, nil
}

// GeometryBuffers bundles the backend handles realizing one mesh.
type GeometryBuffers struct {
	VertexArray  VertexArrayHandle
	VertexBuffer BufferHandle
	IndexBuffer  BufferHandle
}

// TextureBinding pairs a loaded texture with its usage tag for the renderer.
type TextureBinding struct {
	Use     TextureUse
	Texture *Texture
}

// MeshBuffer is one backend-realized mesh of a loaded model.
type MeshBuffer struct {
	Name        string
	Buffers     GeometryBuffers
	VertexCount int
	IndexCount  int
	Layout      *geometry.AttributeLayout
	Textures    []TextureBinding
}

// Model is a loaded model: realized meshes, the resolved bind pose (nil for
// static models) and the merged animation set.
type Model struct {
	Name       string
	Meshes     []*MeshBuffer
	Shader     *Shader
	Pose       *PoseBone
	Animations *AnimationSet
}

// AudioClip is loaded audio: one buffer for static clips, several primed
// buffers for streaming clips.
type AudioClip struct {
	Name       string
	Format     SoundFormat
	SampleRate int
	Streaming  bool
	Buffers    []AudioBufferHandle
}

// FontGlyph is one renderable glyph of a bitmap font atlas.
type FontGlyph struct {
	Codepoint rune
	X         int
	Y         int
	Width     int
	Height    int
	XOffset   int
	YOffset   int
	XAdvance  int
	PageID    int
}

// Font is a loaded bitmap font: glyph metrics plus the page atlas textures
// it references through the texture graph.
type Font struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int
	AtlasSizeX int
	AtlasSizeY int
	Glyphs     map[rune]FontGlyph
	Kernings   map[[2]rune]int
	Pages      []*Texture
}
