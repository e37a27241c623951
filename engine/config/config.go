package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/geometry"
)

// Config is the asset pipeline configuration, loaded from one TOML file.
// The core consumes it; it never produces or persists configuration.
type Config struct {
	Vertex  VertexConfig  `toml:"vertex"`
	Texture TextureConfig `toml:"texture"`
	Shader  ShaderConfig  `toml:"shader"`
	Audio   AudioConfig   `toml:"audio"`
}

// VertexConfig selects the enabled vertex attributes, in binding-slot order,
// and the per-vertex bone influence count for skinned models.
type VertexConfig struct {
	Attributes     []string `toml:"attributes"`
	BoneInfluences int      `toml:"bone_influences"`
}

// TextureConfig carries the sampler parameters and mip-map flag applied
// after every pixel upload, plus the default fill bytes for packed-channel
// textures with absent source channels.
type TextureConfig struct {
	GenerateMipMaps bool              `toml:"generate_mipmaps"`
	SamplerParams   map[string]string `toml:"sampler_params"`
	DefaultFill     []uint8           `toml:"default_fill"`
}

// ShaderConfig lists the stages a program is assembled from and the source
// file extension the shader loader looks for.
type ShaderConfig struct {
	Stages    []string `toml:"stages"`
	Extension string   `toml:"extension"`
}

// AudioConfig sizes the streaming buffer ring for streamed clips.
type AudioConfig struct {
	StreamBufferCount int `toml:"stream_buffer_count"`
	StreamBufferSize  int `toml:"stream_buffer_size"`
}

// Default returns the configuration used when no file overrides it. The
// packed-channel fill defaults to opaque white; this is an explicit,
// documented default rather than an implicit constant.
func Default() *Config {
	return &Config{
		Vertex: VertexConfig{
			Attributes:     []string{"position", "normal", "texcoord"},
			BoneInfluences: 0,
		},
		Texture: TextureConfig{
			GenerateMipMaps: true,
			SamplerParams:   map[string]string{},
			DefaultFill:     []uint8{255, 255, 255, 255},
		},
		Shader: ShaderConfig{
			Stages:    []string{"vertex", "fragment"},
			Extension: ".glsl",
		},
		Audio: AudioConfig{
			StreamBufferCount: 4,
			StreamBufferSize:  64 * 1024,
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot honor.
func (c *Config) Validate() error {
	if len(c.Vertex.Attributes) == 0 {
		return core.ErrEmptyAttributeSet
	}
	if c.Vertex.BoneInfluences < 0 {
		return fmt.Errorf("bone_influences %d: %w", c.Vertex.BoneInfluences, core.ErrInvalidArgument)
	}
	if len(c.Texture.DefaultFill) != 4 {
		return fmt.Errorf("default_fill needs 4 bytes, got %d: %w", len(c.Texture.DefaultFill), core.ErrInvalidArgument)
	}
	if len(c.Shader.Stages) == 0 {
		return fmt.Errorf("no shader stages configured: %w", core.ErrInvalidArgument)
	}
	if c.Audio.StreamBufferCount <= 0 || c.Audio.StreamBufferSize <= 0 {
		return fmt.Errorf("audio stream buffers %dx%d: %w", c.Audio.StreamBufferCount, c.Audio.StreamBufferSize, core.ErrInvalidArgument)
	}
	return nil
}

// AttributeKinds parses the configured attribute names into their kinds,
// preserving order.
func (c *Config) AttributeKinds() ([]geometry.AttributeKind, error) {
	kinds := make([]geometry.AttributeKind, 0, len(c.Vertex.Attributes))
	for _, name := range c.Vertex.Attributes {
		kind, err := geometry.ParseAttributeKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// DefaultFill returns the packed-channel fill bytes as a fixed array.
func (c *Config) DefaultFill() [4]uint8 {
	var fill [4]uint8
	copy(fill[:], c.Texture.DefaultFill)
	return fill
}
