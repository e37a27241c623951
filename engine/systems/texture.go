package systems

import (
	"fmt"

	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/renderer"
	"github.com/spaghettifunk/soma/engine/resources"
	"github.com/spaghettifunk/soma/engine/texture"
)

// TextureSystem is the reference-counted texture cache. One source image is
// uploaded as-is, two to four are merged channel-wise into a single packed
// texture, and exactly six are assembled into a cube map.
type TextureSystem struct {
	graph *Graph[*resources.Image, *resources.Texture]
}

type textureLoader struct {
	backend renderer.Backend
	sampler renderer.SamplerOptions
	fill    [4]uint8
}

func NewTextureSystem(backend renderer.Backend, cfg *config.Config, ids *core.IdentityAllocator, registry *ReleaseRegistry) (*TextureSystem, error) {
	if backend == nil || cfg == nil {
		return nil, fmt.Errorf("func NewTextureSystem - backend and config are required: %w", core.ErrInvalidArgument)
	}
	loader := &textureLoader{
		backend: backend,
		sampler: renderer.SamplerOptions{
			GenerateMipMaps: cfg.Texture.GenerateMipMaps,
			Params:          cfg.Texture.SamplerParams,
		},
		fill: cfg.DefaultFill(),
	}
	graph, err := NewGraph[*resources.Image, *resources.Texture](resources.KindTexture, loader, ids, registry)
	if err != nil {
		return nil, err
	}
	return &TextureSystem{graph: graph}, nil
}

// Acquire references the texture under the given key, assembling and
// uploading it on first use. Two to four images are packed one per output
// channel in R,G,B,A order.
func (ts *TextureSystem) Acquire(key string, images ...*resources.Image) (Ref[*resources.Texture], error) {
	return ts.graph.Reference(key, images, nil)
}

// AcquireCube references a cube map assembled from exactly six face images in
// the order +X, -X, +Y, -Y, +Z, -Z.
func (ts *TextureSystem) AcquireCube(key string, faces []*resources.Image) (Ref[*resources.Texture], error) {
	if len(faces) != texture.CubeFaceCount {
		return Ref[*resources.Texture]{}, fmt.Errorf("%d cube faces: %w", len(faces), core.ErrUnsupportedMediaCount)
	}
	return ts.graph.Reference(key, faces, nil)
}

// Release drops one reference; the backend texture is destroyed when the
// last reference goes away.
func (ts *TextureSystem) Release(ref Ref[*resources.Texture]) error {
	return ts.graph.Unreference(ref)
}

func (tl *textureLoader) SupportsCount(n int) bool {
	return (n >= 1 && n <= texture.MaxPackedChannels) || n == texture.CubeFaceCount
}

func (tl *textureLoader) Load(key string, media []*resources.Image, _ []string) (*resources.Texture, []Dependency, error) {
	var (
		img         *resources.Image
		textureType resources.TextureType
		err         error
	)
	switch {
	case len(media) == 1:
		img, err = texture.ExpandAlpha(media[0])
		textureType = resources.TextureType2d
	case len(media) == texture.CubeFaceCount:
		img, err = texture.PackCubeMap(media)
		textureType = resources.TextureTypeCube
	default:
		img, err = texture.PackChannels(media, tl.fill)
		textureType = resources.TextureType2d
	}
	if err != nil {
		return nil, nil, fmt.Errorf("texture '%s': %w", key, err)
	}

	handle, err := tl.backend.TextureCreate(img, textureType, tl.sampler)
	if err != nil {
		return nil, nil, &core.LoadError{Kind: resources.KindTexture, Key: key, Diag: err.Error(), Err: err}
	}

	t, err := resources.NewTexture(key, textureType, img.Width, img.Height, img.Channels, handle)
	if err != nil {
		// The backend handed out an invalid handle; reclaim it anyway.
		tl.backend.TextureDestroy(handle)
		return nil, nil, err
	}
	return t, nil, nil
}

func (tl *textureLoader) Unload(t *resources.Texture) error {
	return tl.backend.TextureDestroy(t.Handle)
}
