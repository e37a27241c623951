package renderer

import (
	"github.com/spaghettifunk/soma/engine/geometry"
	"github.com/spaghettifunk/soma/engine/resources"
)

// SamplerOptions carries the externally configured sampler state applied
// uniformly after pixel upload. The loading core does not interpret the
// parameter map; it is passed through to the backend as-is.
type SamplerOptions struct {
	GenerateMipMaps bool
	Params          map[string]string
}

// Backend is the graphics collaborator contract. Implementations accept
// byte buffers plus layout descriptors and return opaque handles; they are
// expected to be bound to a single backend-owning thread, which is a caller
// contract, not solved here. All destroy calls are invoked exactly once per
// created handle.
type Backend interface {
	// TextureCreate uploads pixel data (Layers 6 for cube maps) and applies
	// the configured sampler parameters and optional mip-map generation.
	TextureCreate(img *resources.Image, textureType resources.TextureType, sampler SamplerOptions) (resources.TextureHandle, error)
	TextureDestroy(handle resources.TextureHandle) error

	// CreateGeometry uploads one packed interleaved vertex buffer plus its
	// index data. The layout's entry order is the binding-slot order.
	CreateGeometry(vertexData []byte, layout *geometry.AttributeLayout, vertexCount int, indices []uint32) (resources.GeometryBuffers, error)
	DestroyGeometry(buffers resources.GeometryBuffers) error

	// ShaderCreate compiles and links the given stages into one program.
	// Compile failures must return an error carrying the diagnostic text.
	ShaderCreate(name string, stages []resources.ShaderStage) (resources.ProgramHandle, error)
	ShaderDestroy(program resources.ProgramHandle) error
}
