package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents a single vertex as produced by a source importer,
 * before it is packed into an interleaved GPU buffer.
 */
type Vertex struct {
	/** @brief The position of the vertex */
	Position mgl32.Vec3
	/** @brief The normal of the vertex. */
	Normal mgl32.Vec3
	/** @brief The tangent of the vertex. */
	Tangent mgl32.Vec3
	/** @brief The colour of the vertex. */
	Colour mgl32.Vec4
	/** @brief The texture coordinate of the vertex, top-left origin. */
	Texcoord mgl32.Vec2
	// Per-vertex skinning data. May carry fewer influences than the
	// configured bone influence count; the packer zero-fills the rest.
	BoneIndices []uint32
	BoneWeights []float32
}
