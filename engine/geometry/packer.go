package geometry

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spaghettifunk/soma/engine/core"
)

// PackVertexBuffer writes the given vertices into one contiguous
// little-endian byte buffer following the layout plan. Records are laid out
// back to back; the record size equals layout.Stride.
//
// Integer-typed attributes (bone indices) are written as true integers and
// never pass through a floating-point representation, since backend binding
// for these attributes uses strict integer semantics. Vertices carrying fewer
// bone influences than the planned count are zero-filled for the remaining
// slots; extra influences beyond the planned count are dropped.
func PackVertexBuffer(layout *AttributeLayout, vertices []Vertex) ([]byte, error) {
	if layout == nil || len(layout.Entries) == 0 {
		return nil, core.ErrEmptyAttributeSet
	}

	buffer := make([]byte, layout.Stride*len(vertices))
	for i := range vertices {
		v := &vertices[i]
		base := i * layout.Stride
		for _, entry := range layout.Entries {
			format := attributeFormats[entry.Kind]
			at := base + entry.Offset
			switch entry.Type {
			case ElementFloat32:
				values := format.floats(v)
				for e := 0; e < entry.Count; e++ {
					var value float32
					if e < len(values) {
						value = values[e]
					}
					binary.LittleEndian.PutUint32(buffer[at+e*4:], math.Float32bits(value))
				}
			case ElementUint32:
				values := format.uints(v)
				for e := 0; e < entry.Count; e++ {
					var value uint32
					if e < len(values) {
						value = values[e]
					}
					binary.LittleEndian.PutUint32(buffer[at+e*4:], value)
				}
			default:
				return nil, fmt.Errorf("element type %d: %w", entry.Type, core.ErrInvalidArgument)
			}
		}
	}

	return buffer, nil
}
