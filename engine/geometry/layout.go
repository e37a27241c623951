package geometry

import (
	"fmt"

	"github.com/spaghettifunk/soma/engine/core"
)

// AttributeKind identifies one vertex attribute that can be enabled for
// interleaved packing. The order attributes are enabled in is also the
// binding-slot order exposed to the backend (slot 0, 1, 2, ...).
type AttributeKind int

const (
	AttributePosition AttributeKind = iota
	AttributeNormal
	AttributeTangent
	AttributeColour
	AttributeTexcoord
	AttributeBoneIndices
	AttributeBoneWeights
)

func (k AttributeKind) String() string {
	switch k {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeTangent:
		return "tangent"
	case AttributeColour:
		return "colour"
	case AttributeTexcoord:
		return "texcoord"
	case AttributeBoneIndices:
		return "bone_indices"
	case AttributeBoneWeights:
		return "bone_weights"
	}
	return "unknown"
}

// ParseAttributeKind maps a configuration name to its attribute kind.
func ParseAttributeKind(name string) (AttributeKind, error) {
	for k := AttributePosition; k <= AttributeBoneWeights; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("attribute '%s': %w", name, core.ErrInvalidArgument)
}

// ElementType is the wire type of one attribute element.
type ElementType int

const (
	ElementFloat32 ElementType = iota
	ElementUint32
)

// Size returns the byte size of a single element.
func (t ElementType) Size() int {
	// Both supported element types are 4 bytes wide.
	return 4
}

// attributeFormat is one row of the closed variant table mapping an
// attribute kind to its element type, element count and value extraction.
// A count of 0 means "use the configured bone influence count".
type attributeFormat struct {
	elemType ElementType
	count    int
	floats   func(v *Vertex) []float32
	uints    func(v *Vertex) []uint32
}

// The table is built once; planner and packer iterate it generically
// instead of branching on the attribute kind in-line.
var attributeFormats = map[AttributeKind]attributeFormat{
	AttributePosition: {
		elemType: ElementFloat32,
		count:    3,
		floats:   func(v *Vertex) []float32 { return v.Position[:] },
	},
	AttributeNormal: {
		elemType: ElementFloat32,
		count:    3,
		floats:   func(v *Vertex) []float32 { return v.Normal[:] },
	},
	AttributeTangent: {
		elemType: ElementFloat32,
		count:    3,
		floats:   func(v *Vertex) []float32 { return v.Tangent[:] },
	},
	AttributeColour: {
		elemType: ElementFloat32,
		count:    4,
		floats:   func(v *Vertex) []float32 { return v.Colour[:] },
	},
	AttributeTexcoord: {
		elemType: ElementFloat32,
		count:    2,
		// The V component is flipped at pack time to compensate for the
		// top-left-origin UV convention of the source formats versus the
		// bottom-left convention of the backend.
		floats: func(v *Vertex) []float32 { return []float32{v.Texcoord.X(), 1.0 - v.Texcoord.Y()} },
	},
	AttributeBoneIndices: {
		elemType: ElementUint32,
		count:    0,
		uints:    func(v *Vertex) []uint32 { return v.BoneIndices },
	},
	AttributeBoneWeights: {
		elemType: ElementFloat32,
		count:    0,
		floats:   func(v *Vertex) []float32 { return v.BoneWeights },
	},
}

// LayoutEntry describes one attribute within an interleaved vertex record.
type LayoutEntry struct {
	Kind   AttributeKind
	Type   ElementType
	Count  int
	Offset int
}

// AttributeLayout is the computed byte layout of one interleaved vertex
// record. Offsets are strictly increasing and non-overlapping; the sum of
// all entry sizes equals Stride.
type AttributeLayout struct {
	Entries        []LayoutEntry
	Stride         int
	BoneInfluences int
}

// PlanAttributeLayout computes element type, count, byte size and cumulative
// offset for every enabled attribute, in the exact order given.
// BoneIndices/BoneWeights are included only when boneInfluences > 0;
// omitting them is the expected default for static geometry.
func PlanAttributeLayout(kinds []AttributeKind, boneInfluences int) (*AttributeLayout, error) {
	if len(kinds) == 0 {
		return nil, core.ErrEmptyAttributeSet
	}
	if boneInfluences < 0 {
		return nil, fmt.Errorf("bone influence count %d: %w", boneInfluences, core.ErrInvalidArgument)
	}

	layout := &AttributeLayout{
		Entries:        make([]LayoutEntry, 0, len(kinds)),
		BoneInfluences: boneInfluences,
	}

	seen := make(map[AttributeKind]bool, len(kinds))
	offset := 0
	for _, kind := range kinds {
		format, ok := attributeFormats[kind]
		if !ok {
			return nil, fmt.Errorf("attribute kind %d: %w", kind, core.ErrInvalidArgument)
		}
		if seen[kind] {
			return nil, fmt.Errorf("attribute '%s' enabled twice: %w", kind, core.ErrInvalidArgument)
		}
		seen[kind] = true

		count := format.count
		if count == 0 {
			if boneInfluences == 0 {
				// Skinning attributes are dropped entirely for static
				// configurations.
				continue
			}
			count = boneInfluences
		}

		layout.Entries = append(layout.Entries, LayoutEntry{
			Kind:   kind,
			Type:   format.elemType,
			Count:  count,
			Offset: offset,
		})
		offset += count * format.elemType.Size()
	}

	if len(layout.Entries) == 0 {
		return nil, core.ErrEmptyAttributeSet
	}

	layout.Stride = offset
	return layout, nil
}
