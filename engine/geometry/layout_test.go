package geometry

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/soma/engine/core"
)

func TestPlanAttributeLayoutOffsets(t *testing.T) {
	tests := []struct {
		name       string
		kinds      []AttributeKind
		influences int
		offsets    []int
		stride     int
	}{
		{
			name:    "static default",
			kinds:   []AttributeKind{AttributePosition, AttributeNormal, AttributeTexcoord},
			offsets: []int{0, 12, 24},
			stride:  32,
		},
		{
			name:    "full static",
			kinds:   []AttributeKind{AttributePosition, AttributeNormal, AttributeTangent, AttributeColour, AttributeTexcoord},
			offsets: []int{0, 12, 24, 36, 52},
			stride:  60,
		},
		{
			name:       "skinned four influences",
			kinds:      []AttributeKind{AttributePosition, AttributeBoneIndices, AttributeBoneWeights},
			influences: 4,
			offsets:    []int{0, 12, 28},
			stride:     44,
		},
		{
			name:    "bone attributes dropped for static config",
			kinds:   []AttributeKind{AttributePosition, AttributeBoneIndices, AttributeBoneWeights, AttributeTexcoord},
			offsets: []int{0, 12},
			stride:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := PlanAttributeLayout(tt.kinds, tt.influences)
			if err != nil {
				t.Fatalf("PlanAttributeLayout: %v", err)
			}
			if len(layout.Entries) != len(tt.offsets) {
				t.Fatalf("got %d entries, want %d", len(layout.Entries), len(tt.offsets))
			}
			for i, entry := range layout.Entries {
				if entry.Offset != tt.offsets[i] {
					t.Errorf("entry %d (%s) offset = %d, want %d", i, entry.Kind, entry.Offset, tt.offsets[i])
				}
			}
			if layout.Stride != tt.stride {
				t.Errorf("stride = %d, want %d", layout.Stride, tt.stride)
			}
		})
	}
}

func TestPlanAttributeLayoutDeterministic(t *testing.T) {
	kinds := []AttributeKind{AttributeTexcoord, AttributePosition, AttributeNormal}

	first, err := PlanAttributeLayout(kinds, 0)
	if err != nil {
		t.Fatalf("PlanAttributeLayout: %v", err)
	}
	second, err := PlanAttributeLayout(kinds, 0)
	if err != nil {
		t.Fatalf("PlanAttributeLayout: %v", err)
	}

	// Entry order follows the enable order, not the enum order.
	if first.Entries[0].Kind != AttributeTexcoord {
		t.Errorf("first entry = %s, want texcoord", first.Entries[0].Kind)
	}
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Errorf("entry %d differs between identical plans: %+v vs %+v", i, first.Entries[i], second.Entries[i])
		}
	}
}

func TestPlanAttributeLayoutErrors(t *testing.T) {
	tests := []struct {
		name       string
		kinds      []AttributeKind
		influences int
		want       error
	}{
		{"empty set", nil, 0, core.ErrEmptyAttributeSet},
		{"only skinning attributes while static", []AttributeKind{AttributeBoneIndices, AttributeBoneWeights}, 0, core.ErrEmptyAttributeSet},
		{"duplicate attribute", []AttributeKind{AttributePosition, AttributePosition}, 0, core.ErrInvalidArgument},
		{"negative influences", []AttributeKind{AttributePosition}, -1, core.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanAttributeLayout(tt.kinds, tt.influences)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseAttributeKind(t *testing.T) {
	for k := AttributePosition; k <= AttributeBoneWeights; k++ {
		parsed, err := ParseAttributeKind(k.String())
		if err != nil {
			t.Fatalf("ParseAttributeKind(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("ParseAttributeKind(%q) = %v, want %v", k.String(), parsed, k)
		}
	}

	if _, err := ParseAttributeKind("binormal"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("unknown name: got %v, want ErrInvalidArgument", err)
	}
}
