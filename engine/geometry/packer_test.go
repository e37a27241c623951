package geometry

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/soma/engine/core"
)

func readFloat32(t *testing.T, buffer []byte, at int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buffer[at:]))
}

func TestPackVertexBufferInterleaving(t *testing.T) {
	layout, err := PlanAttributeLayout([]AttributeKind{AttributePosition, AttributeTexcoord}, 0)
	if err != nil {
		t.Fatalf("PlanAttributeLayout: %v", err)
	}

	vertices := []Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, Texcoord: mgl32.Vec2{0.25, 0.75}},
		{Position: mgl32.Vec3{4, 5, 6}, Texcoord: mgl32.Vec2{1, 0}},
	}

	buffer, err := PackVertexBuffer(layout, vertices)
	if err != nil {
		t.Fatalf("PackVertexBuffer: %v", err)
	}
	if len(buffer) != layout.Stride*len(vertices) {
		t.Fatalf("buffer length = %d, want %d", len(buffer), layout.Stride*len(vertices))
	}

	// Record 0: position at offset 0, texcoord at offset 12 with V flipped.
	wantRecord0 := []float32{1, 2, 3, 0.25, 0.25}
	for i, want := range wantRecord0 {
		if got := readFloat32(t, buffer, i*4); got != want {
			t.Errorf("record 0 element %d = %v, want %v", i, got, want)
		}
	}

	// Record 1 starts at one stride.
	wantRecord1 := []float32{4, 5, 6, 1, 1}
	for i, want := range wantRecord1 {
		if got := readFloat32(t, buffer, layout.Stride+i*4); got != want {
			t.Errorf("record 1 element %d = %v, want %v", i, got, want)
		}
	}
}

func TestPackVertexBufferBoneInfluences(t *testing.T) {
	layout, err := PlanAttributeLayout([]AttributeKind{AttributeBoneIndices, AttributeBoneWeights}, 4)
	if err != nil {
		t.Fatalf("PlanAttributeLayout: %v", err)
	}

	vertices := []Vertex{
		{
			// Two influences: the remaining two slots must be zero-filled.
			BoneIndices: []uint32{7, 9},
			BoneWeights: []float32{0.5, 0.5},
		},
		{
			// Five influences: the fifth must be dropped.
			BoneIndices: []uint32{1, 2, 3, 4, 5},
			BoneWeights: []float32{0.2, 0.2, 0.2, 0.2, 0.2},
		},
	}

	buffer, err := PackVertexBuffer(layout, vertices)
	if err != nil {
		t.Fatalf("PackVertexBuffer: %v", err)
	}

	// Bone indices are true integers on the wire, never floats.
	wantIndices0 := []uint32{7, 9, 0, 0}
	for i, want := range wantIndices0 {
		if got := binary.LittleEndian.Uint32(buffer[i*4:]); got != want {
			t.Errorf("record 0 index %d = %d, want %d", i, got, want)
		}
	}

	wantIndices1 := []uint32{1, 2, 3, 4}
	for i, want := range wantIndices1 {
		if got := binary.LittleEndian.Uint32(buffer[layout.Stride+i*4:]); got != want {
			t.Errorf("record 1 index %d = %d, want %d", i, got, want)
		}
	}

	weightsAt := layout.Entries[1].Offset
	wantWeights0 := []float32{0.5, 0.5, 0, 0}
	for i, want := range wantWeights0 {
		if got := readFloat32(t, buffer, weightsAt+i*4); got != want {
			t.Errorf("record 0 weight %d = %v, want %v", i, got, want)
		}
	}
}

func TestPackVertexBufferEmptyLayout(t *testing.T) {
	if _, err := PackVertexBuffer(nil, nil); !errors.Is(err, core.ErrEmptyAttributeSet) {
		t.Errorf("got %v, want ErrEmptyAttributeSet", err)
	}
}

func TestPackVertexBufferNoVertices(t *testing.T) {
	layout, err := PlanAttributeLayout([]AttributeKind{AttributePosition}, 0)
	if err != nil {
		t.Fatalf("PlanAttributeLayout: %v", err)
	}
	buffer, err := PackVertexBuffer(layout, nil)
	if err != nil {
		t.Fatalf("PackVertexBuffer: %v", err)
	}
	if len(buffer) != 0 {
		t.Errorf("buffer length = %d, want 0", len(buffer))
	}
}
