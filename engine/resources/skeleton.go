package resources

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/soma/engine/core"
)

// Bone is one node of a model's declared bone hierarchy, constructed
// bottom-up by the source importer. The tree is treated as immutable input;
// resolving a pose never mutates it.
type Bone struct {
	// Name must be unique within one skeleton. Uniqueness is relied upon by
	// animation-channel lookup but not enforced here; duplicates yield
	// last-wins lookups.
	Name        string
	LocalOffset mgl32.Mat4
	Children    []*Bone
}

// PoseBone is one node of a resolved bind pose. It exclusively owns its
// children and holds a non-owning back-reference to its parent (nil at the
// root), set once during resolution and immutable afterward.
type PoseBone struct {
	Name string
	// GlobalOffset accumulates the parent-to-child local offsets down from
	// the root.
	GlobalOffset mgl32.Mat4
	// WorldToBind transforms world space into this bone's local bind space.
	WorldToBind mgl32.Mat4
	Parent      *PoseBone
	Children    []*PoseBone
}

// ResolvePose walks the bone hierarchy, accumulating local offset matrices
// into global bind matrices and inverting each into a world-to-bind matrix.
// The result is a newly allocated tree; the input is left untouched.
func ResolvePose(root *Bone) (*PoseBone, error) {
	if root == nil {
		return nil, fmt.Errorf("nil root bone: %w", core.ErrInvalidArgument)
	}
	return resolveBone(root, mgl32.Ident4(), nil)
}

func resolveBone(bone *Bone, parentGlobalOffset mgl32.Mat4, parent *PoseBone) (*PoseBone, error) {
	globalOffset := parentGlobalOffset.Mul4(bone.LocalOffset)
	if globalOffset.Det() == 0 {
		// Degenerate transforms surface as a model-load failure rather than
		// being silently defaulted.
		return nil, fmt.Errorf("bone '%s': %w", bone.Name, core.ErrSingularMatrix)
	}

	pose := &PoseBone{
		Name:         bone.Name,
		GlobalOffset: globalOffset,
		WorldToBind:  globalOffset.Inv(),
		Parent:       parent,
	}

	if len(bone.Children) > 0 {
		pose.Children = make([]*PoseBone, 0, len(bone.Children))
		for _, child := range bone.Children {
			resolved, err := resolveBone(child, globalOffset, pose)
			if err != nil {
				return nil, err
			}
			pose.Children = append(pose.Children, resolved)
		}
	}

	return pose, nil
}
