package resources

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RotationKey is one rotation keyframe.
type RotationKey struct {
	Time  float64
	Value mgl32.Quat
}

// VectorKey is one translation or scale keyframe.
type VectorKey struct {
	Time  float64
	Value mgl32.Vec3
}

// AnimationChannel carries the keyframe sequences animating one bone.
type AnimationChannel struct {
	BoneName  string
	Rotations []RotationKey
	Offsets   []VectorKey
	Scales    []VectorKey
}

// Animation is one named clip. Channels are indexed by bone name at
// construction for O(1) lookup.
type Animation struct {
	Name     string
	Duration float64

	channels map[string]*AnimationChannel
	order    []*AnimationChannel
}

// NewAnimation builds the bone-name index once. Duplicate bone names are
// last-wins, matching the (unenforced) uniqueness contract of Bone.Name.
func NewAnimation(name string, duration float64, channels []*AnimationChannel) *Animation {
	a := &Animation{
		Name:     name,
		Duration: duration,
		channels: make(map[string]*AnimationChannel, len(channels)),
		order:    channels,
	}
	for _, ch := range channels {
		a.channels[ch.BoneName] = ch
	}
	return a
}

// Channel returns the channel animating the named bone.
func (a *Animation) Channel(boneName string) (*AnimationChannel, bool) {
	ch, ok := a.channels[boneName]
	return ch, ok
}

// Channels returns the channels in their declared order.
func (a *Animation) Channels() []*AnimationChannel {
	return a.order
}

// AnimationSet is a name-indexed collection of animations.
type AnimationSet struct {
	byName map[string]*Animation
	names  []string
}

func NewAnimationSet(animations ...*Animation) *AnimationSet {
	s := &AnimationSet{
		byName: make(map[string]*Animation, len(animations)),
	}
	for _, a := range animations {
		s.Add(a)
	}
	return s
}

// Add registers an animation. A later animation with the same name replaces
// the earlier one (last occurrence wins).
func (s *AnimationSet) Add(a *Animation) {
	if a == nil {
		return
	}
	if _, exists := s.byName[a.Name]; !exists {
		s.names = append(s.names, a.Name)
	}
	s.byName[a.Name] = a
}

// Animation returns the named animation.
func (s *AnimationSet) Animation(name string) (*Animation, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Len returns the number of distinct animation names in the set.
func (s *AnimationSet) Len() int {
	return len(s.byName)
}

// Names returns the distinct animation names in first-seen order.
func (s *AnimationSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// MergeAnimationSets flattens all animations across the input collections
// into one, deduplicating by animation name. Later collections override
// earlier ones with the same name: last occurrence wins.
func MergeAnimationSets(sets ...*AnimationSet) *AnimationSet {
	merged := NewAnimationSet()
	for _, set := range sets {
		if set == nil {
			continue
		}
		for _, name := range set.names {
			merged.Add(set.byName[name])
		}
	}
	return merged
}
