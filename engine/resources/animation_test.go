package resources

import (
	"testing"
)

func clip(name string, duration float64) *Animation {
	return NewAnimation(name, duration, []*AnimationChannel{
		{BoneName: "root"},
	})
}

func TestAnimationChannelLookup(t *testing.T) {
	channels := []*AnimationChannel{
		{BoneName: "root"},
		{BoneName: "arm"},
		// Duplicate bone name: last occurrence wins.
		{BoneName: "root", Rotations: []RotationKey{{Time: 1}}},
	}
	a := NewAnimation("Walk", 2.5, channels)

	ch, ok := a.Channel("root")
	if !ok {
		t.Fatal("channel 'root' not found")
	}
	if len(ch.Rotations) != 1 {
		t.Error("duplicate bone channel: expected the later channel to win")
	}
	if len(a.Channels()) != 3 {
		t.Errorf("declared order length = %d, want 3", len(a.Channels()))
	}
}

func TestMergeAnimationSets(t *testing.T) {
	first := NewAnimationSet(clip("Walk", 1.0), clip("Run", 0.8))
	second := NewAnimationSet(clip("Walk", 2.0), clip("Jump", 0.5))

	merged := MergeAnimationSets(first, second, nil)

	if merged.Len() != 3 {
		t.Fatalf("merged length = %d, want 3", merged.Len())
	}

	// Same-name collision: the later set's clip wins.
	walk, ok := merged.Animation("Walk")
	if !ok {
		t.Fatal("'Walk' missing from merged set")
	}
	if walk.Duration != 2.0 {
		t.Errorf("'Walk' duration = %v, want the later set's 2.0", walk.Duration)
	}

	wantNames := []string{"Walk", "Run", "Jump"}
	names := merged.Names()
	for i, want := range wantNames {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want)
		}
	}
}

func TestMergeAnimationSetsEmpty(t *testing.T) {
	merged := MergeAnimationSets()
	if merged.Len() != 0 {
		t.Errorf("empty merge length = %d, want 0", merged.Len())
	}
}
