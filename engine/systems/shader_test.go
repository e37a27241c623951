package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/resources"
)

func TestShaderSystemStageCountBounds(t *testing.T) {
	backend := newFakeRenderBackend()
	// Default config allows up to two stages.
	ss, err := NewShaderSystem(backend, config.Default(), core.NewIdentityAllocator(), NewReleaseRegistry())
	if err != nil {
		t.Fatalf("NewShaderSystem: %v", err)
	}

	stage := resources.ShaderStage{Stage: "vertex", Source: "void main() {}"}

	if _, err := ss.Acquire("none", nil); !errors.Is(err, core.ErrUnsupportedMediaCount) {
		t.Errorf("zero stages: got %v, want ErrUnsupportedMediaCount", err)
	}
	if _, err := ss.Acquire("too-many", []resources.ShaderStage{stage, stage, stage}); !errors.Is(err, core.ErrUnsupportedMediaCount) {
		t.Errorf("three stages: got %v, want ErrUnsupportedMediaCount", err)
	}
	if _, err := ss.Acquire("ok", []resources.ShaderStage{stage}); err != nil {
		t.Errorf("single stage: %v", err)
	}
}

func TestShaderSystemCompileDiagnostic(t *testing.T) {
	backend := newFakeRenderBackend()
	backend.failShaderDiag = "0:3: 'vec4' : undeclared identifier"
	ss, err := NewShaderSystem(backend, config.Default(), core.NewIdentityAllocator(), NewReleaseRegistry())
	if err != nil {
		t.Fatalf("NewShaderSystem: %v", err)
	}

	_, err = ss.Acquire("broken", []resources.ShaderStage{{Stage: "vertex", Source: "?"}})
	var loadErr *core.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %T, want *core.LoadError", err)
	}
	if loadErr.Kind != resources.KindShader || loadErr.Diag == "" {
		t.Errorf("unexpected load error %+v", loadErr)
	}
}
