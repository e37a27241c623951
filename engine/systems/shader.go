package systems

import (
	"fmt"

	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/renderer"
	"github.com/spaghettifunk/soma/engine/resources"
)

// ShaderSystem is the reference-counted shader program cache. A program is
// compiled from one to all of the configured stages; the backend's compile
// diagnostic is surfaced verbatim on failure.
type ShaderSystem struct {
	graph *Graph[resources.ShaderStage, *resources.Shader]
}

type shaderLoader struct {
	backend  renderer.Backend
	maxCount int
}

func NewShaderSystem(backend renderer.Backend, cfg *config.Config, ids *core.IdentityAllocator, registry *ReleaseRegistry) (*ShaderSystem, error) {
	if backend == nil || cfg == nil {
		return nil, fmt.Errorf("func NewShaderSystem - backend and config are required: %w", core.ErrInvalidArgument)
	}
	loader := &shaderLoader{
		backend:  backend,
		maxCount: len(cfg.Shader.Stages),
	}
	graph, err := NewGraph[resources.ShaderStage, *resources.Shader](resources.KindShader, loader, ids, registry)
	if err != nil {
		return nil, err
	}
	return &ShaderSystem{graph: graph}, nil
}

// Acquire references the program under the given key, compiling and linking
// the stages on first use.
func (ss *ShaderSystem) Acquire(key string, stages []resources.ShaderStage) (Ref[*resources.Shader], error) {
	return ss.graph.Reference(key, stages, nil)
}

// Release drops one reference; the backend program is destroyed when the
// last reference goes away.
func (ss *ShaderSystem) Release(ref Ref[*resources.Shader]) error {
	return ss.graph.Unreference(ref)
}

func (sl *shaderLoader) SupportsCount(n int) bool {
	return n >= 1 && n <= sl.maxCount
}

func (sl *shaderLoader) Load(key string, stages []resources.ShaderStage, _ []string) (*resources.Shader, []Dependency, error) {
	program, err := sl.backend.ShaderCreate(key, stages)
	if err != nil {
		// The backend error text is the compile/link log.
		return nil, nil, &core.LoadError{Kind: resources.KindShader, Key: key, Diag: err.Error(), Err: err}
	}
	s, err := resources.NewShader(key, program)
	if err != nil {
		sl.backend.ShaderDestroy(program)
		return nil, nil, err
	}
	return s, nil, nil
}

func (sl *shaderLoader) Unload(s *resources.Shader) error {
	return sl.backend.ShaderDestroy(s.Program)
}
