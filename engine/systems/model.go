package systems

import (
	"fmt"

	"github.com/spaghettifunk/soma/engine/assets"
	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/geometry"
	"github.com/spaghettifunk/soma/engine/renderer"
	"github.com/spaghettifunk/soma/engine/resources"
)

// ModelSystem is the reference-counted model cache. Loading one model source
// resolves its texture slots through the texture system, compiles its shader
// through the shader system, packs and uploads the vertex data for every
// mesh, resolves the bind pose and merges the animation collections. All of
// it either succeeds or is rolled back; a failed model load leaves no
// reference counted anywhere.
type ModelSystem struct {
	graph *Graph[*resources.ModelSource, *resources.Model]
}

type modelLoader struct {
	backend  renderer.Backend
	textures *TextureSystem
	shaders  *ShaderSystem
	files    assets.FileAccess
	manager  *assets.AssetManager
	layout   *geometry.AttributeLayout
}

func NewModelSystem(
	backend renderer.Backend,
	textures *TextureSystem,
	shaders *ShaderSystem,
	files assets.FileAccess,
	manager *assets.AssetManager,
	cfg *config.Config,
	ids *core.IdentityAllocator,
	registry *ReleaseRegistry,
) (*ModelSystem, error) {
	if backend == nil || textures == nil || shaders == nil || files == nil || manager == nil || cfg == nil {
		return nil, fmt.Errorf("func NewModelSystem - all collaborators are required: %w", core.ErrInvalidArgument)
	}

	kinds, err := cfg.AttributeKinds()
	if err != nil {
		return nil, err
	}
	// The layout is planned once from configuration; every mesh of every
	// model is packed with the same interleaved record.
	layout, err := geometry.PlanAttributeLayout(kinds, cfg.Vertex.BoneInfluences)
	if err != nil {
		return nil, err
	}

	loader := &modelLoader{
		backend:  backend,
		textures: textures,
		shaders:  shaders,
		files:    files,
		manager:  manager,
		layout:   layout,
	}
	graph, err := NewGraph[*resources.ModelSource, *resources.Model](resources.KindModel, loader, ids, registry)
	if err != nil {
		return nil, err
	}
	return &ModelSystem{graph: graph}, nil
}

// Acquire references the model under the given key, realizing it from the
// source description on first use.
func (ms *ModelSystem) Acquire(key string, src *resources.ModelSource) (Ref[*resources.Model], error) {
	return ms.graph.Reference(key, []*resources.ModelSource{src}, nil)
}

// Release drops one reference. When the last reference goes away the meshes
// are destroyed and the model's texture and shader references cascade.
func (ms *ModelSystem) Release(ref Ref[*resources.Model]) error {
	return ms.graph.Unreference(ref)
}

// Layout returns the configured interleaved vertex layout.
func (ms *ModelSystem) Layout() *geometry.AttributeLayout {
	loader := ms.graph.loader.(*modelLoader)
	return loader.layout
}

func (ml *modelLoader) SupportsCount(n int) bool {
	return n == 1
}

func (ml *modelLoader) Load(key string, media []*resources.ModelSource, _ []string) (*resources.Model, []Dependency, error) {
	src := media[0]
	if src == nil {
		return nil, nil, fmt.Errorf("model '%s': nil source: %w", key, core.ErrInvalidArgument)
	}

	var (
		deps      []Dependency
		rollbacks []func()
	)
	rollback := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}

	// Shader first: every mesh of the model shares the one program.
	shaderKey := src.ShaderName
	if shaderKey == "" {
		shaderKey = key + "#shader"
	}
	shaderRef, err := ml.shaders.Acquire(shaderKey, src.ShaderStages)
	if err != nil {
		return nil, nil, fmt.Errorf("model '%s': %w", key, err)
	}
	deps = append(deps, Dependency{Kind: resources.KindShader, Key: shaderKey})
	rollbacks = append(rollbacks, func() { ml.shaders.Release(shaderRef) })

	meshes := make([]*resources.MeshBuffer, 0, len(src.Meshes))
	for mi := range src.Meshes {
		mesh := &src.Meshes[mi]

		bindings := make([]resources.TextureBinding, 0, len(mesh.Slots))
		for si, slot := range mesh.Slots {
			texRef, texKey, err := ml.resolveSlot(key, src, slot)
			if err != nil {
				rollback()
				return nil, nil, fmt.Errorf("model '%s' mesh '%s' slot %d: %w", key, mesh.Name, si, err)
			}
			deps = append(deps, Dependency{Kind: resources.KindTexture, Key: texKey})
			rollbacks = append(rollbacks, func() { ml.textures.Release(texRef) })
			bindings = append(bindings, resources.TextureBinding{Use: slot.Use, Texture: texRef.Resource})
		}

		vertexData, err := geometry.PackVertexBuffer(ml.layout, mesh.Vertices)
		if err != nil {
			rollback()
			return nil, nil, fmt.Errorf("model '%s' mesh '%s': %w", key, mesh.Name, err)
		}
		buffers, err := ml.backend.CreateGeometry(vertexData, ml.layout, len(mesh.Vertices), mesh.Indices)
		if err != nil {
			rollback()
			return nil, nil, &core.LoadError{Kind: resources.KindModel, Key: key, Diag: err.Error(), Err: err}
		}
		rollbacks = append(rollbacks, func() { ml.backend.DestroyGeometry(buffers) })

		meshes = append(meshes, &resources.MeshBuffer{
			Name:        mesh.Name,
			Buffers:     buffers,
			VertexCount: len(mesh.Vertices),
			IndexCount:  len(mesh.Indices),
			Layout:      ml.layout,
			Textures:    bindings,
		})
	}

	var pose *resources.PoseBone
	if src.Skeleton != nil {
		pose, err = resources.ResolvePose(src.Skeleton)
		if err != nil {
			rollback()
			return nil, nil, fmt.Errorf("model '%s': %w", key, err)
		}
	}

	name := src.Name
	if name == "" {
		name = key
	}
	return &resources.Model{
		Name:       name,
		Meshes:     meshes,
		Shader:     shaderRef.Resource,
		Pose:       pose,
		Animations: resources.MergeAnimationSets(src.Animations...),
	}, deps, nil
}

// resolveSlot turns one texture slot into a counted texture reference.
// Exactly one of Inline, EmbeddedIndex or Path may select the source;
// ambiguous or empty slots are rejected rather than silently picking one.
func (ml *modelLoader) resolveSlot(modelKey string, src *resources.ModelSource, slot resources.TextureSlot) (Ref[*resources.Texture], string, error) {
	var zero Ref[*resources.Texture]

	selectors := 0
	if slot.Inline != nil {
		selectors++
	}
	if slot.EmbeddedIndex != nil {
		selectors++
	}
	if slot.Path != "" {
		selectors++
	}
	if selectors > 1 {
		return zero, "", fmt.Errorf("texture slot selects %d sources: %w", selectors, core.ErrInvalidArgument)
	}

	switch {
	case slot.Inline != nil:
		// Inline pixel data is private to this referencer and never shared.
		key := resources.EmbeddedKey(resources.KindTexture)
		ref, err := ml.textures.Acquire(key, slot.Inline)
		return ref, key, err

	case slot.EmbeddedIndex != nil:
		index := *slot.EmbeddedIndex
		if index < 0 || index >= len(src.EmbeddedImages) {
			return zero, "", fmt.Errorf("embedded image index %d of %d: %w",
				index, len(src.EmbeddedImages), core.ErrInvalidArgument)
		}
		// Keyed per model so repeated slots of the same container share one
		// upload through the cache.
		key := fmt.Sprintf("%s#embedded/%d", modelKey, index)
		ref, err := ml.textures.Acquire(key, src.EmbeddedImages[index])
		return ref, key, err

	case slot.Path != "":
		path := slot.Path
		if !ml.files.IsFullyQualified(path) {
			path = ml.files.ResolveRelative(src.BasePath, path)
		}
		img, err := ml.manager.LoadImage(path)
		if err != nil {
			return zero, "", err
		}
		ref, err := ml.textures.Acquire(path, img)
		return ref, path, err

	default:
		return zero, "", fmt.Errorf("texture slot selects no source: %w", core.ErrInvalidArgument)
	}
}

func (ml *modelLoader) Unload(m *resources.Model) error {
	// Texture and shader references are cascaded by the graph; only the
	// geometry buffers are owned directly.
	var err error
	for _, mesh := range m.Meshes {
		if e := ml.backend.DestroyGeometry(mesh.Buffers); e != nil && err == nil {
			err = fmt.Errorf("model '%s' mesh '%s': %w", m.Name, mesh.Name, e)
		}
	}
	return err
}
