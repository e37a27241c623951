package systems

import (
	"github.com/spaghettifunk/soma/engine/assets"
	"github.com/spaghettifunk/soma/engine/audio"
	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/renderer"
)

// Pipeline wires the per-kind systems over one shared identity allocator and
// release registry, so a model's texture and shader references cascade
// correctly when the model is released.
type Pipeline struct {
	Textures *TextureSystem
	Shaders  *ShaderSystem
	Models   *ModelSystem
	Audio    *AudioSystem
	Fonts    *FontSystem

	Assets *assets.AssetManager
}

// NewPipeline composes the full asset pipeline against the given backends.
// The asset manager starts watching assetsDir for changes.
func NewPipeline(graphics renderer.Backend, sound audio.Backend, cfg *config.Config, assetsDir string) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	manager, err := assets.NewAssetManager(cfg.Shader.Extension)
	if err != nil {
		return nil, err
	}
	if err := manager.Initialize(assetsDir); err != nil {
		manager.Shutdown()
		return nil, err
	}

	ids := core.NewIdentityAllocator()
	registry := NewReleaseRegistry()
	files := assets.OSFileAccess{}

	textures, err := NewTextureSystem(graphics, cfg, ids, registry)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}
	shaders, err := NewShaderSystem(graphics, cfg, ids, registry)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}
	models, err := NewModelSystem(graphics, textures, shaders, files, manager, cfg, ids, registry)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}
	audioSys, err := NewAudioSystem(sound, cfg, ids, registry)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}
	fonts, err := NewFontSystem(textures, files, manager, ids, registry)
	if err != nil {
		manager.Shutdown()
		return nil, err
	}

	core.LogInfo("asset pipeline initialized, watching '%s'", assetsDir)
	return &Pipeline{
		Textures: textures,
		Shaders:  shaders,
		Models:   models,
		Audio:    audioSys,
		Fonts:    fonts,
		Assets:   manager,
	}, nil
}

// Shutdown stops the asset watcher. Live references are the caller's to
// release; the pipeline does not force-unload.
func (p *Pipeline) Shutdown() {
	p.Assets.Shutdown()
}
