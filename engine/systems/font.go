package systems

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/soma/engine/assets"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/resources"
)

// FontSystem is the reference-counted bitmap font cache. Loading a font
// parses its descriptor file, uploads every page atlas through the texture
// system and indexes glyph metrics and kerning pairs for text layout.
type FontSystem struct {
	graph *Graph[*resources.FontSource, *resources.Font]
}

type fontLoader struct {
	textures *TextureSystem
	files    assets.FileAccess
	manager  *assets.AssetManager
}

func NewFontSystem(textures *TextureSystem, files assets.FileAccess, manager *assets.AssetManager, ids *core.IdentityAllocator, registry *ReleaseRegistry) (*FontSystem, error) {
	if textures == nil || files == nil || manager == nil {
		return nil, fmt.Errorf("func NewFontSystem - texture system, file access and asset manager are required: %w", core.ErrInvalidArgument)
	}
	loader := &fontLoader{
		textures: textures,
		files:    files,
		manager:  manager,
	}
	graph, err := NewGraph[*resources.FontSource, *resources.Font](resources.KindFont, loader, ids, registry)
	if err != nil {
		return nil, err
	}
	return &FontSystem{graph: graph}, nil
}

// Acquire references the font under the given key, parsing and uploading it
// on first use.
func (fs *FontSystem) Acquire(key string, src *resources.FontSource) (Ref[*resources.Font], error) {
	return fs.graph.Reference(key, []*resources.FontSource{src}, nil)
}

// Release drops one reference. When the last reference goes away the page
// atlas texture references cascade through the texture graph.
func (fs *FontSystem) Release(ref Ref[*resources.Font]) error {
	return fs.graph.Unreference(ref)
}

func (fl *fontLoader) SupportsCount(n int) bool {
	return n == 1
}

func (fl *fontLoader) Load(key string, media []*resources.FontSource, _ []string) (*resources.Font, []Dependency, error) {
	src := media[0]
	if src == nil || src.Path == "" {
		return nil, nil, fmt.Errorf("font '%s': no descriptor path: %w", key, core.ErrInvalidArgument)
	}

	desc, err := bmfont.LoadDescriptor(src.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("font '%s': %w", key, err)
	}

	// Page files are declared relative to the descriptor.
	baseDir := filepath.Dir(src.Path)

	pageIDs := make([]int, 0, len(desc.Pages))
	for id := range desc.Pages {
		pageIDs = append(pageIDs, id)
	}
	sort.Ints(pageIDs)

	var (
		deps      []Dependency
		rollbacks []func()
	)
	rollback := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}

	pages := make([]*resources.Texture, 0, len(pageIDs))
	for _, id := range pageIDs {
		page := desc.Pages[id]
		path := page.File
		if !fl.files.IsFullyQualified(path) {
			path = fl.files.ResolveRelative(baseDir, path)
		}
		img, err := fl.manager.LoadImage(path)
		if err != nil {
			rollback()
			return nil, nil, fmt.Errorf("font '%s' page %d: %w", key, id, err)
		}
		texRef, err := fl.textures.Acquire(path, img)
		if err != nil {
			rollback()
			return nil, nil, fmt.Errorf("font '%s' page %d: %w", key, id, err)
		}
		deps = append(deps, Dependency{Kind: resources.KindTexture, Key: path})
		rollbacks = append(rollbacks, func() { fl.textures.Release(texRef) })
		pages = append(pages, texRef.Resource)
	}

	glyphs := make(map[rune]resources.FontGlyph, len(desc.Chars))
	for r, ch := range desc.Chars {
		glyphs[r] = resources.FontGlyph{
			Codepoint: r,
			X:         ch.X,
			Y:         ch.Y,
			Width:     ch.Width,
			Height:    ch.Height,
			XOffset:   ch.XOffset,
			YOffset:   ch.YOffset,
			XAdvance:  ch.XAdvance,
			PageID:    ch.Page,
		}
	}

	kernings := make(map[[2]rune]int, len(desc.Kerning))
	for pair, k := range desc.Kerning {
		kernings[[2]rune{pair.First, pair.Second}] = k.Amount
	}

	return &resources.Font{
		Face:       desc.Info.Face,
		Size:       desc.Info.Size,
		LineHeight: desc.Common.LineHeight,
		Baseline:   desc.Common.Base,
		AtlasSizeX: desc.Common.ScaleW,
		AtlasSizeY: desc.Common.ScaleH,
		Glyphs:     glyphs,
		Kernings:   kernings,
		Pages:      pages,
	}, deps, nil
}

func (fl *fontLoader) Unload(_ *resources.Font) error {
	// Page textures are owned through the dependency cascade; the font
	// itself holds no backend resources.
	return nil
}
