package loaders

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/soma/engine/resources"
)

// ImageLoader decodes image files into raw RGBA pixel data. Formats without
// a magic number (tga) are routed by extension; the rest go through the
// registered stdlib/x-image decoders.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string) (*resources.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		img, err = tga.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &resources.Image{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: 4,
		Layers:   1,
		Pixels:   rgba.Pix,
	}, nil
}
