package texture

import (
	"fmt"

	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/resources"
)

// CubeFaceCount is the number of faces a cube map consumes, strictly in the
// order +X, -X, +Y, -Y, +Z, -Z. Reordering is the caller's responsibility
// and is not validated beyond count.
const CubeFaceCount = 6

// MaxPackedChannels is the number of source images a packed-channel texture
// can merge (one per output channel R, G, B, A).
const MaxPackedChannels = 4

// validateSource checks one source image against the supported format set:
// 3-channel and 4-channel 8-bit-per-channel, single layer.
func validateSource(img *resources.Image) error {
	if img == nil {
		return fmt.Errorf("nil source image: %w", core.ErrInvalidArgument)
	}
	if img.Channels != 3 && img.Channels != 4 {
		return fmt.Errorf("%d channels: %w", img.Channels, core.ErrUnsupportedFormat)
	}
	if img.Layers > 1 {
		return fmt.Errorf("layered source image: %w", core.ErrUnsupportedFormat)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("image size %dx%d: %w", img.Width, img.Height, core.ErrInvalidArgument)
	}
	if len(img.Pixels) < img.Width*img.Height*img.Channels {
		return fmt.Errorf("pixel data truncated: %w", core.ErrUnsupportedFormat)
	}
	return nil
}

// ExpandAlpha returns a 4-channel copy of a 3-channel image with a fixed 255
// alpha byte appended per pixel. 4-channel input is returned as-is.
func ExpandAlpha(img *resources.Image) (*resources.Image, error) {
	if err := validateSource(img); err != nil {
		return nil, err
	}
	if img.Channels == 4 {
		return img, nil
	}

	pixelCount := img.Width * img.Height
	pixels := make([]uint8, pixelCount*4)
	for p := 0; p < pixelCount; p++ {
		copy(pixels[p*4:], img.Pixels[p*3:p*3+3])
		pixels[p*4+3] = 255
	}

	return &resources.Image{
		Width:    img.Width,
		Height:   img.Height,
		Channels: 4,
		Layers:   1,
		Pixels:   pixels,
	}, nil
}

// PackChannels merges up to four source images into a single 4-channel
// 8-bit image. For output channel i (0=R,1=G,2=B,3=A): if a source image is
// provided at index i, its first channel's byte is copied per pixel;
// otherwise the channel is filled with fill[i]. All provided sources must
// share identical dimensions.
func PackChannels(images []*resources.Image, fill [4]uint8) (*resources.Image, error) {
	if len(images) == 0 || len(images) > MaxPackedChannels {
		return nil, fmt.Errorf("%d source images for packed texture: %w", len(images), core.ErrUnsupportedMediaCount)
	}

	width, height := 0, 0
	sources := make([]*resources.Image, len(images))
	for i, img := range images {
		if img == nil {
			continue
		}
		expanded, err := ExpandAlpha(img)
		if err != nil {
			return nil, err
		}
		if width == 0 {
			width, height = expanded.Width, expanded.Height
		} else if expanded.Width != width || expanded.Height != height {
			return nil, fmt.Errorf("source %d is %dx%d, expected %dx%d: %w",
				i, expanded.Width, expanded.Height, width, height, core.ErrDimensionMismatch)
		}
		sources[i] = expanded
	}
	if width == 0 {
		return nil, fmt.Errorf("no source images provided: %w", core.ErrInvalidArgument)
	}

	pixelCount := width * height
	pixels := make([]uint8, pixelCount*4)
	for p := 0; p < pixelCount; p++ {
		for c := 0; c < 4; c++ {
			if c < len(sources) && sources[c] != nil {
				pixels[p*4+c] = sources[c].Pixels[p*4]
			} else {
				pixels[p*4+c] = fill[c]
			}
		}
	}

	return &resources.Image{
		Width:    width,
		Height:   height,
		Channels: 4,
		Layers:   1,
		Pixels:   pixels,
	}, nil
}

// PackCubeMap assembles six face images into one six-layer image. The inputs
// are consumed strictly in the order +X, -X, +Y, -Y, +Z, -Z. All faces must
// share identical dimensions.
func PackCubeMap(images []*resources.Image) (*resources.Image, error) {
	if len(images) != CubeFaceCount {
		return nil, fmt.Errorf("%d face images for cube map: %w", len(images), core.ErrUnsupportedMediaCount)
	}

	width, height := 0, 0
	faceSize := 0
	var pixels []uint8
	for i, img := range images {
		face, err := ExpandAlpha(img)
		if err != nil {
			return nil, fmt.Errorf("cube face %d: %w", i, err)
		}
		if i == 0 {
			width, height = face.Width, face.Height
			faceSize = width * height * 4
			pixels = make([]uint8, faceSize*CubeFaceCount)
		} else if face.Width != width || face.Height != height {
			// All faces must be the same resolution and bit depth.
			return nil, fmt.Errorf("cube face %d is %dx%d, expected %dx%d: %w",
				i, face.Width, face.Height, width, height, core.ErrDimensionMismatch)
		}
		copy(pixels[faceSize*i:], face.Pixels[:faceSize])
	}

	return &resources.Image{
		Width:    width,
		Height:   height,
		Channels: 4,
		Layers:   CubeFaceCount,
		Pixels:   pixels,
	}, nil
}
