//go:build !noheif

package internal

import (
	"fmt"

	"github.com/strukturag/libheif-go"
)

// heifSupported reports whether this binary can decode HEIC at all.
const heifSupported = true

// decodeHEIC decodes the primary image of a HEIC source into a tightly
// packed RGB raster. Each call owns its own libheif context, so concurrent
// conversions of independent sources never share decoder state.
func decodeHEIC(data []byte) (*raster, error) {
	ctx, err := libheif.NewContext()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	if err := ctx.ReadFromMemory(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputOpen, err)
	}

	handle, err := ctx.GetPrimaryImageHandle()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPrimaryImage, err)
	}

	img, err := handle.DecodeImage(libheif.ColorspaceRGB, libheif.ChromaInterleavedRGB, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	goImg, err := img.GetImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return rasterFromImage(goImg)
}
