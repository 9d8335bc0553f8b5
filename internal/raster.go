package internal

import (
	"fmt"
	"image"
	"image/color"
)

// raster is a tightly packed 8-bit RGB image: no row padding, no alpha.
// Pixel (x,y) starts at Pix[(y*Width+x)*3].
type raster struct {
	Width  int
	Height int
	Pix    []byte // len = Width * Height * 3
}

func (r *raster) ColorModel() color.Model { return color.RGBAModel }

func (r *raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.Width, r.Height) }

func (r *raster) At(x, y int) color.Color {
	i := (y*r.Width + x) * 3
	return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xFF}
}

// Opaque reports that the raster has no alpha channel, which lets the
// JPEG encoder skip its transparency scan.
func (r *raster) Opaque() bool { return true }

// rasterFromImage compacts a decoded image into a raster. Decoders return
// rows aligned to their own boundaries, so the source stride may exceed
// width*4; only the leading width pixels of each row are kept and the
// alpha byte is dropped.
func rasterFromImage(img image.Image) (*raster, error) {
	var (
		pix    []byte
		stride int
		bounds image.Rectangle
		offset int
	)

	switch src := img.(type) {
	case *image.RGBA:
		pix, stride, bounds = src.Pix, src.Stride, src.Rect
		offset = src.PixOffset(bounds.Min.X, bounds.Min.Y)
	case *image.NRGBA:
		// Identical layout to RGBA; HEIC primaries decode opaque, so
		// premultiplication never differs.
		pix, stride, bounds = src.Pix, src.Stride, src.Rect
		offset = src.PixOffset(bounds.Min.X, bounds.Min.Y)
	default:
		return nil, fmt.Errorf("%w: decoder returned %T instead of an interleaved RGB image", ErrNoInterleavedPlane, img)
	}

	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: decoded image is %dx%d", ErrRasterMalformed, w, h)
	}

	out := make([]byte, w*h*3)
	di := 0
	for y := 0; y < h; y++ {
		si := offset + y*stride
		for x := 0; x < w; x++ {
			out[di] = pix[si]
			out[di+1] = pix[si+1]
			out[di+2] = pix[si+2]
			di += 3
			si += 4
		}
	}
	if di != w*h*3 {
		return nil, fmt.Errorf("%w: assembled %d bytes for a %dx%d raster, want %d", ErrRasterMalformed, di, w, h, w*h*3)
	}

	return &raster{Width: w, Height: h, Pix: out}, nil
}
