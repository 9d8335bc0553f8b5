package internal

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestRasterFromImageRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	colors := [][3]byte{
		{10, 20, 30}, {40, 50, 60}, {70, 80, 90},
		{11, 21, 31}, {41, 51, 61}, {71, 81, 91},
	}
	for i, c := range colors {
		src.Pix[i*4], src.Pix[i*4+1], src.Pix[i*4+2], src.Pix[i*4+3] = c[0], c[1], c[2], 0xFF
	}

	rst, err := rasterFromImage(src)
	if err != nil {
		t.Fatalf("rasterFromImage failed: %v", err)
	}
	if rst.Width != 3 || rst.Height != 2 {
		t.Fatalf("raster is %dx%d, want 3x2", rst.Width, rst.Height)
	}
	if len(rst.Pix) != 3*2*3 {
		t.Fatalf("raster has %d bytes, want %d", len(rst.Pix), 3*2*3)
	}

	var want []byte
	for _, c := range colors {
		want = append(want, c[0], c[1], c[2])
	}
	if !bytes.Equal(rst.Pix, want) {
		t.Errorf("raster bytes = %v, want %v", rst.Pix, want)
	}
}

// A sub-image view has a stride wider than its own row width and a pixel
// buffer that does not start at the first byte; compaction has to honor
// both.
func TestRasterFromImageCompactsStride(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			base.SetRGBA(x, y, color.RGBA{R: byte(x * 10), G: byte(y * 10), B: byte(x + y), A: 0xFF})
		}
	}

	sub, ok := base.SubImage(image.Rect(2, 1, 9, 5)).(*image.RGBA)
	if !ok {
		t.Fatal("SubImage did not return *image.RGBA")
	}
	if sub.Stride <= sub.Bounds().Dx()*4 {
		t.Fatal("test image stride is not wider than its rows")
	}

	rst, err := rasterFromImage(sub)
	if err != nil {
		t.Fatalf("rasterFromImage failed: %v", err)
	}
	if rst.Width != 7 || rst.Height != 4 {
		t.Fatalf("raster is %dx%d, want 7x4", rst.Width, rst.Height)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			i := (y*7 + x) * 3
			wantR, wantG, wantB := byte((x+2)*10), byte((y+1)*10), byte(x+2+y+1)
			if rst.Pix[i] != wantR || rst.Pix[i+1] != wantG || rst.Pix[i+2] != wantB {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					x, y, rst.Pix[i], rst.Pix[i+1], rst.Pix[i+2], wantR, wantG, wantB)
			}
		}
	}
}

func TestRasterFromImageNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 0xFF})
	src.SetNRGBA(1, 0, color.NRGBA{R: 4, G: 5, B: 6, A: 0xFF})

	rst, err := rasterFromImage(src)
	if err != nil {
		t.Fatalf("rasterFromImage failed: %v", err)
	}
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(rst.Pix, want) {
		t.Errorf("raster bytes = %v, want %v", rst.Pix, want)
	}
}

func TestRasterFromImageRejectsPlanar(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	if _, err := rasterFromImage(src); !errors.Is(err, ErrNoInterleavedPlane) {
		t.Errorf("rasterFromImage(YCbCr) returned %v, want ErrNoInterleavedPlane", err)
	}

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if _, err := rasterFromImage(gray); !errors.Is(err, ErrNoInterleavedPlane) {
		t.Errorf("rasterFromImage(Gray) returned %v, want ErrNoInterleavedPlane", err)
	}
}

func TestRasterFromImageRejectsEmpty(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := rasterFromImage(src); !errors.Is(err, ErrRasterMalformed) {
		t.Errorf("rasterFromImage(0x0) returned %v, want ErrRasterMalformed", err)
	}
}

func TestRasterImplementsImage(t *testing.T) {
	rst := &raster{Width: 2, Height: 1, Pix: []byte{255, 0, 0, 0, 255, 0}}

	var img image.Image = rst
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 1) {
		t.Errorf("Bounds = %v, want (0,0)-(2,1)", got)
	}
	if got := img.At(1, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("At(1,0) = %v, want green", got)
	}
	if !rst.Opaque() {
		t.Error("raster must be opaque")
	}
}
