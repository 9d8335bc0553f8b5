package internal

import (
	"errors"
	"fmt"
	"os"
)

// Conversion error kinds. Every failure returned by Convert wraps exactly
// one of these; callers branch with errors.Is.
var (
	ErrInputOpen          = errors.New("input-open")
	ErrNoPrimaryImage     = errors.New("no-primary-image")
	ErrDecodeFailed       = errors.New("decode-failed")
	ErrNoInterleavedPlane = errors.New("no-interleaved-plane")
	ErrRasterMalformed    = errors.New("raster-malformed")
	ErrEncodeFailed       = errors.New("encode-failed")
	ErrInvalidJPEG        = errors.New("invalid-jpeg")
	ErrExifTooLarge       = errors.New("exif-too-large")
	ErrOutputWrite        = errors.New("output-write")
)

// Convert transforms one HEIC file into a JPEG file, carrying the source's
// EXIF metadata over into an APP1 segment. EXIF extraction is best-effort:
// a source without usable EXIF still converts, it just converts bare.
//
// Convert holds no state and may be called concurrently for distinct
// output paths. On failure the output file is either absent or partial;
// callers must not consume it.
func Convert(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputOpen, err)
	}

	exif := extractExif(data)

	rst, err := decodeHEIC(data)
	if err != nil {
		return err
	}

	jpegData, err := encodeJPEG(rst)
	if err != nil {
		return err
	}

	if len(exif) > 0 {
		jpegData, err = injectExif(jpegData, exif)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(outputPath, jpegData, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	return nil
}
