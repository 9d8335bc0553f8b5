//go:build noheif

package internal

import "fmt"

// heifSupported reports whether this binary can decode HEIC at all.
const heifSupported = false

// decodeHEIC is the stub for builds without libheif. Every conversion
// fails at the decode stage; metadata extraction, JPEG handling and the
// driver all remain available.
func decodeHEIC(data []byte) (*raster, error) {
	return nil, fmt.Errorf("%w: HEIC decoding is disabled in this build (rebuild without the noheif tag)", ErrDecodeFailed)
}
