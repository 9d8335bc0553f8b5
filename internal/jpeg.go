package internal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
)

// jpegQuality is fixed by design: near-transparent fidelity against the
// decoded raster. It is not configuration.
const jpegQuality = 95

// JPEG marker bytes (the second byte after 0xFF).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
)

// exifIdentifier prefixes the payload of an APP1 segment that carries EXIF.
var exifIdentifier = []byte("Exif\x00\x00")

// maxExifPayload is the largest EXIF stream an APP1 segment can hold: the
// 16-bit length field covers itself and the 6-byte identifier.
const maxExifPayload = 65535 - 2 - len("Exif\x00\x00")

// encodeJPEG encodes a raster as a baseline JPEG.
func encodeJPEG(r *raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

// injectExif returns jpegData with exifPayload embedded as an APP1 segment
// immediately after the SOI marker. Any APP1-EXIF segments already present
// are dropped so the output carries exactly one. A nil or empty payload
// returns jpegData unchanged. Pixel data is never touched.
func injectExif(jpegData, exifPayload []byte) ([]byte, error) {
	if len(exifPayload) == 0 {
		return jpegData, nil
	}
	if len(exifPayload) > maxExifPayload {
		return nil, fmt.Errorf("%w: EXIF payload is %d bytes, an APP1 segment holds at most %d", ErrExifTooLarge, len(exifPayload), maxExifPayload)
	}
	if len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != markerSOI {
		return nil, fmt.Errorf("%w: missing SOI marker", ErrInvalidJPEG)
	}

	out := make([]byte, 0, len(jpegData)+len(exifPayload)+10)
	out = append(out, jpegData[:2]...)
	out = appendExifSegment(out, exifPayload)

	// Walk the marker segments between SOI and SOS, copying everything
	// except pre-existing APP1-EXIF. From SOS on the stream is
	// entropy-coded data and passes through verbatim.
	i := 2
	for i+1 < len(jpegData) {
		if jpegData[i] != 0xFF {
			return nil, fmt.Errorf("%w: expected a marker at offset %d, found 0x%02X", ErrInvalidJPEG, i, jpegData[i])
		}
		marker := jpegData[i+1]

		if marker == markerSOS || marker == markerEOI {
			out = append(out, jpegData[i:]...)
			return out, nil
		}
		if marker == 0xFF {
			// Fill byte ahead of the real marker.
			out = append(out, 0xFF)
			i++
			continue
		}

		if i+4 > len(jpegData) {
			return nil, fmt.Errorf("%w: truncated segment header at offset %d", ErrInvalidJPEG, i)
		}
		length := int(binary.BigEndian.Uint16(jpegData[i+2 : i+4]))
		if length < 2 || i+2+length > len(jpegData) {
			return nil, fmt.Errorf("%w: segment 0x%02X at offset %d overruns the stream", ErrInvalidJPEG, marker, i)
		}

		seg := jpegData[i : i+2+length]
		if !isExifSegment(marker, seg) {
			out = append(out, seg...)
		}
		i += 2 + length
	}

	return nil, fmt.Errorf("%w: stream ends without SOS or EOI", ErrInvalidJPEG)
}

// appendExifSegment appends a complete APP1-EXIF segment to dst.
func appendExifSegment(dst, payload []byte) []byte {
	dst = append(dst, 0xFF, markerAPP1)
	dst = binary.BigEndian.AppendUint16(dst, uint16(2+len(exifIdentifier)+len(payload)))
	dst = append(dst, exifIdentifier...)
	return append(dst, payload...)
}

// isExifSegment reports whether a full segment (marker prefix included)
// is an APP1 carrying EXIF.
func isExifSegment(marker byte, seg []byte) bool {
	return marker == markerAPP1 && len(seg) >= 4+len(exifIdentifier) && bytes.Equal(seg[4:4+len(exifIdentifier)], exifIdentifier)
}
