package internal

import "encoding/binary"

// extractExif pulls the raw EXIF stream out of a HEIF container.
//
// HEIF stores EXIF as an item of type "Exif" declared in meta/iinf, with
// its bytes located through meta/iloc. The item payload leads with a
// 4-byte TIFF-header offset that is not part of the EXIF stream proper;
// it is stripped unless the payload is degenerately short. When several
// Exif items exist the first one in declaration order wins.
//
// Extraction is best-effort: any missing box, malformed framing or
// unresolvable location yields nil and the conversion proceeds bare.
func extractExif(data []byte) []byte {
	meta := findBox(data, "meta")
	if len(meta) < 4 {
		return nil
	}
	// meta is a FullBox; its children start after version+flags.
	inner := meta[4:]

	itemID, ok := firstExifItem(findBox(inner, "iinf"))
	if !ok {
		return nil
	}

	payload := readItemData(data, findBox(inner, "idat"), findBox(inner, "iloc"), itemID)
	if len(payload) <= 4 {
		return payload
	}
	return payload[4:]
}

// nextBox decodes one ISOBMFF box header, returning the box type, its
// payload and the remainder of the container. A size of 1 selects the
// 64-bit largesize form; a size of 0 extends the box to the end of its
// container.
func nextBox(data []byte) (typ string, payload, rest []byte, ok bool) {
	if len(data) < 8 {
		return "", nil, nil, false
	}
	size := uint64(binary.BigEndian.Uint32(data[:4]))
	typ = string(data[4:8])
	hdr := uint64(8)
	switch size {
	case 0:
		size = uint64(len(data))
	case 1:
		if len(data) < 16 {
			return "", nil, nil, false
		}
		size = binary.BigEndian.Uint64(data[8:16])
		hdr = 16
	}
	if size < hdr || size > uint64(len(data)) {
		return "", nil, nil, false
	}
	return typ, data[hdr:size], data[size:], true
}

// findBox returns the payload of the first box of the given type among
// consecutive boxes in data, or nil.
func findBox(data []byte, typ string) []byte {
	for len(data) > 0 {
		t, payload, rest, ok := nextBox(data)
		if !ok {
			return nil
		}
		if t == typ {
			return payload
		}
		data = rest
	}
	return nil
}

// firstExifItem scans an iinf box for the first item declared with type
// "Exif" and returns its item ID.
func firstExifItem(iinf []byte) (uint32, bool) {
	if len(iinf) < 4 {
		return 0, false
	}
	// FullBox header, then a 16- or 32-bit entry count by version.
	off := 4 + 2
	if iinf[0] > 0 {
		off = 4 + 4
	}
	if len(iinf) < off {
		return 0, false
	}

	rest := iinf[off:]
	for len(rest) > 0 {
		typ, payload, next, ok := nextBox(rest)
		if !ok {
			return 0, false
		}
		if typ == "infe" {
			if id, ok := exifInfeID(payload); ok {
				return id, true
			}
		}
		rest = next
	}
	return 0, false
}

// exifInfeID returns the item ID when an infe box declares an Exif item.
// Versions below 2 predate item types and cannot carry EXIF.
func exifInfeID(infe []byte) (uint32, bool) {
	if len(infe) < 4 {
		return 0, false
	}
	switch infe[0] {
	case 2:
		if len(infe) >= 12 && string(infe[8:12]) == "Exif" {
			return uint32(binary.BigEndian.Uint16(infe[4:6])), true
		}
	case 3:
		if len(infe) >= 14 && string(infe[10:14]) == "Exif" {
			return binary.BigEndian.Uint32(infe[4:8]), true
		}
	}
	return 0, false
}

// byteReader reads big-endian fields off a byte slice with a sticky error
// flag, so iloc parsing stays linear instead of bounds-checking every
// field. Reading zero bytes yields zero, matching iloc's variable-width
// fields where width 0 means "value absent".
type byteReader struct {
	data []byte
	pos  int
	err  bool
}

func (r *byteReader) uint(n int) uint64 {
	if r.err || n < 0 || r.pos+n > len(r.data) {
		r.err = true
		return 0
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(r.data[r.pos+i])
	}
	r.pos += n
	return v
}

// readItemData resolves one item's bytes through the iloc box. Extents are
// concatenated in declaration order. Construction method 0 locates extents
// by absolute file offset, method 1 inside the meta idat box; anything
// else (or an external data reference) is unsupported and yields nil.
func readItemData(file, idat, iloc []byte, itemID uint32) []byte {
	if len(iloc) < 4 || iloc[0] > 2 {
		return nil
	}
	version := iloc[0]
	r := &byteReader{data: iloc, pos: 4}

	sizes := r.uint(2)
	offsetSize := int(sizes >> 12 & 0xF)
	lengthSize := int(sizes >> 8 & 0xF)
	baseOffsetSize := int(sizes >> 4 & 0xF)
	indexSize := 0
	if version > 0 {
		indexSize = int(sizes & 0xF)
	}

	var itemCount uint64
	if version < 2 {
		itemCount = r.uint(2)
	} else {
		itemCount = r.uint(4)
	}

	for i := uint64(0); i < itemCount && !r.err; i++ {
		var id uint64
		if version < 2 {
			id = r.uint(2)
		} else {
			id = r.uint(4)
		}
		var method uint64
		if version > 0 {
			method = r.uint(2) & 0xF
		}
		dataRef := r.uint(2)
		base := r.uint(baseOffsetSize)
		extentCount := r.uint(2)

		if uint32(id) != itemID {
			for e := uint64(0); e < extentCount && !r.err; e++ {
				r.uint(indexSize)
				r.uint(offsetSize)
				r.uint(lengthSize)
			}
			continue
		}

		var src []byte
		switch {
		case dataRef != 0:
			return nil
		case method == 0:
			src = file
		case method == 1:
			src = idat
		default:
			return nil
		}

		var payload []byte
		for e := uint64(0); e < extentCount; e++ {
			r.uint(indexSize)
			start := base + r.uint(offsetSize)
			length := r.uint(lengthSize)
			if r.err {
				return nil
			}
			end := start + length
			if end < start || end > uint64(len(src)) {
				return nil
			}
			payload = append(payload, src[start:end]...)
		}
		return payload
	}
	return nil
}
