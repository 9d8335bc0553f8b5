package internal

import (
	"fmt"
	"path/filepath"
	"strings"
)

// humanReadableSize formats a byte count with binary (1024-based) units.
// Below one kilobyte the exact count is kept; above it, one decimal place.
func humanReadableSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%dB", bytes)
	}
	return fmt.Sprintf("%.1f%s", size, units[idx])
}

// fileStem returns a file name without its extension. A name that is all
// extension (".heic") keeps itself as the stem.
func fileStem(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return name
	}
	return stem
}

// jpegOutputPath maps a source file into the output directory, swapping
// the extension for .jpg.
func jpegOutputPath(jpegDir, heicPath string) string {
	return filepath.Join(jpegDir, fileStem(filepath.Base(heicPath))+".jpg")
}
