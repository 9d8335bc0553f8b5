package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// conversionResult is one file's outcome. Results are kept in input order
// so the log reads the same as the sorted file listing.
type conversionResult struct {
	fileName string // base name of the source file
	err      error  // nil on success
}

// saveLogs renders per-file outcomes plus aggregate statistics into
// <jpegDir>/logs.txt. Sizes are stat'ed after the run; files a failed
// conversion never produced count as zero bytes.
func saveLogs(jpegDir, baseDir string, results []conversionResult, duration time.Duration) error {
	var lines []string
	var totalHEICSize, totalJPEGSize int64

	for _, res := range results {
		heicPath := filepath.Join(baseDir, res.fileName)
		jpegPath := jpegOutputPath(jpegDir, heicPath)

		heicSize := fileSize(heicPath)
		jpegSize := fileSize(jpegPath)
		totalHEICSize += heicSize
		totalJPEGSize += jpegSize

		if res.err != nil {
			lines = append(lines, fmt.Sprintf("%s > Error: error details: %v", res.fileName, res.err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s > Converted > jpegs/%s.jpg %s",
			res.fileName, humanReadableSize(heicSize), fileStem(res.fileName), humanReadableSize(jpegSize)))
	}

	count := len(results)
	avg := duration
	if count > 0 {
		avg = duration / time.Duration(count)
	}

	lines = append(lines,
		"",
		fmt.Sprintf("%d Files", count),
		fmt.Sprintf("Total Time Taken==%s", duration),
		fmt.Sprintf("Average Time Per File==%s", avg),
		fmt.Sprintf("Total HEIC File Size==%s", humanReadableSize(totalHEICSize)),
		fmt.Sprintf("Total JPEG Folder Size==%s", humanReadableSize(totalJPEGSize)),
	)

	logPath := filepath.Join(jpegDir, "logs.txt")
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// fileSize returns a file's size in bytes, or 0 when it cannot be stat'ed.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
