// Package source loads ranked files from disk with a bounded payload
// size, so downstream prompt assembly never sees an unbounded file.
package source

import (
	"log/slog"
	"os"
)

// TruncationMarker is appended to content cut at the byte cap.
const TruncationMarker = "\n\n... [TRUNCATED: file exceeds size limit] ...\n"

// File is one loaded source file owned by a single pipeline instance.
type File struct {
	Path      string
	Content   string
	Truncated bool
}

// Load reads every path that exists and is readable. Missing or
// unreadable paths are skipped and logged, never fatal. Content beyond
// maxBytes is truncated and annotated.
func Load(paths []string, maxBytes int) []File {
	var files []File
	var skipped int

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Could not read source file", "path", path, "error", err)
			skipped++
			continue
		}

		f := File{Path: path, Content: string(data)}
		if len(data) > maxBytes {
			f.Content = string(data[:maxBytes]) + TruncationMarker
			f.Truncated = true
		}
		files = append(files, f)
	}

	if skipped > 0 {
		slog.Warn("Skipped unreadable source files", "count", skipped)
	}
	slog.Info("Source files loaded", "count", len(files))
	return files
}
