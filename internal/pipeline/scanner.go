package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mbenoukaiss/shrink/internal/source"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, ...).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// ScanImages walks the input directory and returns all decodable images.
// Hidden entries and skipDir (usually the output directory) are ignored.
func ScanImages(inputDir, skipDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(info.Name(), ".") && path != inputDir
		if info.IsDir() {
			if hidden || (path == skipDir && path != inputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !source.Extensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := filepath.ToSlash(relPath[:len(relPath)-len(ext)])

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Format:  source.FormatOf(path),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}
