package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mbenoukaiss/shrink/internal/encoder"
	"github.com/mbenoukaiss/shrink/internal/hasher"
	"github.com/mbenoukaiss/shrink/internal/manifest"
	"github.com/mbenoukaiss/shrink/internal/pixel"
	"github.com/mbenoukaiss/shrink/internal/source"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	asset manifest.Asset
	err   error
}

// processImage handles a single source image: decode, adapt, encode, write.
func processImage(ctx context.Context, src Source, cfg Config) processResult {
	result := processResult{key: src.Key}

	raw, err := source.Load(src.AbsPath, source.Options{MaxWidth: cfg.Profile.MaxWidth})
	if err != nil {
		result.err = err
		return result
	}

	img, err := pixel.Adapt(raw.Width, raw.Height, raw.Pix)
	if err != nil {
		result.err = fmt.Errorf("adapt %s: %w", src.RelPath, err)
		return result
	}
	raw.Pix = nil // adapted planes are independent of the decode buffer

	out, err := encoder.EncodeContext(ctx, img, cfg.Profile.Params())
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	contentHash := hasher.ContentHash(out.Full(), 16)

	// Build filename: key.hash.avif
	keyDir := filepath.Dir(src.Key)
	fileName := fmt.Sprintf("%s.%s.avif", filepath.Base(src.Key), contentHash[:hasher.NameLen])
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))
	outPath := filepath.Join(cfg.OutputDir, relPath)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", relPath, err)
		return result
	}
	written, err := writeChunked(outPath, out, cfg.ChunkSize)
	if err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.asset = manifest.Asset{
		Source: manifest.SourceInfo{
			Width:    raw.SourceWidth,
			Height:   raw.SourceHeight,
			Format:   src.Format,
			Size:     src.Size,
			HadAlpha: raw.HadAlpha,
		},
		Layout: img.Layout().String(),
		Output: manifest.Output{
			Width:  img.Width(),
			Height: img.Height(),
			Size:   written,
			Hash:   contentHash,
			Path:   relPath,
		},
	}
	return result
}

// writeChunked drains out into path chunkSize bytes at a time.
func writeChunked(path string, out encoder.Optimized, chunkSize int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := Drain(f, out, chunkSize)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return n, err
}

// Drain copies everything out has left to w, chunkSize bytes per Take.
func Drain(w io.Writer, out encoder.Optimized, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var total int64
	for out.Remaining() > 0 {
		n, err := w.Write(out.Take(chunkSize))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
