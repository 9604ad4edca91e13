package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/mbenoukaiss/shrink/internal/logger"
	"github.com/mbenoukaiss/shrink/internal/manifest"
	"github.com/mbenoukaiss/shrink/internal/profile"
)

// DefaultChunkSize is the write size used when none is configured.
const DefaultChunkSize = 64 * 1024

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	ChunkSize int
	Log       *logger.Logger
}

// Pipeline orchestrates image processing.
//
// Each encode is single-threaded, so the worker count is the only source of
// parallelism: one goroutine per in-flight image, bounded by Workers.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the full build pipeline and returns the manifest.
// Images not yet started when ctx is cancelled are counted as failed.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	log := p.cfg.Log

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	log.Debug().Int("count", len(sources)).Msg("found images")

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				results[idx] = processResult{key: s.Key, err: fmt.Errorf("%s: %w", s.RelPath, ctx.Err())}
				return
			}
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: fmt.Errorf("%s: %w", s.RelPath, err)}
				return
			}

			wlog := log.Extend(log.With().Str("key", s.Key))
			wlog.Debug().Msg("processing")
			results[idx] = processImage(ctx, s, p.cfg)

			if r := results[idx]; r.err == nil {
				wlog.Debug().
					Str("layout", r.asset.Layout).
					Int64("bytes", r.asset.Output.Size).
					Msg("done")
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	params := p.cfg.Profile.Params()
	m := manifest.New(p.cfg.Profile.Name)
	m.Settings = &manifest.Settings{
		Quality:      params.Quality,
		AlphaQuality: params.AlphaQuality,
		Speed:        params.Speed.String(),
		Threads:      params.Threads,
		Workers:      p.cfg.Workers,
		ChunkSize:    p.cfg.ChunkSize,
		MaxWidth:     p.cfg.Profile.MaxWidth,
	}

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			log.Error().Err(r.err).Str("key", r.key).Msg("image failed")
			continue
		}
		m.Assets[r.key] = r.asset
	}

	// Report errors but don't fail the entire build for partial failures.
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		log.Warn().Msgf("%d of %d images had errors", failed, len(sources))
	}

	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
