package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbenoukaiss/shrink/internal/manifest"
	"github.com/mbenoukaiss/shrink/internal/pipeline"
)

var (
	buildOutDir  string
	buildWorkers int
	buildOpts    encodeFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Encode every image in a directory to AVIF and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
encodes each one to AVIF on a pool of workers, and writes a manifest file.

Output filenames are content-addressed: <key>.<hash>.avif`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "", "output directory (default from config, ./shrink_out)")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel encodes (0 = config or NumCPU)")
	buildOpts.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	outDir := cfg.OutDir
	if buildOutDir != "" {
		outDir = buildOutDir
	}
	workers := cfg.Workers
	if buildWorkers > 0 {
		workers = buildWorkers
	}

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, chunk, err := buildOpts.resolve(cmd)
	if err != nil {
		return err
	}

	log.Debug().
		Str("input", absInput).
		Str("output", absOutput).
		Str("profile", prof.Name).
		Int("quality", prof.Quality).
		Str("speed", prof.Speed()).
		Msg("starting build")

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   workers,
		ChunkSize: chunk,
		Log:       log,
	})

	m, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              shrink build complete               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Assets:      %d (%d grey, %d colour)\n", stats.TotalAssets, stats.Monochrome, stats.Chroma444)
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", stats.Failed)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio(stats.TotalOutputBytes, stats.TotalInputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if s := m.Settings; s != nil {
		fmt.Printf("  Encoding:    q=%d speed=%s threads/encode=%d workers=%d\n",
			s.Quality, s.Speed, s.Threads, s.Workers)
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			items = append(items, assetSize{key, a.Source.Size, a.Output.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d heaviest (original → avif):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				100-ratio(it.outputSize, it.inputSize),
			)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func ratio(out, in int64) float64 {
	if in <= 0 {
		return 0
	}
	return float64(out) / float64(in) * 100
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
