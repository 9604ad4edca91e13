package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mbenoukaiss/shrink/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built asset directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	m, err := manifest.ReadJSON(args[0])
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if s := m.Settings; s != nil {
		fmt.Printf("  Quality:          %d (alpha %d)\n", s.Quality, s.AlphaQuality)
		fmt.Printf("  Speed preset:     %s\n", s.Speed)
		fmt.Printf("  Workers:          %d × %d thread\n", s.Workers, s.Threads)
		fmt.Printf("  Chunk size:       %s\n", formatBytes(int64(s.ChunkSize)))
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio(s.TotalOutputBytes, s.TotalInputBytes))
	}
	fmt.Println()

	// Per-layout breakdown.
	type layoutStat struct {
		count int
		bytes int64
	}
	layouts := map[string]layoutStat{}
	formats := map[string]int{}
	for _, a := range m.Assets {
		ls := layouts[a.Layout]
		ls.count++
		ls.bytes += a.Output.Size
		layouts[a.Layout] = ls
		formats[a.Source.Format]++
	}

	fmt.Println("  Layout breakdown:")
	for _, l := range []string{"monochrome", "yuv444"} {
		if ls, ok := layouts[l]; ok {
			fmt.Printf("    %-10s  %4d files  %s\n", l, ls.count, formatBytes(ls.bytes))
		}
	}
	fmt.Println()

	var names []string
	for f := range formats {
		names = append(names, f)
	}
	sort.Strings(names)
	fmt.Println("  Source formats:")
	for _, f := range names {
		fmt.Printf("    %-6s  %4d\n", f, formats[f])
	}

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if a.Output.Size >= a.Source.Size && a.Source.Size > 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q did not shrink (%s → %s)",
				key, formatBytes(a.Source.Size), formatBytes(a.Output.Size)))
		}
		if a.Source.HadAlpha {
			warnings = append(warnings, fmt.Sprintf("asset %q had transparency flattened", key))
		}
	}
	if s.Failed > 0 {
		warnings = append(warnings, fmt.Sprintf("%d source images failed to encode", s.Failed))
	}
	if len(warnings) > 0 {
		sort.Strings(warnings)
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
