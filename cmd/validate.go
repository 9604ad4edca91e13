package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/avif"
	"github.com/spf13/cobra"

	"github.com/mbenoukaiss/shrink/internal/encoder"
	"github.com/mbenoukaiss/shrink/internal/hasher"
	"github.com/mbenoukaiss/shrink/internal/manifest"
	"github.com/mbenoukaiss/shrink/internal/pixel"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a shrink manifest and check referenced AVIF files",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath := args[0]
	if info, err := os.Stat(manifestPath); err == nil && info.IsDir() {
		manifestPath = filepath.Join(manifestPath, manifest.FileName)
	}

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	errors := validateManifest(m, filepath.Dir(manifestPath))

	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d assets — all files present and decodable\n", m.Stats.TotalAssets)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	for key, a := range m.Assets {
		if a.Source.Width <= 0 || a.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid source dimensions %dx%d",
				key, a.Source.Width, a.Source.Height))
		}
		if a.Layout != "monochrome" && a.Layout != "yuv444" {
			errs = append(errs, fmt.Sprintf("asset %q: unknown layout %q", key, a.Layout))
		}
		if a.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing output path", key))
			continue
		}
		if other, dup := seenPaths[a.Output.Path]; dup {
			errs = append(errs, fmt.Sprintf("asset %q: path %q also used by %q", key, a.Output.Path, other))
		}
		seenPaths[a.Output.Path] = key

		errs = append(errs, checkOutputFile(key, a, filepath.Join(baseDir, filepath.FromSlash(a.Output.Path)))...)
	}

	// Verify stats consistency.
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	return errs
}

// checkOutputFile verifies size, hash, dimensions and plane layout on disk.
func checkOutputFile(key string, a manifest.Asset, path string) []string {
	o := a.Output
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("asset %q: file not found: %s", key, o.Path)}
	}
	defer f.Close()

	var errs []string
	if info, err := f.Stat(); err == nil && info.Size() != o.Size {
		errs = append(errs, fmt.Sprintf("asset %q: size mismatch: manifest=%d, disk=%d", key, o.Size, info.Size()))
	}

	sum, err := hasher.ContentHashReader(f, len(o.Hash))
	if err != nil {
		return append(errs, fmt.Sprintf("asset %q: read: %v", key, err))
	}
	if o.Hash == "" || sum != o.Hash {
		errs = append(errs, fmt.Sprintf("asset %q: hash mismatch: manifest=%q, disk=%q", key, o.Hash, sum))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return append(errs, fmt.Sprintf("asset %q: seek: %v", key, err))
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return append(errs, fmt.Sprintf("asset %q: read: %v", key, err))
	}
	dec, err := avif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return append(errs, fmt.Sprintf("asset %q: not a decodable AVIF: %v", key, err))
	}
	if dec.Width != o.Width || dec.Height != o.Height {
		errs = append(errs, fmt.Sprintf("asset %q: AVIF is %dx%d, manifest says %dx%d",
			key, dec.Width, dec.Height, o.Width, o.Height))
	}

	hdr, err := encoder.ReadHeader(data)
	if err != nil {
		return append(errs, fmt.Sprintf("asset %q: item properties: %v", key, err))
	}
	if want := a.Layout == pixel.Monochrome.String(); hdr.Monochrome != want || (want && hdr.Channels != 1) {
		errs = append(errs, fmt.Sprintf("asset %q: layout %s but bitstream has %d channel(s)",
			key, a.Layout, hdr.Channels))
	}
	return errs
}
