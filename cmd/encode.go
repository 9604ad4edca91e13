package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbenoukaiss/shrink/internal/encoder"
	"github.com/mbenoukaiss/shrink/internal/hasher"
	"github.com/mbenoukaiss/shrink/internal/pipeline"
	"github.com/mbenoukaiss/shrink/internal/pixel"
	"github.com/mbenoukaiss/shrink/internal/source"
)

var (
	encodeOut  string
	encodeOpts encodeFlags
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Encode a single image to AVIF",
	Long: `Decodes one image (png, jpeg, gif, webp, bmp, tiff), converts it to a
grey or 4:4:4 plane layout and writes the AVIF bitstream in chunks.

Use "-o -" to stream to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output file (default <image>.avif, - for stdout)")
	encodeOpts.register(encodeCmd)
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	input := args[0]
	start := time.Now()

	prof, chunk, err := encodeOpts.resolve(cmd)
	if err != nil {
		return err
	}

	raw, err := source.Load(input, source.Options{MaxWidth: prof.MaxWidth})
	if err != nil {
		return err
	}
	img, err := pixel.Adapt(raw.Width, raw.Height, raw.Pix)
	if err != nil {
		return err
	}
	out, err := encoder.EncodeContext(cmd.Context(), img, prof.Params())
	if err != nil {
		return err
	}

	dst := encodeOut
	if dst == "" {
		dst = strings.TrimSuffix(input, filepath.Ext(input)) + ".avif"
	}

	sum := hasher.NewStream()
	n, err := writeOutput(dst, out, chunk, sum)
	if err != nil {
		return err
	}

	log.Info().
		Str("in", input).
		Str("out", dst).
		Str("layout", img.Layout().String()).
		Str("size", fmt.Sprintf("%dx%d", img.Width(), img.Height())).
		Int("quality", prof.Quality).
		Str("speed", prof.Speed()).
		Int64("bytes", n).
		Str("hash", sum.Sum(16)).
		Dur("took", time.Since(start).Round(time.Millisecond)).
		Msg("encoded")
	if raw.HadAlpha {
		log.Warn().Msg("transparency was flattened onto white")
	}
	return nil
}

// writeOutput drains out to dst ("-" for stdout), teeing every chunk into
// sum. A file that fails to write or close is removed.
func writeOutput(dst string, out encoder.Optimized, chunk int, sum io.Writer) (int64, error) {
	if dst == "-" {
		n, err := pipeline.Drain(io.MultiWriter(os.Stdout, sum), out, chunk)
		if err != nil {
			return n, fmt.Errorf("write output: %w", err)
		}
		return n, nil
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	n, err := pipeline.Drain(io.MultiWriter(f, sum), out, chunk)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return n, fmt.Errorf("write output: %w", err)
	}
	return n, nil
}
