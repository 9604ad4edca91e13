package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mbenoukaiss/shrink/internal/config"
	"github.com/mbenoukaiss/shrink/internal/encoder"
	"github.com/mbenoukaiss/shrink/internal/logger"
	"github.com/mbenoukaiss/shrink/internal/profile"
)

var (
	version    = "0.1.0"
	verbose    bool
	noColor    bool
	logJSON    bool
	configPath string

	cfg *config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "shrink",
	Short: "Encode images to AVIF and stream the result in chunks",
	Long: `shrink converts decoded images to AVIF.

Grey images are encoded as a single luma plane, colour images as full
resolution 4:4:4. Each encode is single-threaded; "build" runs one encode
per worker across a whole directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if logJSON {
			log = logger.New(os.Stderr, verbose)
		} else {
			log = logger.NewConsole(verbose, "shrink", noColor)
		}
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		if cfg.Avifenc != "" {
			encoder.UseBinary(cfg.Avifenc)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log JSON lines to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./shrink.yaml if present)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"shrink %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// encodeFlags are shared by commands that encode.
type encodeFlags struct {
	profile  string
	quality  int
	speed    string
	maxWidth int
	chunk    int
}

func (f *encodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "encoding profile: web, archive, thumbnail")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", 0, "quality 0-100 (default from profile)")
	cmd.Flags().StringVar(&f.speed, "speed", "", "speed preset: best or fast (default from profile)")
	cmd.Flags().IntVar(&f.maxWidth, "max-width", 0, "downscale wider images (0 = keep size)")
	cmd.Flags().IntVar(&f.chunk, "chunk", 0, "write chunk size in bytes (default from config)")
}

// resolve layers profile < config file/env < flags.
func (f *encodeFlags) resolve(cmd *cobra.Command) (profile.Profile, int, error) {
	name := cfg.Profile
	if f.profile != "" {
		name = f.profile
	}
	prof := profile.Get(name)

	if cfg.Quality != nil {
		prof.Quality = *cfg.Quality
	}
	if cfg.MaxWidth > 0 {
		prof.MaxWidth = cfg.MaxWidth
	}
	speed := cfg.Speed
	chunk := cfg.ChunkSize

	flags := cmd.Flags()
	if flags.Changed("quality") {
		if f.quality < encoder.MinQuality || f.quality > encoder.MaxQuality {
			return prof, 0, fmt.Errorf("quality %d out of range 0-100", f.quality)
		}
		prof.Quality = f.quality
	}
	if flags.Changed("speed") {
		speed = f.speed
	}
	if flags.Changed("max-width") {
		prof.MaxWidth = f.maxWidth
	}
	if flags.Changed("chunk") {
		if f.chunk <= 0 {
			return prof, 0, fmt.Errorf("chunk must be positive, got %d", f.chunk)
		}
		chunk = f.chunk
	}

	s, ok, err := encoder.ParseSpeed(speed)
	if err != nil {
		return prof, 0, err
	}
	if ok {
		prof.PreferQuality = s == encoder.SpeedBest
	}
	return prof, chunk, nil
}
