// Package config loads optional shrink settings from a file and the
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kkyr/fig"

	"github.com/mbenoukaiss/shrink/internal/encoder"
)

// EnvPrefix namespaces environment overrides, e.g. SHRINK_QUALITY=70.
const EnvPrefix = "SHRINK"

// DefaultFile is looked up in the search dirs when no path is given.
const DefaultFile = "shrink.yaml"

type Config struct {
	Profile   string `fig:"profile" default:"web"`
	Quality   *int   `fig:"quality"` // nil keeps the profile value
	Speed     string `fig:"speed"`   // best | fast | "" for the profile value
	Workers   int    `fig:"workers"`
	ChunkSize int    `fig:"chunk_size" default:"65536"`
	MaxWidth  int    `fig:"max_width"`
	OutDir    string `fig:"out_dir" default:"./shrink_out"`
	Avifenc   string `fig:"avifenc"` // encoder executable, PATH lookup when empty
}

// Load reads path (yaml, json or toml by extension) plus SHRINK_* variables.
// With an empty path the default file is searched in the working directory
// and the user config dir; a missing default file is not an error.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		err := fig.Load(&c,
			fig.File(filepath.Base(path)),
			fig.Dirs(filepath.Dir(path)),
			fig.UseEnv(EnvPrefix))
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return &c, c.validate()
	}

	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "shrink"))
	}
	err := fig.Load(&c, fig.File(DefaultFile), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) {
		c = Config{}
		err = fig.Load(&c, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &c, c.validate()
}

func (c *Config) validate() error {
	if q := c.Quality; q != nil && (*q < encoder.MinQuality || *q > encoder.MaxQuality) {
		return fmt.Errorf("config: quality %d out of range 0-%d", *q, encoder.MaxQuality)
	}
	if _, _, err := encoder.ParseSpeed(c.Speed); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.Workers < 0 || c.MaxWidth < 0 {
		return fmt.Errorf("config: workers and max_width must not be negative")
	}
	return nil
}
