package manifest

// Manifest is the top-level output of a shrink build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	Settings    *Settings        `json:"settings,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// Settings records the encoding parameters a build ran with.
type Settings struct {
	Quality      int    `json:"quality"`
	AlphaQuality int    `json:"alpha_quality"`
	Speed        string `json:"speed"` // "best" or "fast"
	Threads      int    `json:"threads"`
	Workers      int    `json:"workers"`
	ChunkSize    int    `json:"chunk_size"`
	MaxWidth     int    `json:"max_width,omitempty"`
}

// Asset describes one source image and its AVIF output.
type Asset struct {
	Source SourceInfo `json:"source"`
	Layout string     `json:"layout"` // "monochrome" or "yuv444"
	Output Output     `json:"output"`
}

// SourceInfo holds metadata about the decoded source.
type SourceInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HadAlpha bool   `json:"had_alpha,omitempty"` // flattened before encoding
}

// Output is the encoded AVIF file.
type Output struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	Monochrome       int   `json:"monochrome"`
	Chroma444        int   `json:"yuv444"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "shrink.manifest.json"
