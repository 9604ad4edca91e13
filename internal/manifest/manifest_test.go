package manifest

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.Settings = &Settings{Quality: 60, AlphaQuality: 50, Speed: "fast", Threads: 1, Workers: 4, ChunkSize: 4096}
	m.Assets["test/gray"] = Asset{
		Source: SourceInfo{Width: 800, Height: 600, Format: "png", Size: 100000},
		Layout: "monochrome",
		Output: Output{Width: 800, Height: 600, Size: 5000, Hash: "0123456789abcdef", Path: "test/gray.01234567.avif"},
	}
	m.Assets["test/photo"] = Asset{
		Source: SourceInfo{Width: 640, Height: 480, Format: "jpeg", Size: 50000, HadAlpha: true},
		Layout: "yuv444",
		Output: Output{Width: 320, Height: 240, Size: 3000, Hash: "fedcba9876543210", Path: "test/photo.fedcba98.avif"},
	}
	m.Stats.Failed = 2

	// Write to temp dir, read back through the directory form.
	dir := t.TempDir()
	if err := WriteJSON(m, filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("write: %v", err)
	}
	m2, err := ReadJSON(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.Settings == nil || m2.Settings.Speed != "fast" || m2.Settings.ChunkSize != 4096 {
		t.Fatalf("settings: got %+v", m2.Settings)
	}

	a, ok := m2.Assets["test/photo"]
	if !ok {
		t.Fatal("asset test/photo missing")
	}
	if !a.Source.HadAlpha || a.Output.Width != 320 || a.Layout != "yuv444" {
		t.Errorf("asset: got %+v", a)
	}

	s := m2.Stats
	if s.TotalAssets != 2 || s.Monochrome != 1 || s.Chroma444 != 1 {
		t.Errorf("counts: got %+v", s)
	}
	if s.TotalInputBytes != 150000 || s.TotalOutputBytes != 8000 {
		t.Errorf("bytes: got %+v", s)
	}
	if s.Failed != 2 {
		t.Errorf("failed: got %d", s.Failed)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"settings": { "quality": 60, "threads": 1, "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.Settings == nil || m.Settings.Quality != 60 {
		t.Error("settings not parsed correctly")
	}
}

func TestReadJSON_Errors(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing manifest accepted")
	}
}
