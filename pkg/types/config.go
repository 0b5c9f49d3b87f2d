// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend identifies the text extraction backend.
type Backend string

const (
	// BackendNative extracts the embedded text layer in-process.
	BackendNative Backend = "native"
	// BackendPdftotext shells out to Poppler's pdftotext.
	BackendPdftotext Backend = "pdftotext"
)

// OutputFormat selects how extracted pages are written.
type OutputFormat string

const (
	// OutputText writes a "--- Page N ---" banner followed by the page text.
	OutputText OutputFormat = "text"
	// OutputYAML writes one YAML document per page.
	OutputYAML OutputFormat = "yaml"
)

// CacheConfig holds settings for the page text cache.
type CacheConfig struct {
	// Enabled turns the SQLite cache on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default ~/.cache/pagedump/pages.db).
	Path string `json:"path" yaml:"path"`
}

// DumpConfig groups the settings for a dump run.
type DumpConfig struct {
	// Backend selects the extraction backend: native or pdftotext.
	Backend Backend `json:"backend" yaml:"backend"`

	// Format selects the output format: text or yaml.
	Format OutputFormat `json:"format" yaml:"format"`

	// PdftotextBin overrides the pdftotext binary name or path.
	PdftotextBin string `json:"pdftotext_bin,omitempty" yaml:"pdftotext_bin,omitempty"`

	Cache CacheConfig `json:"cache" yaml:"cache"`
}
