// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext is the narrow boundary between pagedump and the libraries
// that parse PDF files. An Opener turns a path into a Document; a Document
// hands out Pages in document order; a Page yields its plain text.
//
// Two backends are provided: a pure-Go reader of the embedded text layer
// (github.com/ledongthuc/pdf) and Poppler's pdftotext binary.
package pdftext

import (
	"fmt"
	"os/exec"

	"github.com/pdiddy/pagedump/pkg/types"
)

// Opener opens a file as a paged document.
type Opener interface {
	// Open parses the file at path. Any failure is a *DocumentOpenError.
	Open(path string) (Document, error)
}

// Document is an opened file with a fixed, ordered page sequence.
type Document interface {
	// NumPage returns the number of pages. It does not change after Open.
	NumPage() int

	// Page returns the page at zero-based index i, 0 <= i < NumPage().
	Page(i int) Page

	// Close releases the underlying file.
	Close() error
}

// Page is a single page of a Document.
type Page interface {
	// Text returns the extracted plain text of the page. A page without a
	// recoverable text layer returns the empty string.
	Text() string
}

// DocumentOpenError reports that a path could not be opened as a document:
// it is missing, unreadable, corrupt, or not a PDF.
type DocumentOpenError struct {
	Path string
	Err  error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("opening document %s: %v", e.Path, e.Err)
}

func (e *DocumentOpenError) Unwrap() error {
	return e.Err
}

// NewOpener returns the Opener for the backend named in cfg. An empty
// backend selects the native reader.
func NewOpener(cfg types.DumpConfig) (Opener, error) {
	switch cfg.Backend {
	case "", types.BackendNative:
		return NativeOpener{}, nil
	case types.BackendPdftotext:
		return NewPdftotextOpener(cfg.PdftotextBin), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)",
			cfg.Backend, types.BackendNative, types.BackendPdftotext)
	}
}

// nativeVersion changes whenever the native backend's output for the same
// file can change, so cached text from older builds is not reused.
const nativeVersion = "2"

// ExtractorID names the extractor cfg selects, precisely enough to key
// cached output: the native backend carries its version, pdftotext the
// resolved path of the binary that runs.
func ExtractorID(cfg types.DumpConfig) string {
	switch cfg.Backend {
	case "", types.BackendNative:
		return string(types.BackendNative) + "@" + nativeVersion
	case types.BackendPdftotext:
		bin := cfg.PdftotextBin
		if bin == "" {
			bin = binPdftotext
		}
		if resolved, err := exec.LookPath(bin); err == nil {
			bin = resolved
		}
		return string(types.BackendPdftotext) + "@" + bin
	default:
		return string(cfg.Backend)
	}
}

// StaticPage is a Page whose text is already known.
type StaticPage string

// Text returns the page text.
func (p StaticPage) Text() string { return string(p) }

// StaticDocument is a Document held fully in memory.
type StaticDocument []string

// NumPage returns the number of pages.
func (d StaticDocument) NumPage() int { return len(d) }

// Page returns page i.
func (d StaticDocument) Page(i int) Page { return StaticPage(d[i]) }

// Close is a no-op.
func (d StaticDocument) Close() error { return nil }
