// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dump prints the extracted text of every page of a document in
// document order, each page preceded by a "--- Page N ---" banner.
package dump

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagedump/internal/pdftext"
	"github.com/pdiddy/pagedump/pkg/types"
)

// PageWriter writes pages to an output stream in the order they are given.
type PageWriter interface {
	WritePage(p types.PageText) error

	// Close flushes any buffered output. It does not close the stream.
	Close() error
}

// NewPageWriter returns the PageWriter for format. An empty format selects
// plain text.
func NewPageWriter(format types.OutputFormat, w io.Writer) (PageWriter, error) {
	switch format {
	case "", types.OutputText:
		return &textWriter{w: w}, nil
	case types.OutputYAML:
		return &yamlWriter{enc: yaml.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)",
			format, types.OutputText, types.OutputYAML)
	}
}

// Dump opens the document at path and writes every page to w as a banner
// line followed by the page text. Open failures are returned unchanged from
// the Opener, so callers can match *pdftext.DocumentOpenError.
func Dump(op pdftext.Opener, path string, w io.Writer) error {
	return Write(op, path, w, types.OutputText)
}

// DumpYAML is Dump with one YAML document per page.
func DumpYAML(op pdftext.Opener, path string, w io.Writer) error {
	return Write(op, path, w, types.OutputYAML)
}

// Write opens the document at path and writes its pages to w in format.
// The format is checked before the document is opened.
func Write(op pdftext.Opener, path string, w io.Writer, format types.OutputFormat) error {
	pw, err := NewPageWriter(format, w)
	if err != nil {
		return err
	}

	doc, err := op.Open(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	n := doc.NumPage()
	for i := 0; i < n; i++ {
		page := types.PageText{Number: i + 1, Text: doc.Page(i).Text()}
		if err := pw.WritePage(page); err != nil {
			return fmt.Errorf("writing page %d: %w", page.Number, err)
		}
	}
	return pw.Close()
}

type textWriter struct {
	w io.Writer
}

func (t *textWriter) WritePage(p types.PageText) error {
	_, err := fmt.Fprintf(t.w, "--- Page %d ---\n%s\n", p.Number, p.Text)
	return err
}

func (t *textWriter) Close() error { return nil }

type yamlWriter struct {
	enc     *yaml.Encoder
	written bool
}

func (y *yamlWriter) WritePage(p types.PageText) error {
	y.written = true
	return y.enc.Encode(&p)
}

// Close ends the YAML stream. An encoder that never started a stream has
// nothing to end.
func (y *yamlWriter) Close() error {
	if !y.written {
		return nil
	}
	return y.enc.Close()
}
