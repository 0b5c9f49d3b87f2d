// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// NativeOpener reads the embedded text layer with github.com/ledongthuc/pdf.
// Scanned, image-only pages come back empty; there is no OCR.
type NativeOpener struct{}

// Open parses the PDF at path. The parser panics on some malformed inputs;
// those panics are reported as *DocumentOpenError.
func (NativeOpener) Open(path string) (Document, error) {
	f, r, err := openReader(path)
	if err != nil {
		return nil, &DocumentOpenError{Path: path, Err: err}
	}

	n, err := countPages(r)
	if err != nil {
		f.Close()
		return nil, &DocumentOpenError{Path: path, Err: err}
	}

	return &nativeDocument{f: f, r: r, pages: n}, nil
}

// openReader opens path and parses its trailer and cross-reference table.
// The file is closed on every failure, including a parser panic.
func openReader(path string) (*os.File, *pdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	r, err := newReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, r, nil
}

func newReader(f *os.File, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", p)
		}
	}()
	return pdf.NewReader(f, size)
}

func countPages(r *pdf.Reader) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reading page tree: %v", p)
		}
	}()
	return r.NumPage(), nil
}

type nativeDocument struct {
	f     *os.File
	r     *pdf.Reader
	pages int
}

func (d *nativeDocument) NumPage() int { return d.pages }

func (d *nativeDocument) Page(i int) Page {
	return &nativePage{doc: d, num: i + 1}
}

func (d *nativeDocument) Close() error {
	return d.f.Close()
}

type nativePage struct {
	doc *nativeDocument
	num int // 1-based, as ledongthuc/pdf numbers pages
}

// Text extracts the page's plain text. Null page objects, extraction errors
// and parser panics all yield "".
//
// Font resource names such as /F1 are local to a page, so fonts are resolved
// from this page's own resources every time.
func (p *nativePage) Text() (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := p.doc.r.Page(p.num)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
