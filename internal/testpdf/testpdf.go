// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package testpdf writes small, well-formed PDF files for tests. Each page
// carries its text as a single Helvetica text run; a page with empty text
// gets a content stream with no text at all, like a scanned image page.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page describes one page of a generated PDF.
type Page struct {
	// Text is drawn as a single text run under the font resource /F1.
	// Empty text gives a content stream with no text operators.
	Text string

	// Font, when set, is the font dictionary this page binds to /F1
	// instead of the shared Helvetica font.
	Font string

	// Filter, when set, is written as the content stream's /Filter. The
	// stream data is left unencoded, so an unknown or mismatched filter
	// makes the page unreadable.
	Filter string
}

// Write builds a PDF with one page per element of pages, writes it to
// dir/name and returns the path. Page text must be a single line of ASCII.
func Write(t testing.TB, dir, name string, pages []string) string {
	t.Helper()
	return WritePages(t, dir, name, TextPages(pages))
}

// WritePages is Write for pages with their own fonts or filters.
func WritePages(t testing.TB, dir, name string, pages []Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildPages(pages), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TextPages turns plain page texts into Page specs.
func TextPages(texts []string) []Page {
	pages := make([]Page, len(texts))
	for i, text := range texts {
		pages[i] = Page{Text: text}
	}
	return pages
}

// Build returns the bytes of a PDF with one page per element of pages.
func Build(pages []string) []byte {
	return BuildPages(TextPages(pages))
}

const helvetica = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// BuildPages returns the bytes of a PDF built from page specs.
//
// Object layout: 1 catalog, 2 page tree, 3 shared font, then for every page
// its page object, its content stream and, if it has one, its own font.
func BuildPages(pages []Page) []byte {
	objs := []string{"", "", helvetica}
	add := func(obj string) int {
		objs = append(objs, obj)
		return len(objs)
	}

	kids := make([]string, len(pages))
	for i, pg := range pages {
		pageNum := add("")
		kids[i] = fmt.Sprintf("%d 0 R", pageNum)

		content := "q Q"
		if pg.Text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escape(pg.Text))
		}
		dict := fmt.Sprintf("/Length %d", len(content))
		if pg.Filter != "" {
			dict += " /Filter /" + pg.Filter
		}
		contentNum := add(fmt.Sprintf("<< %s >>\nstream\n%s\nendstream", dict, content))

		fontNum := 3
		if pg.Font != "" {
			fontNum = add(pg.Font)
		}

		objs[pageNum-1] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontNum, contentNum)
	}

	objs[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
