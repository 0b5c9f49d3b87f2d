// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	binPdftotext = "pdftotext"

	// headerWindow is how far into the file the %PDF- marker may appear.
	headerWindow = 1024
)

var pdfHeader = []byte("%PDF-")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// PdftotextOpener extracts text by running Poppler's pdftotext and splitting
// its output on the form feed it emits after every page.
type PdftotextOpener struct {
	bin  string
	exec executor
}

// NewPdftotextOpener returns an opener that runs bin, or "pdftotext" from
// PATH when bin is empty.
func NewPdftotextOpener(bin string) *PdftotextOpener {
	if bin == "" {
		bin = binPdftotext
	}
	return &PdftotextOpener{bin: bin, exec: &osExecutor{}}
}

// Open runs pdftotext over the whole file and returns its pages.
func (o *PdftotextOpener) Open(path string) (Document, error) {
	if err := checkHeader(path); err != nil {
		return nil, &DocumentOpenError{Path: path, Err: err}
	}

	bin, err := o.exec.LookPath(o.bin)
	if err != nil {
		return nil, &DocumentOpenError{Path: path, Err: fmt.Errorf("%s not found: %w", o.bin, err)}
	}

	out, err := o.exec.Output(bin, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, &DocumentOpenError{Path: path, Err: fmt.Errorf("running %s: %w", o.bin, err)}
	}

	return StaticDocument(splitPages(string(out))), nil
}

// checkHeader verifies that path is readable and carries a PDF header.
func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, headerWindow)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Contains(head[:n], pdfHeader) {
		return errors.New("not a PDF file: missing %PDF- header")
	}
	return nil
}

// splitPages splits pdftotext output into per-page text. pdftotext ends
// every page, including the last, with a form feed; the empty segment after
// the final one is not a page. Trailing newlines inside a page are dropped.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	segs := strings.Split(out, "\f")
	if strings.TrimSpace(segs[len(segs)-1]) == "" {
		segs = segs[:len(segs)-1]
	}
	pages := make([]string, len(segs))
	for i, s := range segs {
		pages[i] = strings.TrimRight(s, "\n")
	}
	return pages
}
