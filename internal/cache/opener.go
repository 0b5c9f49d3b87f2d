// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/pagedump/internal/pdftext"
)

// CachingOpener serves documents from a Store and falls through to Inner
// on a miss, storing what Inner extracts. Extractor identifies Inner in the
// cache key (see pdftext.ExtractorID); entries written under any other
// extractor are never served. Cache failures are reported to
// Warn and never fail the run; open errors from Inner are returned as is
// and never cached.
type CachingOpener struct {
	Inner     pdftext.Opener
	Store     *Store
	Extractor string
	Warn      io.Writer
}

// Open returns the pages of path from the cache, extracting and storing
// them first if needed.
func (c *CachingOpener) Open(path string) (pdftext.Document, error) {
	ctx := context.Background()

	digest, err := FileDigest(path)
	if err != nil {
		// Let the backend report the missing or unreadable file.
		return c.Inner.Open(path)
	}

	pages, ok, err := c.Store.Get(ctx, digest, c.Extractor)
	if err != nil {
		c.warnf("warning: reading cache for %s: %v\n", path, err)
	}
	if ok {
		return pdftext.StaticDocument(pages), nil
	}

	doc, err := c.Inner.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	n := doc.NumPage()
	pages = make([]string, n)
	for i := 0; i < n; i++ {
		pages[i] = doc.Page(i).Text()
	}

	if err := c.Store.Put(ctx, digest, c.Extractor, path, pages); err != nil {
		c.warnf("warning: caching %s: %v\n", path, err)
	}
	return pdftext.StaticDocument(pages), nil
}

func (c *CachingOpener) warnf(format string, args ...any) {
	if c.Warn != nil {
		fmt.Fprintf(c.Warn, format, args...)
	}
}
