// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagedump/internal/cache"
	"github.com/pdiddy/pagedump/internal/pdftext"
	"github.com/pdiddy/pagedump/internal/testpdf"
	"github.com/pdiddy/pagedump/pkg/types"
)

func TestRun_Text(t *testing.T) {
	path := testpdf.Write(t, t.TempDir(), "doc.pdf", []string{"Hello world", "", "Goodbye"})

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(types.DumpConfig{}, path, &stdout, &stderr))

	lines := strings.Split(stdout.String(), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "--- Page 1 ---", lines[0])
	assert.Contains(t, stdout.String(), "--- Page 2 ---\n")
	assert.Contains(t, stdout.String(), "--- Page 3 ---\n")
	assert.Contains(t, stdout.String(), "Hello world")
	assert.Contains(t, stdout.String(), "Goodbye")
	assert.Empty(t, stderr.String())
}

func TestRun_ZeroPages(t *testing.T) {
	path := testpdf.Write(t, t.TempDir(), "empty.pdf", nil)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(types.DumpConfig{}, path, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(types.DumpConfig{}, filepath.Join(t.TempDir(), "missing.pdf"), &stdout, &stderr)

	var openErr *pdftext.DocumentOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Empty(t, stdout.String())
}

func TestRun_BadConfig(t *testing.T) {
	path := testpdf.Write(t, t.TempDir(), "doc.pdf", []string{"x"})

	tests := []struct {
		name    string
		cfg     types.DumpConfig
		wantErr string
	}{
		{name: "unknown backend", cfg: types.DumpConfig{Backend: "ocr"}, wantErr: "unknown backend"},
		{name: "unknown format", cfg: types.DumpConfig{Format: "html"}, wantErr: "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.cfg, path, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_CacheIsTransparent(t *testing.T) {
	dir := t.TempDir()
	path := testpdf.Write(t, dir, "doc.pdf", []string{"Page one text", "Page two text"})

	var plain bytes.Buffer
	require.NoError(t, run(types.DumpConfig{}, path, &plain, &bytes.Buffer{}))

	cfg := types.DumpConfig{Cache: types.CacheConfig{Enabled: true, Path: filepath.Join(dir, "pages.db")}}
	for i := 0; i < 2; i++ {
		var out, errOut bytes.Buffer
		require.NoError(t, run(cfg, path, &out, &errOut))
		assert.Equal(t, plain.String(), out.String(), "run %d", i+1)
		assert.Empty(t, errOut.String())
	}
}

func TestRun_YAML(t *testing.T) {
	path := testpdf.Write(t, t.TempDir(), "doc.pdf", []string{"Alpha", "Beta"})

	var stdout bytes.Buffer
	require.NoError(t, run(types.DumpConfig{Format: types.OutputYAML}, path, &stdout, &bytes.Buffer{}))
	assert.Contains(t, stdout.String(), "number: 1")
	assert.Contains(t, stdout.String(), "number: 2")
	assert.NotContains(t, stdout.String(), "--- Page")
}

func TestRootCmd_RequiresOnePath(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "two arguments", args: []string{"a.pdf", "b.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "accepts 1 arg(s)")
		})
	}
}

func TestRootCmd_DumpsFile(t *testing.T) {
	path := testpdf.Write(t, t.TempDir(), "doc.pdf", []string{"From the command"})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "--- Page 1 ---\n"))
	assert.Contains(t, out.String(), "From the command")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "pagedump dev\n", out.String())
}

func TestRun_CacheSkipsEntriesFromOtherExtractors(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pages.db")
	path := testpdf.Write(t, dir, "doc.pdf", []string{"Current extraction"})

	// Seed the cache as an older build would have: keyed by bare backend name.
	digest, err := cache.FileDigest(path)
	require.NoError(t, err)
	store, err := cache.NewStore(types.CacheConfig{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), digest, "native", path, []string{"outdated extraction"}))
	require.NoError(t, store.Close())

	cfg := types.DumpConfig{Cache: types.CacheConfig{Enabled: true, Path: dbPath}}
	var stdout bytes.Buffer
	require.NoError(t, run(cfg, path, &stdout, &bytes.Buffer{}))

	assert.Contains(t, stdout.String(), "Current extraction")
	assert.NotContains(t, stdout.String(), "outdated extraction")
}
