package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlankLines(t *testing.T) {
	assert.Equal(t, 0, nonBlankLines(nil))
	assert.Equal(t, 2, nonBlankLines([]byte("package x\n\n\t \nfunc f() {}")))
	assert.Equal(t, 1, nonBlankLines([]byte("  x  \r\n\r\n")))
}

func TestCountPackageLines(t *testing.T) {
	root := filepath.Join(t.TempDir(), "internal")
	files := map[string]string{
		"trim/trim.go":           "package trim\n\nfunc A() {}\n",
		"trim/trim_test.go":      "package trim\n\nimport \"testing\"\n\nfunc TestA(t *testing.T) {}\n",
		"collision/collision.go": "package collision\n",
		"collision/notes.md":     "not go\nat all\n",
	}
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	counts := map[string]*lineCount{}
	require.NoError(t, countPackageLines(root, counts))
	require.Len(t, counts, 2)

	trim := counts[filepath.ToSlash(filepath.Join(root, "trim"))]
	require.NotNil(t, trim)
	assert.Equal(t, lineCount{prod: 2, test: 3}, *trim)

	coll := counts[filepath.ToSlash(filepath.Join(root, "collision"))]
	require.NotNil(t, coll)
	assert.Equal(t, lineCount{prod: 1}, *coll)
}

func TestCountPackageLinesMissingRoot(t *testing.T) {
	counts := map[string]*lineCount{}
	require.NoError(t, countPackageLines(filepath.Join(t.TempDir(), "absent"), counts))
	assert.Empty(t, counts)
}
