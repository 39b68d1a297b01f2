package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestExcludePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.ignore"), "b")

	files, err := determineFilesToSync(root, []string{"*.ignore"}, false)

	assert.Nil(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(t, root, files))
}

func TestNegationPatternReincludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "debug.log"), "x")
	writeFile(t, filepath.Join(root, "keep.log"), "x")
	writeFile(t, filepath.Join(root, "index.html"), "x")

	files, err := determineFilesToSync(root, []string{"*.log", "!keep.log"}, false)

	assert.Nil(t, err)
	assert.Equal(t, []string{"index.html", "keep.log"}, relPaths(t, root, files))
}

func TestSvcDirectoriesNeverVisited(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "x")
	writeFile(t, filepath.Join(root, ".svn", "entries"), "x")
	writeFile(t, filepath.Join(root, "site", "index.html"), "x")

	files, err := determineFilesToSync(root, nil, false)

	assert.Nil(t, err)
	assert.Equal(t, []string{"site/index.html"}, relPaths(t, root, files))
}

func TestAnchoredAndDirectoryPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "out.js"), "x")
	writeFile(t, filepath.Join(root, "src", "build", "out.js"), "x")
	writeFile(t, filepath.Join(root, "tmp", "scratch"), "x")

	files, err := determineFilesToSync(root, []string{"/build/", "tmp/"}, false)

	assert.Nil(t, err)
	assert.Equal(t, []string{"src/build/out.js"}, relPaths(t, root, files))
}

func TestGitignoreFilesFoldedIn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"), "x")
	writeFile(t, filepath.Join(root, "secret.env"), "x")
	writeFile(t, filepath.Join(root, ".gitignore"), "*.env\n")
	writeFile(t, filepath.Join(root, "nested", "cache.bin"), "x")
	writeFile(t, filepath.Join(root, "nested", "page.html"), "x")
	// nested rules apply relative to their own directory
	writeFile(t, filepath.Join(root, "nested", ".gitignore"), "# build artifacts\ncache.bin\n")

	files, err := determineFilesToSync(root, nil, true)

	assert.Nil(t, err)
	got := relPaths(t, root, files)
	assert.Contains(t, got, "top.txt")
	assert.Contains(t, got, "nested/page.html")
	assert.NotContains(t, got, "secret.env")
	assert.NotContains(t, got, "nested/cache.bin")
}

func TestGitignoreRequestedButMissing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x")

	// non-fatal: explicit excludes still apply
	files, err := determineFilesToSync(root, []string{"*.ignore"}, true)

	assert.Nil(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(t, root, files))
}

func TestSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	single := filepath.Join(root, "only.txt")
	writeFile(t, single, "x")

	files, err := determineFilesToSync(single, nil, false)
	assert.Nil(t, err)
	assert.Equal(t, []string{single}, files)

	files, err = determineFilesToSync(single, []string{"*.txt"}, false)
	assert.Nil(t, err)
	assert.Empty(t, files)
}

func TestEnumerationIsSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.txt"), "x")
	writeFile(t, filepath.Join(root, "a.txt"), "x")
	writeFile(t, filepath.Join(root, "m", "b.txt"), "x")

	files, err := determineFilesToSync(root, nil, false)

	assert.Nil(t, err)
	assert.True(t, sort.StringsAreSorted(files))
}
