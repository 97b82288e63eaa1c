package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/files"
)

func TestRemapKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		want    string
		renamed bool
	}{
		{"should leave ordinary keys alone", "src/main.go", "src/main.go", false},
		{"should suffix svg files", "logo.svg", "logo.svg.txt", true},
		{"should suffix bmp files", "icons/old.BMP", "icons/old.BMP.txt", true},
		{"should not touch keys merely containing the extension", "svg-notes.md", "svg-notes.md", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			// when
			got, renamed := files.RemapKey(test.key)

			// then
			assert.Equal(t, test.want, got)
			assert.Equal(t, test.renamed, renamed)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("should accept a regular file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "ok.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

		// when
		entry := files.Validate(path, "ok.txt")

		// then
		assert.Equal(t, entities.FileValid, entry.Status)
		assert.Equal(t, "ok.txt", entry.UploadKey)
		assert.False(t, entry.Renamed())
	})

	t.Run("should classify a zero-byte file as empty", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		// when
		entry := files.Validate(path, "empty.txt")

		// then
		assert.Equal(t, entities.FileEmpty, entry.Status)
	})

	t.Run("should classify a missing file as corrupted", func(t *testing.T) {
		t.Parallel()

		// when
		entry := files.Validate(filepath.Join(t.TempDir(), "missing"), "missing")

		// then
		assert.Equal(t, entities.FileCorrupted, entry.Status)
	})

	t.Run("should classify a broken symlink as corrupted", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		link := filepath.Join(dir, "dangling")
		require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), link))

		// when
		entry := files.Validate(link, "dangling")

		// then
		assert.Equal(t, entities.FileCorrupted, entry.Status)
		assert.Equal(t, "broken symbolic link", entry.Reason)
	})

	t.Run("should remap a valid svg and remember the original key", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "logo.svg")
		require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))

		// when
		entry := files.Validate(path, "assets/logo.svg")

		// then
		assert.Equal(t, entities.FileValid, entry.Status)
		assert.Equal(t, "assets/logo.svg.txt", entry.UploadKey)
		assert.Equal(t, "assets/logo.svg", entry.OriginalKey)
		assert.True(t, entry.Renamed())
	})
}

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("should walk the tree, skip git internals, and count rejects", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "objects", "blob"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# hi"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "empty.log"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "logo.svg"), []byte("<svg/>"), 0o644))

		// when
		result, err := files.Collect(root)

		// then
		require.NoError(t, err)
		assert.Contains(t, result.Files, "README.md")
		assert.Contains(t, result.Files, "src/main.go")
		assert.Contains(t, result.Files, "logo.svg.txt")
		assert.NotContains(t, result.Files, "logo.svg")
		assert.NotContains(t, result.Files, ".git/objects/blob")
		assert.Equal(t, 1, result.Skipped.Empty)
		assert.Equal(t, 0, result.Skipped.Corrupted)
		assert.Equal(t, "logo.svg.txt", result.Renames["logo.svg"])
	})
}
