package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andres9890/iagitbetter/internal/domain/commands"
)

func TestParseRepoURL(t *testing.T) {
	t.Parallel()

	t.Run("should extract owner and name from a standard URL", func(t *testing.T) {
		t.Parallel()

		// when
		repo, err := commands.ParseRepoURL("https://github.com/torvalds/linux")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github.com", repo.Domain)
		assert.Equal(t, "torvalds", repo.Owner)
		assert.Equal(t, "linux", repo.Name)
		assert.Equal(t, "torvalds/linux", repo.FullName)
	})

	t.Run("should strip a trailing .git suffix", func(t *testing.T) {
		t.Parallel()

		// when
		repo, err := commands.ParseRepoURL("https://gitlab.com/group/project.git")

		// then
		require.NoError(t, err)
		assert.Equal(t, "project", repo.Name)
	})

	t.Run("should strip a www prefix from the domain", func(t *testing.T) {
		t.Parallel()

		// when
		repo, err := commands.ParseRepoURL("https://www.github.com/octo/repo")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github.com", repo.Domain)
	})

	t.Run("should keep only the first two path segments", func(t *testing.T) {
		t.Parallel()

		// when
		repo, err := commands.ParseRepoURL("https://github.com/octo/repo/tree/main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "octo", repo.Owner)
		assert.Equal(t, "repo", repo.Name)
	})

	t.Run("should degrade a single-segment path to an unknown owner", func(t *testing.T) {
		t.Parallel()

		// when
		repo, err := commands.ParseRepoURL("https://git.example.com/lonely")

		// then
		require.NoError(t, err)
		assert.Equal(t, "unknown", repo.Owner)
		assert.Equal(t, "lonely", repo.Name)
	})

	t.Run("should reject a URL without a host", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := commands.ParseRepoURL("not a url")

		// then
		require.Error(t, err)
	})

	t.Run("should reject a URL without a path", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := commands.ParseRepoURL("https://github.com/")

		// then
		require.Error(t, err)
	})
}

func TestParseCustomMetadata(t *testing.T) {
	t.Parallel()

	t.Run("should parse comma-separated pairs", func(t *testing.T) {
		t.Parallel()

		// when
		custom := commands.ParseCustomMetadata("collection: test, topic:git archiving")

		// then
		assert.Equal(t, map[string]string{
			"collection": "test",
			"topic":      "git archiving",
		}, custom)
	})

	t.Run("should skip malformed items", func(t *testing.T) {
		t.Parallel()

		// when
		custom := commands.ParseCustomMetadata("valid:yes,broken,also:fine")

		// then
		assert.Equal(t, map[string]string{"valid": "yes", "also": "fine"}, custom)
	})

	t.Run("should return nil for an empty flag", func(t *testing.T) {
		t.Parallel()

		// when
		custom := commands.ParseCustomMetadata("")

		// then
		assert.Nil(t, custom)
	})
}
