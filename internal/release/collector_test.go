package release_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/release"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	releases := []entities.ReleaseRecord{
		{TagName: "v3.0.0", PublishedAt: "2024-09-01T00:00:00Z"},
		{TagName: "v2.5.0", Draft: true, PublishedAt: "2024-06-01T00:00:00Z"},
		{TagName: "v2.0.0", PublishedAt: "2024-01-01T00:00:00Z"},
		{TagName: "v1.0.0", PublishedAt: "2023-01-01T00:00:00Z"},
	}

	t.Run("should pick only the latest release by default", func(t *testing.T) {
		t.Parallel()

		// when
		selected := release.Select(releases, release.Selection{})

		// then
		require.Len(t, selected, 1)
		assert.Equal(t, "v3.0.0", selected[0].TagName)
	})

	t.Run("should never select drafts", func(t *testing.T) {
		t.Parallel()

		// when
		selected := release.Select(releases, release.Selection{All: true})

		// then
		require.Len(t, selected, 3)
		for _, rel := range selected {
			assert.False(t, rel.Draft)
		}
	})

	t.Run("should honor the count limit", func(t *testing.T) {
		t.Parallel()

		// when
		selected := release.Select(releases, release.Selection{Count: 2})

		// then
		require.Len(t, selected, 2)
		assert.Equal(t, "v3.0.0", selected[0].TagName)
		assert.Equal(t, "v2.0.0", selected[1].TagName)
	})

	t.Run("should cap the count at the number of releases", func(t *testing.T) {
		t.Parallel()

		// when
		selected := release.Select(releases, release.Selection{Count: 10})

		// then
		assert.Len(t, selected, 3)
	})

	t.Run("should return nothing when every release is a draft", func(t *testing.T) {
		t.Parallel()

		// given
		drafts := []entities.ReleaseRecord{{TagName: "v1.0.0", Draft: true}}

		// when
		selected := release.Select(drafts, release.Selection{All: true})

		// then
		assert.Empty(t, selected)
	})

	t.Run("should reorder by semantic version when no timestamps exist", func(t *testing.T) {
		t.Parallel()

		// given: listing order does not reflect recency
		untimed := []entities.ReleaseRecord{
			{TagName: "1.2.0"},
			{TagName: "v2.0.0"},
			{TagName: "v1.10.0"},
		}

		// when
		selected := release.Select(untimed, release.Selection{All: true})

		// then
		require.Len(t, selected, 3)
		assert.Equal(t, "v2.0.0", selected[0].TagName)
		assert.Equal(t, "v1.10.0", selected[1].TagName)
		assert.Equal(t, "1.2.0", selected[2].TagName)
	})
}
