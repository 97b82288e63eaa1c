package gitlab_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gitlab"
)

func TestGitLabAuthHeaders(t *testing.T) {
	t.Parallel()

	t.Run("should use the PRIVATE-TOKEN header", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{Token: "glpat"})

		// when
		headers := provider.AuthHeaders()

		// then
		assert.Equal(t, "glpat", headers["PRIVATE-TOKEN"])
	})
}

func TestGitLabMetadataURL(t *testing.T) {
	t.Parallel()

	t.Run("should URL-encode the project path", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		url := provider.MetadataURL("gitlab-org", "gitlab", "gitlab.com")

		// then
		assert.Equal(t, "https://gitlab.com/api/v4/projects/gitlab-org%2Fgitlab", url)
	})

	t.Run("should build self-hosted URLs from the domain", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		url := provider.MetadataURL("GNOME", "glib", "gitlab.gnome.org")

		// then
		assert.Equal(t, "https://gitlab.gnome.org/api/v4/projects/GNOME%2Fglib", url)
	})
}

func TestGitLabParseMetadata(t *testing.T) {
	t.Parallel()

	t.Run("should map star_count and keep the project id", func(t *testing.T) {
		t.Parallel()

		// given
		raw := map[string]any{
			"id":               float64(278964),
			"description":      "GitLab itself",
			"star_count":       float64(24000),
			"forks_count":      float64(5000),
			"visibility":       "public",
			"default_branch":   "master",
			"http_url_to_repo": "https://gitlab.com/gitlab-org/gitlab.git",
			"avatar_url":       "/uploads/avatar.png",
		}
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		meta := provider.ParseMetadata(raw, "gitlab.com")

		// then
		assert.Equal(t, "278964", meta.ProjectID)
		assert.Equal(t, 24000, meta.Stars)
		assert.Equal(t, "master", meta.DefaultBranch)
		assert.False(t, meta.Private)
		assert.Equal(t, "https://gitlab.com/uploads/avatar.png", meta.AvatarURL)
	})

	t.Run("should treat non-public visibility as private", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		meta := provider.ParseMetadata(map[string]any{"visibility": "internal"}, "gitlab.com")

		// then
		assert.True(t, meta.Private)
	})
}

func TestGitLabListReleases(t *testing.T) {
	t.Parallel()

	t.Run("should return nothing without a project id", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		releases, err := provider.ListReleases(context.Background(), "o", "r", "gitlab.com", "")

		// then
		require.NoError(t, err)
		assert.Empty(t, releases)
	})

	t.Run("should synthesize archive URLs from the instance convention", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/projects/42/releases", r.URL.Path)
			if r.URL.Query().Get("page") != "1" {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, `[{
				"tag_name": "v2.0.0",
				"name": "Two",
				"released_at": "2024-06-01T00:00:00Z",
				"assets": {"links": [{"name": "installer", "url": "https://example.com/installer"}]}
			}]`)
		}))
		defer server.Close()

		provider := gitlab.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{APIURL: server.URL})

		// when
		releases, err := provider.ListReleases(context.Background(), "acme", "tool", "gitlab.example.com", "42")

		// then
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "v2.0.0", releases[0].TagName)
		assert.Equal(t,
			"https://gitlab.example.com/acme/tool/-/archive/v2.0.0/tool-v2.0.0.zip",
			releases[0].ZipballURL)
		require.Len(t, releases[0].Assets, 1)
		assert.Equal(t, "installer", releases[0].Assets[0].Name)
	})
}
