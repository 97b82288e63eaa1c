package gitea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gitea"
)

func TestGiteaMetadataURL(t *testing.T) {
	t.Parallel()

	t.Run("should build the instance API URL from the domain", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitea.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		url := provider.MetadataURL("forgejo", "forgejo", "codeberg.org")

		// then
		assert.Equal(t, "https://codeberg.org/api/v1/repos/forgejo/forgejo", url)
	})
}

func TestGiteaParseMetadata(t *testing.T) {
	t.Parallel()

	t.Run("should map the gitea field names", func(t *testing.T) {
		t.Parallel()

		// given
		raw := map[string]any{
			"description":    "soft fork",
			"stars_count":    float64(800),
			"forks_count":    float64(120),
			"website":        "https://forgejo.org",
			"default_branch": "forgejo",
			"clone_url":      "https://codeberg.org/forgejo/forgejo.git",
			"owner":          map[string]any{"avatar_url": "https://codeberg.org/avatars/1"},
		}
		provider := gitea.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{})

		// when
		meta := provider.ParseMetadata(raw, "codeberg.org")

		// then
		assert.Equal(t, 800, meta.Stars)
		assert.Equal(t, 120, meta.Forks)
		assert.Equal(t, "https://forgejo.org", meta.Homepage)
		assert.Equal(t, "forgejo", meta.DefaultBranch)
		assert.Equal(t, "https://codeberg.org/avatars/1", meta.AvatarURL)
	})
}

func TestGiteaAuthHeaders(t *testing.T) {
	t.Parallel()

	t.Run("should use the token scheme", func(t *testing.T) {
		t.Parallel()

		// given
		provider := gitea.NewProviderRepository(httpapi.NewClient(), domainRepos.Credentials{Token: "tkn"})

		// when
		headers := provider.AuthHeaders()

		// then
		assert.Equal(t, "token tkn", headers["Authorization"])
	})
}
