package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories"
)

func defaultRegistry() *repositories.ProviderRegistry {
	return repositories.NewDefaultProviderRegistry(httpapi.NewClient())
}

func TestProviderRegistryByDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		want   string
	}{
		{"github.com", "github"},
		{"gist.github.com", "gist"},
		{"gitlab.com", "gitlab"},
		{"gitlab.gnome.org", "gitlab"},
		{"bitbucket.org", "bitbucket"},
		{"codeberg.org", "gitea"},
		{"gitea.com", "gitea"},
		{"gitee.com", "gitee"},
		{"try.gogs.io", "gogs"},
		{"notabug.org", "gogs"},
		{"sourceforge.net", "sourceforge"},
		{"sourceforge.example.org", "sourceforge"},
		{"chromium.googlesource.com", "gerrit"},
		{"git.launchpad.net", "launchpad"},
	}

	registry := defaultRegistry()
	for _, test := range tests {
		t.Run("should resolve "+test.domain, func(t *testing.T) {
			t.Parallel()

			// when
			provider := registry.ByDomain(test.domain, domainRepos.Credentials{})

			// then
			require.NotNil(t, provider)
			assert.Equal(t, test.want, provider.Name())
		})
	}

	t.Run("should return nil for an unknown domain", func(t *testing.T) {
		t.Parallel()

		// when
		provider := registry.ByDomain("git.example.com", domainRepos.Credentials{})

		// then
		assert.Nil(t, provider)
	})
}

func TestProviderRegistryByName(t *testing.T) {
	t.Parallel()

	registry := defaultRegistry()

	t.Run("should resolve a registered name", func(t *testing.T) {
		t.Parallel()

		// when
		provider := registry.ByName("GitLab", domainRepos.Credentials{})

		// then
		require.NotNil(t, provider)
		assert.Equal(t, "gitlab", provider.Name())
	})

	t.Run("should resolve codeberg alias to the gitea adapter", func(t *testing.T) {
		t.Parallel()

		// when
		provider := registry.ByName("codeberg", domainRepos.Credentials{})

		// then
		require.NotNil(t, provider)
		assert.Equal(t, "gitea", provider.Name())
	})

	t.Run("should return nil for an unknown name", func(t *testing.T) {
		t.Parallel()

		// when
		provider := registry.ByName("subversion", domainRepos.Credentials{})

		// then
		assert.Nil(t, provider)
	})
}

func TestProviderRegistrySiteName(t *testing.T) {
	t.Parallel()

	registry := defaultRegistry()

	tests := []struct {
		name         string
		domain       string
		explicitType string
		want         string
	}{
		{"should prefer the explicit type", "github.com", "gogs", "gogs"},
		{"should name gists after gist not github", "gist.github.com", "", "gist"},
		{"should name codeberg after itself not gitea", "codeberg.org", "", "codeberg"},
		{"should name self-hosted gitlab by engine", "gitlab.gnome.org", "", "gitlab"},
		{"should fall back to the first domain label", "forge.example.com", "", "forge"},
		{"should fall back to git for a bare host", "localhost", "", "git"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			// when
			got := registry.SiteName(test.domain, test.explicitType)

			// then
			assert.Equal(t, test.want, got)
		})
	}
}
