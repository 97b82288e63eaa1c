package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andres9890/iagitbetter/internal/domain/commands"
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	infraRepos "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories"
)

// stubProvider answers a canned repository listing.
type stubProvider struct {
	repos []entities.RemoteRepo
	err   error
}

func (s *stubProvider) Name() string                      { return "stub" }
func (s *stubProvider) AuthHeaders() map[string]string    { return nil }
func (s *stubProvider) MetadataURL(_, _, _ string) string { return "" }

func (s *stubProvider) ParseMetadata(_ map[string]any, _ string) entities.RepoMetadata {
	return entities.RepoMetadata{}
}

func (s *stubProvider) ListUserRepos(_ context.Context, _, _ string) ([]entities.RemoteRepo, error) {
	return s.repos, s.err
}

func (s *stubProvider) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}

// stubArchive records the URLs it was asked to archive.
type stubArchive struct {
	urls    []string
	failURL string
}

func (s *stubArchive) Execute(_ context.Context, opts commands.ArchiveOptions) error {
	s.urls = append(s.urls, opts.RepoURL)
	if opts.RepoURL == s.failURL {
		return errors.New("simulated failure")
	}
	return nil
}

func stubRegistry(provider domainRepos.ProviderRepository) *infraRepos.ProviderRegistry {
	registry := infraRepos.NewProviderRegistry(httpapi.NewClient())
	registry.Register("stub", []string{"forge.example.com"}, func(_ *httpapi.Client, _ domainRepos.Credentials) domainRepos.ProviderRepository {
		return provider
	})
	return registry
}

func TestMirrorUserCommand(t *testing.T) {
	t.Parallel()

	t.Run("should archive every non-fork repository", func(t *testing.T) {
		t.Parallel()

		// given
		provider := &stubProvider{repos: []entities.RemoteRepo{
			{FullName: "acme/one", HTMLURL: "https://forge.example.com/acme/one"},
			{FullName: "acme/fork", HTMLURL: "https://forge.example.com/acme/fork", Fork: true},
			{FullName: "acme/two", HTMLURL: "https://forge.example.com/acme/two"},
		}}
		archive := &stubArchive{}
		command := commands.NewMirrorUserCommand(stubRegistry(provider), archive)

		// when
		err := command.Execute(context.Background(), commands.MirrorUserOptions{
			UserURL: "https://forge.example.com/acme",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://forge.example.com/acme/one",
			"https://forge.example.com/acme/two",
		}, archive.urls)
	})

	t.Run("should include forks when asked", func(t *testing.T) {
		t.Parallel()

		// given
		provider := &stubProvider{repos: []entities.RemoteRepo{
			{FullName: "acme/fork", HTMLURL: "https://forge.example.com/acme/fork", Fork: true},
		}}
		archive := &stubArchive{}
		command := commands.NewMirrorUserCommand(stubRegistry(provider), archive)

		// when
		err := command.Execute(context.Background(), commands.MirrorUserOptions{
			UserURL:      "https://forge.example.com/acme",
			IncludeForks: true,
		})

		// then
		require.NoError(t, err)
		assert.Len(t, archive.urls, 1)
	})

	t.Run("should keep going after one repository fails", func(t *testing.T) {
		t.Parallel()

		// given
		provider := &stubProvider{repos: []entities.RemoteRepo{
			{FullName: "acme/bad", HTMLURL: "https://forge.example.com/acme/bad"},
			{FullName: "acme/good", HTMLURL: "https://forge.example.com/acme/good"},
		}}
		archive := &stubArchive{failURL: "https://forge.example.com/acme/bad"}
		command := commands.NewMirrorUserCommand(stubRegistry(provider), archive)

		// when
		err := command.Execute(context.Background(), commands.MirrorUserOptions{
			UserURL: "https://forge.example.com/acme",
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 repositories failed")
		assert.Len(t, archive.urls, 2)
	})

	t.Run("should fail for a domain without a provider", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewMirrorUserCommand(stubRegistry(&stubProvider{}), &stubArchive{})

		// when
		err := command.Execute(context.Background(), commands.MirrorUserOptions{
			UserURL: "https://unknown.example.com/acme",
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no provider known")
	})
}
