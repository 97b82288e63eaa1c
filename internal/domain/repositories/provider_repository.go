package repositories

import (
	"context"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

// ProviderRepository abstracts one git hosting service's REST API behind a
// fixed capability set. Every provider implements the full interface;
// capabilities a platform lacks return empty results instead of errors.
//
// The projectID parameter of ListReleases is only meaningful for providers
// whose release endpoint is keyed by a numeric project identifier (GitLab);
// all others ignore it.
type ProviderRepository interface {
	Name() string

	// AuthHeaders returns the HTTP headers carrying the configured
	// credentials. An empty map means unauthenticated access.
	AuthHeaders() map[string]string

	// MetadataURL builds the repository-info endpoint URL for the given
	// repository on the given domain.
	MetadataURL(owner, repo, domain string) string

	// ParseMetadata maps a raw repository-info response into the canonical
	// metadata fields.
	ParseMetadata(raw map[string]any, domain string) entities.RepoMetadata

	// ListUserRepos lists all repositories of a user or organization.
	ListUserRepos(ctx context.Context, username, domain string) ([]entities.RemoteRepo, error)

	// ListReleases lists all releases of a repository, newest first.
	ListReleases(ctx context.Context, owner, repo, domain, projectID string) ([]entities.ReleaseRecord, error)
}

// Credentials holds the caller-supplied authentication material passed to
// provider factories. APIURL overrides the provider's default API base.
type Credentials struct {
	Token    string
	Username string // basic-auth schemes (Bitbucket app passwords)
	APIURL   string
}
