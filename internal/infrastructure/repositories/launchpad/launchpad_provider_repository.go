package launchpad

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const providerName = "launchpad"

// LaunchpadProviderRepository implements repositories.ProviderRepository for
// launchpad.net. Launchpad requires OAuth 1.0 authentication, which is not
// supported; only public API access is available.
type LaunchpadProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a Launchpad provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &LaunchpadProviderRepository{creds: creds, client: client}
}

func (p *LaunchpadProviderRepository) Name() string { return providerName }

func (p *LaunchpadProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		logger.Warn("Launchpad requires OAuth 1.0 authentication which is not supported; the provided token is ignored")
	}
	return map[string]string{}
}

func (p *LaunchpadProviderRepository) MetadataURL(owner, repo, _ string) string {
	if p.creds.APIURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(p.creds.APIURL, "/"), owner, repo)
	}
	return fmt.Sprintf("https://api.launchpad.net/1.0/%s/%s", owner, repo)
}

func (p *LaunchpadProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	return entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "date_created"),
		UpdatedAt:     apiutil.Str(raw, "date_last_modified"),
		HTMLURL:       apiutil.Str(raw, "web_link"),
		DefaultBranch: "master",
	}
}

func (p *LaunchpadProviderRepository) ListUserRepos(_ context.Context, _, _ string) ([]entities.RemoteRepo, error) {
	return nil, nil
}

func (p *LaunchpadProviderRepository) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}
