package sourceforge

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

const providerName = "sourceforge"

// SourceForgeProviderRepository implements repositories.ProviderRepository
// for sourceforge.net via the Allura REST API. SourceForge requires OAuth
// 1.0a, which is not supported; only public access is available.
type SourceForgeProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a SourceForge provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &SourceForgeProviderRepository{creds: creds, client: client}
}

func (p *SourceForgeProviderRepository) Name() string { return providerName }

func (p *SourceForgeProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		logger.Warn("SourceForge requires OAuth 1.0a authentication which is not supported; the provided token is ignored")
	}
	return map[string]string{}
}

func (p *SourceForgeProviderRepository) MetadataURL(owner, repo, _ string) string {
	if p.creds.APIURL != "" {
		return fmt.Sprintf("%s/rest/p/%s/%s", strings.TrimSuffix(p.creds.APIURL, "/"), owner, repo)
	}
	return fmt.Sprintf("https://sourceforge.net/rest/p/%s/%s", owner, repo)
}

func (p *SourceForgeProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	return entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		HTMLURL:       apiutil.Str(raw, "url"),
		DefaultBranch: "master",
	}
}

func (p *SourceForgeProviderRepository) ListUserRepos(_ context.Context, _, _ string) ([]entities.RemoteRepo, error) {
	return nil, nil
}

func (p *SourceForgeProviderRepository) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}
