package gerrit

import (
	"context"
	"fmt"
	"strings"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const providerName = "gerrit"

// GerritProviderRepository implements repositories.ProviderRepository for
// Gerrit code-review instances. Projects are addressed with a URL-encoded
// path separator; Gerrit has no user-repo or release listings.
type GerritProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a Gerrit provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &GerritProviderRepository{creds: creds, client: client}
}

func (p *GerritProviderRepository) Name() string { return providerName }

func (p *GerritProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		return map[string]string{"Authorization": "Bearer " + p.creds.Token}
	}
	return map[string]string{}
}

func (p *GerritProviderRepository) MetadataURL(owner, repo, domain string) string {
	if p.creds.APIURL != "" {
		return fmt.Sprintf("%s/projects/%s%%2F%s", strings.TrimSuffix(p.creds.APIURL, "/"), owner, repo)
	}
	return fmt.Sprintf("https://%s/projects/%s%%2F%s", domain, owner, repo)
}

func (p *GerritProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		DefaultBranch: "master",
	}
	if webLinks := apiutil.List(raw, "web_links"); len(webLinks) > 0 {
		meta.HTMLURL = apiutil.Str(webLinks[0], "url")
	}
	if branches := apiutil.Map(raw, "branches"); branches != nil {
		meta.DefaultBranch = apiutil.StrOr(branches, "HEAD", "master")
	}
	return meta
}

func (p *GerritProviderRepository) ListUserRepos(_ context.Context, _, _ string) ([]entities.RemoteRepo, error) {
	return nil, nil
}

func (p *GerritProviderRepository) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}
