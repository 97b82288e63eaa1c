package gitee

import (
	"context"
	"fmt"
	"strings"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const (
	providerName = "gitee"
	perPage      = 100
	apiBase      = "https://gitee.com/api/v5"
)

// GiteeProviderRepository implements repositories.ProviderRepository for
// gitee.com.
type GiteeProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a Gitee provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &GiteeProviderRepository{creds: creds, client: client}
}

func (p *GiteeProviderRepository) Name() string { return providerName }

func (p *GiteeProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		return map[string]string{"Authorization": "token " + p.creds.Token}
	}
	return map[string]string{}
}

func (p *GiteeProviderRepository) apiRoot() string {
	if p.creds.APIURL != "" {
		return strings.TrimSuffix(p.creds.APIURL, "/")
	}
	return apiBase
}

func (p *GiteeProviderRepository) MetadataURL(owner, repo, _ string) string {
	return fmt.Sprintf("%s/repos/%s/%s", p.apiRoot(), owner, repo)
}

func (p *GiteeProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		UpdatedAt:     apiutil.Str(raw, "updated_at"),
		PushedAt:      apiutil.Str(raw, "pushed_at"),
		Language:      apiutil.Str(raw, "language"),
		Stars:         apiutil.Int(raw, "stargazers_count"),
		Forks:         apiutil.Int(raw, "forks_count"),
		Watchers:      apiutil.Int(raw, "watchers_count"),
		OpenIssues:    apiutil.Int(raw, "open_issues_count"),
		Homepage:      apiutil.Str(raw, "homepage"),
		Private:       apiutil.Bool(raw, "private"),
		Fork:          apiutil.Bool(raw, "fork"),
		Size:          apiutil.Int(raw, "size"),
		CloneURL:      apiutil.Str(raw, "clone_url"),
		SSHURL:        apiutil.Str(raw, "ssh_url"),
		HTMLURL:       apiutil.Str(raw, "html_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "master"),
	}
	if license := apiutil.Map(raw, "license"); license != nil {
		meta.License = apiutil.Str(license, "name")
	}
	if owner := apiutil.Map(raw, "owner"); owner != nil {
		meta.AvatarURL = apiutil.Str(owner, "avatar_url")
	}
	return meta
}

func (p *GiteeProviderRepository) ListUserRepos(ctx context.Context, username, _ string) ([]entities.RemoteRepo, error) {
	var repos []entities.RemoteRepo
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/users/%s/repos?per_page=%d&page=%d&sort=updated", p.apiRoot(), username, perPage, page)
		pageRepos, err := p.client.GetJSONList(ctx, url, p.AuthHeaders())
		if err != nil {
			return repos, fmt.Errorf("listing repos for %q: %w", username, err)
		}
		if len(pageRepos) == 0 {
			break
		}

		for _, r := range pageRepos {
			repos = append(repos, entities.RemoteRepo{
				Name:        apiutil.Str(r, "name"),
				FullName:    apiutil.Str(r, "full_name"),
				CloneURL:    apiutil.Str(r, "clone_url"),
				HTMLURL:     apiutil.Str(r, "html_url"),
				Description: apiutil.Str(r, "description"),
				Fork:        apiutil.Bool(r, "fork"),
				Private:     apiutil.Bool(r, "private"),
			})
		}

		if len(pageRepos) < perPage {
			break
		}
	}
	return repos, nil
}

func (p *GiteeProviderRepository) ListReleases(ctx context.Context, owner, repo, _, _ string) ([]entities.ReleaseRecord, error) {
	var releases []entities.ReleaseRecord
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", p.apiRoot(), owner, repo, perPage, page)
		pageReleases, err := p.client.GetJSONList(ctx, url, p.AuthHeaders())
		if err != nil {
			return releases, fmt.Errorf("listing releases for %s/%s: %w", owner, repo, err)
		}
		if len(pageReleases) == 0 {
			break
		}

		for _, r := range pageReleases {
			rec := entities.ReleaseRecord{
				ID:          apiutil.Int64(r, "id"),
				TagName:     apiutil.Str(r, "tag_name"),
				Name:        apiutil.StrOr(r, "name", apiutil.Str(r, "tag_name")),
				Body:        apiutil.Str(r, "body"),
				Prerelease:  apiutil.Bool(r, "prerelease"),
				PublishedAt: apiutil.Str(r, "created_at"),
				ZipballURL:  apiutil.Str(r, "zipball_url"),
				TarballURL:  apiutil.Str(r, "tarball_url"),
			}
			for _, a := range apiutil.List(r, "assets") {
				rec.Assets = append(rec.Assets, entities.AssetRecord{
					Name:        apiutil.Str(a, "name"),
					DownloadURL: apiutil.Str(a, "browser_download_url"),
					Size:        apiutil.Int64(a, "size"),
				})
			}
			releases = append(releases, rec)
		}

		if len(pageReleases) < perPage {
			break
		}
	}
	return releases, nil
}
