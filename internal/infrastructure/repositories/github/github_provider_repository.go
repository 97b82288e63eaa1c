package github

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
	providerName = "github"
	perPage      = 100
	apiBase      = "https://api.github.com"
)

// GitHubProviderRepository implements repositories.ProviderRepository for
// github.com.
type GitHubProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a GitHub provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &GitHubProviderRepository{creds: creds, client: client}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

func (p *GitHubProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		return map[string]string{"Authorization": "token " + p.creds.Token}
	}
	return map[string]string{}
}

func (p *GitHubProviderRepository) MetadataURL(owner, repo, _ string) string {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}
	return fmt.Sprintf("%s/repos/%s/%s", base, owner, repo)
}

func (p *GitHubProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
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
		Topics:        apiutil.StrList(raw, "topics"),
		Archived:      apiutil.Bool(raw, "archived"),
		Private:       apiutil.Bool(raw, "private"),
		Fork:          apiutil.Bool(raw, "fork"),
		Size:          apiutil.Int(raw, "size"),
		CloneURL:      apiutil.Str(raw, "clone_url"),
		SSHURL:        apiutil.Str(raw, "ssh_url"),
		HTMLURL:       apiutil.Str(raw, "html_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "main"),
	}
	if license := apiutil.Map(raw, "license"); license != nil {
		meta.License = apiutil.Str(license, "name")
	}
	if owner := apiutil.Map(raw, "owner"); owner != nil {
		meta.AvatarURL = apiutil.Str(owner, "avatar_url")
	}
	return meta
}

// ListUserRepos lists all repositories of a user or organization, picking
// the org listing endpoint when the account is an Organization.
func (p *GitHubProviderRepository) ListUserRepos(ctx context.Context, username, _ string) ([]entities.RemoteRepo, error) {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}

	listPath := fmt.Sprintf("%s/users/%s/repos", base, username)
	who, err := p.client.GetJSON(ctx, fmt.Sprintf("%s/users/%s", base, username), p.AuthHeaders())
	if err == nil && apiutil.Str(who, "type") == "Organization" {
		listPath = fmt.Sprintf("%s/orgs/%s/repos", base, username)
	}

	var repos []entities.RemoteRepo
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s?per_page=%d&page=%d&sort=updated", listPath, perPage, page)
		pageRepos, listErr := p.client.GetJSONList(ctx, url, p.AuthHeaders())
		if listErr != nil {
			return repos, fmt.Errorf("listing repos for %q: %w", username, listErr)
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
				Archived:    apiutil.Bool(r, "archived"),
				Private:     apiutil.Bool(r, "private"),
			})
		}

		if len(pageRepos) < perPage {
			break
		}
	}
	return repos, nil
}

// ListReleases lists all releases of a repository, newest first.
func (p *GitHubProviderRepository) ListReleases(ctx context.Context, owner, repo, _, _ string) ([]entities.ReleaseRecord, error) {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}

	var releases []entities.ReleaseRecord
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", base, owner, repo, perPage, page)
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
				Draft:       apiutil.Bool(r, "draft"),
				Prerelease:  apiutil.Bool(r, "prerelease"),
				PublishedAt: apiutil.Str(r, "published_at"),
				ZipballURL:  apiutil.Str(r, "zipball_url"),
				TarballURL:  apiutil.Str(r, "tarball_url"),
			}
			for _, a := range apiutil.List(r, "assets") {
				rec.Assets = append(rec.Assets, entities.AssetRecord{
					Name:        apiutil.Str(a, "name"),
					DownloadURL: apiutil.Str(a, "browser_download_url"),
					Size:        apiutil.Int64(a, "size"),
					ContentType: apiutil.Str(a, "content_type"),
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
