package gitlab

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const (
	providerName = "gitlab"
	perPage      = 100
)

// GitLabProviderRepository implements repositories.ProviderRepository for
// gitlab.com and self-hosted GitLab instances. Project paths are addressed
// with a URL-encoded namespace separator, and the release endpoint is keyed
// by the numeric project id.
type GitLabProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a GitLab provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &GitLabProviderRepository{creds: creds, client: client}
}

func (p *GitLabProviderRepository) Name() string { return providerName }

func (p *GitLabProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		return map[string]string{"PRIVATE-TOKEN": p.creds.Token}
	}
	return map[string]string{}
}

func (p *GitLabProviderRepository) apiBase(domain string) string {
	if p.creds.APIURL != "" {
		return strings.TrimSuffix(p.creds.APIURL, "/")
	}
	return fmt.Sprintf("https://%s/api/v4", domain)
}

func (p *GitLabProviderRepository) MetadataURL(owner, repo, domain string) string {
	return fmt.Sprintf("%s/projects/%s%%2F%s", p.apiBase(domain), owner, repo)
}

func (p *GitLabProviderRepository) ParseMetadata(raw map[string]any, domain string) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		UpdatedAt:     apiutil.Str(raw, "updated_at"),
		PushedAt:      apiutil.Str(raw, "last_activity_at"),
		Stars:         apiutil.Int(raw, "star_count"),
		Forks:         apiutil.Int(raw, "forks_count"),
		OpenIssues:    apiutil.Int(raw, "open_issues_count"),
		Topics:        apiutil.StrList(raw, "topics"),
		Archived:      apiutil.Bool(raw, "archived"),
		Private:       apiutil.StrOr(raw, "visibility", "public") != "public",
		Fork:          raw["forked_from_project"] != nil,
		CloneURL:      apiutil.Str(raw, "http_url_to_repo"),
		SSHURL:        apiutil.Str(raw, "ssh_url_to_repo"),
		HTMLURL:       apiutil.Str(raw, "web_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "main"),
	}

	if id, present := raw["id"]; present {
		if n, ok := id.(float64); ok {
			meta.ProjectID = strconv.FormatInt(int64(n), 10)
		}
	}

	// Prefer the project avatar, falling back to the namespace one. Relative
	// URLs are resolved against the instance.
	avatar := apiutil.Str(raw, "avatar_url")
	if avatar == "" {
		if ns := apiutil.Map(raw, "namespace"); ns != nil {
			avatar = apiutil.Str(ns, "avatar_url")
		}
	}
	if avatar != "" && !strings.HasPrefix(avatar, "http://") && !strings.HasPrefix(avatar, "https://") {
		avatar = fmt.Sprintf("https://%s/%s", domain, strings.TrimPrefix(avatar, "/"))
	}
	meta.AvatarURL = avatar

	return meta
}

// ListUserRepos resolves the username to a user id and pages through that
// user's projects.
func (p *GitLabProviderRepository) ListUserRepos(ctx context.Context, username, domain string) ([]entities.RemoteRepo, error) {
	base := p.apiBase(domain)

	users, err := p.client.GetJSONList(ctx, fmt.Sprintf("%s/users?username=%s", base, username), p.AuthHeaders())
	if err != nil || len(users) == 0 {
		return nil, fmt.Errorf("could not find GitLab user %q: %w", username, err)
	}
	userID := apiutil.Int(users[0], "id")

	var repos []entities.RemoteRepo
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/users/%d/projects?per_page=%d&page=%d&order_by=updated_at", base, userID, perPage, page)
		pageRepos, listErr := p.client.GetJSONList(ctx, url, p.AuthHeaders())
		if listErr != nil {
			return repos, fmt.Errorf("listing projects for %q: %w", username, listErr)
		}
		if len(pageRepos) == 0 {
			break
		}

		for _, r := range pageRepos {
			repos = append(repos, entities.RemoteRepo{
				Name:        apiutil.Str(r, "name"),
				FullName:    apiutil.Str(r, "path_with_namespace"),
				CloneURL:    apiutil.Str(r, "http_url_to_repo"),
				HTMLURL:     apiutil.Str(r, "web_url"),
				Description: apiutil.Str(r, "description"),
				Fork:        r["forked_from_project"] != nil,
				Archived:    apiutil.Bool(r, "archived"),
				Private:     apiutil.StrOr(r, "visibility", "public") != "public",
			})
		}

		if len(pageRepos) < perPage {
			break
		}
	}
	return repos, nil
}

// ListReleases pages through the project's releases. GitLab's endpoint is
// keyed by project id; without one the listing degrades to empty.
func (p *GitLabProviderRepository) ListReleases(ctx context.Context, owner, repo, domain, projectID string) ([]entities.ReleaseRecord, error) {
	if projectID == "" {
		return nil, nil
	}

	var releases []entities.ReleaseRecord
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/projects/%s/releases?per_page=%d&page=%d", p.apiBase(domain), projectID, perPage, page)
		pageReleases, err := p.client.GetJSONList(ctx, url, p.AuthHeaders())
		if err != nil {
			return releases, fmt.Errorf("listing releases for %s/%s: %w", owner, repo, err)
		}
		if len(pageReleases) == 0 {
			break
		}

		for _, r := range pageReleases {
			tag := apiutil.Str(r, "tag_name")
			rec := entities.ReleaseRecord{
				TagName:     tag,
				Name:        apiutil.StrOr(r, "name", tag),
				Body:        apiutil.Str(r, "description"),
				PublishedAt: apiutil.Str(r, "released_at"),
				// GitLab does not expose source archive URLs in the release
				// payload; they follow the instance's archive convention.
				ZipballURL: fmt.Sprintf("https://%s/%s/%s/-/archive/%s/%s-%s.zip", domain, owner, repo, tag, repo, tag),
				TarballURL: fmt.Sprintf("https://%s/%s/%s/-/archive/%s/%s-%s.tar.gz", domain, owner, repo, tag, repo, tag),
			}
			if assets := apiutil.Map(r, "assets"); assets != nil {
				for _, link := range apiutil.List(assets, "links") {
					rec.Assets = append(rec.Assets, entities.AssetRecord{
						Name:        apiutil.Str(link, "name"),
						DownloadURL: apiutil.Str(link, "url"),
					})
				}
			}
			releases = append(releases, rec)
		}

		if len(pageReleases) < perPage {
			break
		}
	}
	return releases, nil
}
