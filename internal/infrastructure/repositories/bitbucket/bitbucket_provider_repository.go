package bitbucket

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const (
	providerName = "bitbucket"
	apiBase      = "https://api.bitbucket.org/2.0"
)

// BitbucketProviderRepository implements repositories.ProviderRepository for
// bitbucket.org. App passwords authenticate with basic auth (username +
// token); a bare token is sent as a bearer OAuth token. Listings follow
// Bitbucket's `next` page links instead of page numbers.
type BitbucketProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewProviderRepository creates a Bitbucket provider with the given credentials.
func NewProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &BitbucketProviderRepository{creds: creds, client: client}
}

func (p *BitbucketProviderRepository) Name() string { return providerName }

func (p *BitbucketProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Username != "" && p.creds.Token != "" {
		basic := base64.StdEncoding.EncodeToString([]byte(p.creds.Username + ":" + p.creds.Token))
		return map[string]string{"Authorization": "Basic " + basic}
	}
	if p.creds.Token != "" {
		return map[string]string{"Authorization": "Bearer " + p.creds.Token}
	}
	return map[string]string{}
}

func (p *BitbucketProviderRepository) MetadataURL(owner, repo, _ string) string {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}
	return fmt.Sprintf("%s/repositories/%s/%s", base, owner, repo)
}

func (p *BitbucketProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description: apiutil.Str(raw, "description"),
		CreatedAt:   apiutil.Str(raw, "created_on"),
		UpdatedAt:   apiutil.Str(raw, "updated_on"),
		Language:    apiutil.Str(raw, "language"),
		Private:     apiutil.Bool(raw, "is_private"),
		Fork:        raw["parent"] != nil,
		Size:        apiutil.Int(raw, "size"),
		Homepage:    apiutil.Str(raw, "website"),
	}
	if mainbranch := apiutil.Map(raw, "mainbranch"); mainbranch != nil {
		meta.DefaultBranch = apiutil.StrOr(mainbranch, "name", "main")
	} else {
		meta.DefaultBranch = "main"
	}
	if links := apiutil.Map(raw, "links"); links != nil {
		if clones := apiutil.List(links, "clone"); len(clones) > 0 {
			meta.CloneURL = apiutil.Str(clones[0], "href")
		}
		if html := apiutil.Map(links, "html"); html != nil {
			meta.HTMLURL = apiutil.Str(html, "href")
		}
	}
	if owner := apiutil.Map(raw, "owner"); owner != nil {
		if ownerLinks := apiutil.Map(owner, "links"); ownerLinks != nil {
			if avatar := apiutil.Map(ownerLinks, "avatar"); avatar != nil {
				meta.AvatarURL = apiutil.Str(avatar, "href")
			}
		}
	}
	return meta
}

// ListUserRepos lists all repositories of a user or workspace, following the
// API's next-page links.
func (p *BitbucketProviderRepository) ListUserRepos(ctx context.Context, username, _ string) ([]entities.RemoteRepo, error) {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}

	var repos []entities.RemoteRepo
	url := fmt.Sprintf("%s/repositories/%s", base, username)
	for url != "" {
		page, err := p.client.GetJSON(ctx, url, p.AuthHeaders())
		if err != nil {
			return repos, fmt.Errorf("listing repos for %q: %w", username, err)
		}

		for _, r := range apiutil.List(page, "values") {
			repo := entities.RemoteRepo{
				Name:        apiutil.Str(r, "name"),
				FullName:    apiutil.Str(r, "full_name"),
				Description: apiutil.Str(r, "description"),
				Fork:        r["parent"] != nil,
				Private:     apiutil.Bool(r, "is_private"),
			}
			if links := apiutil.Map(r, "links"); links != nil {
				for _, clone := range apiutil.List(links, "clone") {
					if apiutil.Str(clone, "name") == "https" {
						repo.CloneURL = apiutil.Str(clone, "href")
						break
					}
				}
				if html := apiutil.Map(links, "html"); html != nil {
					repo.HTMLURL = apiutil.Str(html, "href")
				}
			}
			repos = append(repos, repo)
		}

		url = apiutil.Str(page, "next")
	}
	return repos, nil
}

// ListReleases returns an empty list: Bitbucket has no release concept in
// its 2.0 API, only downloads.
func (p *BitbucketProviderRepository) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}
