package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

const gistProviderName = "gist"

// GistProviderRepository implements repositories.ProviderRepository for
// gist.github.com. Gists are addressed by id rather than owner/name, so the
// metadata URL uses only the repo component.
type GistProviderRepository struct {
	creds  repositories.Credentials
	client *httpapi.Client
}

// NewGistProviderRepository creates a Gist provider with the given credentials.
func NewGistProviderRepository(client *httpapi.Client, creds repositories.Credentials) repositories.ProviderRepository {
	return &GistProviderRepository{creds: creds, client: client}
}

func (p *GistProviderRepository) Name() string { return gistProviderName }

func (p *GistProviderRepository) AuthHeaders() map[string]string {
	if p.creds.Token != "" {
		return map[string]string{"Authorization": "token " + p.creds.Token}
	}
	return map[string]string{}
}

func (p *GistProviderRepository) MetadataURL(_, repo, _ string) string {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}
	return fmt.Sprintf("%s/gists/%s", base, repo)
}

func (p *GistProviderRepository) ParseMetadata(raw map[string]any, _ string) entities.RepoMetadata {
	files := apiutil.Map(raw, "files")

	fileNames := make([]string, 0, len(files))
	languages := map[string]bool{}
	size := 0
	for name, fi := range files {
		fileNames = append(fileNames, name)
		if fm, ok := fi.(map[string]any); ok {
			if lang := apiutil.Str(fm, "language"); lang != "" {
				languages[lang] = true
			}
			size += apiutil.Int(fm, "size")
		}
	}
	sort.Strings(fileNames)

	langList := make([]string, 0, len(languages))
	for lang := range languages {
		langList = append(langList, lang)
	}
	sort.Strings(langList)

	public := true
	if _, present := raw["public"]; present {
		public = apiutil.Bool(raw, "public")
	}

	meta := entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		UpdatedAt:     apiutil.Str(raw, "updated_at"),
		PushedAt:      apiutil.Str(raw, "updated_at"),
		Language:      strings.Join(langList, ", "),
		Size:          size,
		Private:       !public,
		CloneURL:      apiutil.Str(raw, "git_pull_url"),
		SSHURL:        apiutil.Str(raw, "git_push_url"),
		HTMLURL:       apiutil.Str(raw, "html_url"),
		DefaultBranch: "master",
		GistFiles:     fileNames,
	}
	if forks, ok := raw["forks"].([]any); ok {
		meta.Forks = len(forks)
	}
	if owner := apiutil.Map(raw, "owner"); owner != nil {
		meta.AvatarURL = apiutil.Str(owner, "avatar_url")
	}
	return meta
}

func (p *GistProviderRepository) ListUserRepos(_ context.Context, _, _ string) ([]entities.RemoteRepo, error) {
	return nil, nil
}

func (p *GistProviderRepository) ListReleases(_ context.Context, _, _, _, _ string) ([]entities.ReleaseRecord, error) {
	return nil, nil
}

// FetchComments downloads all comments of a gist. Failures are reported to
// the caller; an inaccessible gist yields an empty list.
func (p *GistProviderRepository) FetchComments(ctx context.Context, gistID string) ([]entities.GistComment, error) {
	base := apiBase
	if p.creds.APIURL != "" {
		base = strings.TrimSuffix(p.creds.APIURL, "/")
	}

	headers := p.AuthHeaders()
	headers["Accept"] = "application/vnd.github.v3+json"

	raw, err := p.client.GetJSONList(ctx, fmt.Sprintf("%s/gists/%s/comments", base, gistID), headers)
	if err != nil {
		return nil, fmt.Errorf("fetching gist comments: %w", err)
	}

	comments := make([]entities.GistComment, 0, len(raw))
	for _, c := range raw {
		comment := entities.GistComment{
			ID:        apiutil.Int64(c, "id"),
			Body:      apiutil.Str(c, "body"),
			CreatedAt: apiutil.Str(c, "created_at"),
			UpdatedAt: apiutil.Str(c, "updated_at"),
		}
		if user := apiutil.Map(c, "user"); user != nil {
			comment.User = apiutil.Str(user, "login")
		}
		comments = append(comments, comment)
	}

	logger.Debugf("Fetched %d gist comment(s)", len(comments))
	return comments, nil
}
