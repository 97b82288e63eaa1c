package metadata

import (
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

// shapeParser pairs a predicate over the raw response's key set with the
// parser to run when it matches. The chain is evaluated top to bottom; the
// first match wins and the tail is the generic extractor, which always
// matches.
type shapeParser struct {
	name    string
	matches func(raw map[string]any) bool
	parse   func(raw map[string]any) entities.RepoMetadata
}

var sniffChain = []shapeParser{
	{
		name: "github-like",
		matches: func(raw map[string]any) bool {
			return has(raw, "forks_count") && has(raw, "clone_url")
		},
		parse: parseGitHubLike,
	},
	{
		name: "gitlab-like",
		matches: func(raw map[string]any) bool {
			return has(raw, "star_count") && has(raw, "path_with_namespace")
		},
		parse: parseGitLabLike,
	},
	{
		name: "bitbucket-like",
		matches: func(raw map[string]any) bool {
			return has(raw, "scm")
		},
		parse: parseBitbucketLike,
	},
	{
		name: "gitea-like",
		matches: func(raw map[string]any) bool {
			return has(raw, "stars_count")
		},
		parse: parseGiteaLike,
	},
	{
		name:    "generic",
		matches: func(map[string]any) bool { return true },
		parse:   parseGeneric,
	},
}

func has(raw map[string]any, key string) bool {
	_, ok := raw[key]
	return ok
}

// sniff runs the shape chain and returns the parsed metadata together with
// the name of the schema that matched.
func sniff(raw map[string]any) (entities.RepoMetadata, string) {
	for _, candidate := range sniffChain {
		if candidate.matches(raw) {
			return candidate.parse(raw), candidate.name
		}
	}
	// Unreachable: the generic parser always matches.
	return entities.RepoMetadata{}, "generic"
}

func parseGitHubLike(raw map[string]any) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		UpdatedAt:     apiutil.Str(raw, "updated_at"),
		PushedAt:      apiutil.Str(raw, "pushed_at"),
		Language:      apiutil.Str(raw, "language"),
		Stars:         apiutil.Int(raw, "stargazers_count"),
		Forks:         apiutil.Int(raw, "forks_count"),
		Homepage:      apiutil.Str(raw, "homepage"),
		Topics:        apiutil.StrList(raw, "topics"),
		Archived:      apiutil.Bool(raw, "archived"),
		Private:       apiutil.Bool(raw, "private"),
		Fork:          apiutil.Bool(raw, "fork"),
		CloneURL:      apiutil.Str(raw, "clone_url"),
		HTMLURL:       apiutil.Str(raw, "html_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "main"),
	}
	if license := apiutil.Map(raw, "license"); license != nil {
		meta.License = apiutil.Str(license, "name")
	}
	return meta
}

func parseGitLabLike(raw map[string]any) entities.RepoMetadata {
	return entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		PushedAt:      apiutil.Str(raw, "last_activity_at"),
		Stars:         apiutil.Int(raw, "star_count"),
		Forks:         apiutil.Int(raw, "forks_count"),
		Topics:        apiutil.StrList(raw, "topics"),
		Archived:      apiutil.Bool(raw, "archived"),
		Private:       apiutil.StrOr(raw, "visibility", "public") != "public",
		Fork:          raw["forked_from_project"] != nil,
		CloneURL:      apiutil.Str(raw, "http_url_to_repo"),
		HTMLURL:       apiutil.Str(raw, "web_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "main"),
	}
}

func parseBitbucketLike(raw map[string]any) entities.RepoMetadata {
	meta := entities.RepoMetadata{
		Description: apiutil.Str(raw, "description"),
		CreatedAt:   apiutil.Str(raw, "created_on"),
		UpdatedAt:   apiutil.Str(raw, "updated_on"),
		Language:    apiutil.Str(raw, "language"),
		Private:     apiutil.Bool(raw, "is_private"),
		Fork:        raw["parent"] != nil,
		Homepage:    apiutil.Str(raw, "website"),
	}
	if mainbranch := apiutil.Map(raw, "mainbranch"); mainbranch != nil {
		meta.DefaultBranch = apiutil.StrOr(mainbranch, "name", "main")
	}
	return meta
}

func parseGiteaLike(raw map[string]any) entities.RepoMetadata {
	return entities.RepoMetadata{
		Description:   apiutil.Str(raw, "description"),
		CreatedAt:     apiutil.Str(raw, "created_at"),
		UpdatedAt:     apiutil.Str(raw, "updated_at"),
		Stars:         apiutil.Int(raw, "stars_count"),
		Forks:         apiutil.Int(raw, "forks_count"),
		Homepage:      apiutil.Str(raw, "website"),
		Archived:      apiutil.Bool(raw, "archived"),
		Private:       apiutil.Bool(raw, "private"),
		Fork:          apiutil.Bool(raw, "fork"),
		CloneURL:      apiutil.Str(raw, "clone_url"),
		HTMLURL:       apiutil.Str(raw, "html_url"),
		DefaultBranch: apiutil.StrOr(raw, "default_branch", "master"),
	}
}

// parseGeneric extracts only the lowest-common-denominator fields, trying
// the alternate key names seen across self-hosted forges.
func parseGeneric(raw map[string]any) entities.RepoMetadata {
	description := apiutil.StrOr(raw, "description", apiutil.Str(raw, "desc"))
	branch := apiutil.StrOr(raw, "default_branch", apiutil.Str(raw, "defaultBranch"))
	return entities.RepoMetadata{
		Description:   description,
		Private:       apiutil.Bool(raw, "private"),
		Fork:          apiutil.Bool(raw, "fork"),
		Archived:      apiutil.Bool(raw, "archived"),
		DefaultBranch: branch,
	}
}
