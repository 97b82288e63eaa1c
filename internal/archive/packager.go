// Package archive builds the upload artifacts (info document, description,
// item metadata) and drives the idempotent upload.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

// Version is reported in the info document and the scanner metadata field.
const Version = "1.0.0"

const maxReleasesInInfo = 25

// infoKeyPriority fixes the head of the info document's key order so the
// critical fields come first regardless of insertion order.
var infoKeyPriority = []string{
	"url", "full_name", "owner", "repo_name", "git_site", "description",
	"default_branch", "branches", "first_commit_date", "last_commit_date",
	"total_commits", "latest_commits", "language", "stars", "forks",
	"license", "topics", "homepage",
}

// WriteInfoDocument serializes the repository descriptor into
// <workDir>/<repo>.json with priority-ordered keys, 2-space indentation,
// and the archive stamp appended at write time.
func WriteInfoDocument(repo *entities.Repository, workDir string, archivedAt time.Time) (string, error) {
	doc := infoFields(repo)
	doc = append(doc,
		kv{"archived_at", archivedAt.UTC().Format(time.RFC3339)},
		kv{"archiver_version", Version},
	)

	data, err := marshalOrdered(doc)
	if err != nil {
		return "", fmt.Errorf("encoding info document: %w", err)
	}

	path := filepath.Join(workDir, repo.Name+".json")
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return "", fmt.Errorf("writing info document: %w", writeErr)
	}
	logger.Infof("Info document written: %s", filepath.Base(path))
	return path, nil
}

type kv struct {
	key   string
	value any
}

func infoFields(repo *entities.Repository) []kv {
	meta := repo.Metadata

	fields := map[string]any{
		"url":                 repo.URL,
		"full_name":           repo.FullName,
		"owner":               repo.Owner,
		"repo_name":           repo.Name,
		"git_site":            repo.GitSite,
		"description":         meta.Description,
		"default_branch":      repo.DefaultBranch,
		"branches":            repo.Branches,
		"first_commit_date":   repo.FirstCommitDate.UTC().Format(time.RFC3339),
		"last_commit_date":    repo.LastCommitDate.UTC().Format(time.RFC3339),
		"total_commits":       repo.TotalCommits,
		"latest_commits":      repo.LatestCommits,
		"language":            meta.Language,
		"stars":               meta.Stars,
		"forks":               meta.Forks,
		"license":             meta.License,
		"topics":              meta.Topics,
		"homepage":            meta.Homepage,
		"created_at":          meta.CreatedAt,
		"updated_at":          meta.UpdatedAt,
		"pushed_at":           meta.PushedAt,
		"watchers":            meta.Watchers,
		"open_issues":         meta.OpenIssues,
		"archived":            meta.Archived,
		"private":             meta.Private,
		"fork":                meta.Fork,
		"size":                meta.Size,
		"clone_url":           meta.CloneURL,
		"html_url":            meta.HTMLURL,
		"avatar_url":          meta.AvatarURL,
		"downloaded_releases": repo.DownloadedReleases,
		"skipped_files": map[string]int{
			"empty":      repo.SkippedFiles.Empty,
			"corrupted":  repo.SkippedFiles.Corrupted,
			"unreadable": repo.SkippedFiles.Unreadable,
		},
	}
	if len(repo.Releases) > 0 {
		truncated := repo.Releases
		if len(truncated) > maxReleasesInInfo {
			truncated = truncated[:maxReleasesInInfo]
		}
		fields["releases"] = truncated
	}
	if len(meta.GistFiles) > 0 {
		fields["gist_files"] = meta.GistFiles
	}
	if len(meta.GistComments) > 0 {
		fields["gist_comments"] = meta.GistComments
	}

	ordered := make([]kv, 0, len(fields))
	for _, key := range infoKeyPriority {
		if value, ok := fields[key]; ok {
			ordered = append(ordered, kv{key, value})
			delete(fields, key)
		}
	}
	// Remaining keys keep a stable order too.
	rest := make([]string, 0, len(fields))
	for key := range fields {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		ordered = append(ordered, kv{key, fields[key]})
	}
	return ordered
}

// marshalOrdered writes a JSON object with the given key order and 2-space
// indentation; encoding/json would reorder map keys alphabetically.
func marshalOrdered(fields []kv) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, field := range fields {
		value, err := json.MarshalIndent(field.value, "  ", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "  %q: %s", field.key, value)
		if i < len(fields)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// readmeCandidates, in lookup order.
var readmeCandidates = []string{
	"README.md", "readme.md", "Readme.md", "README.MD",
	"README.txt", "readme.txt", "README", "readme",
}

const noReadmeDescription = "This git repository doesn't have a README file"

// BuildDescription assembles the item's HTML description: the provider
// description, the README, and a footer carrying the restore recipe.
// Markdown-to-HTML rendering is outside this tool; README content is
// preserved verbatim inside a pre block.
func BuildDescription(repo *entities.Repository, workDir, identifier string, archivedAt time.Time) string {
	readme := readmeHTML(workDir)

	var b strings.Builder
	if repo.Metadata.Description != "" {
		b.WriteString("<br/>")
		b.WriteString(repo.Metadata.Description)
		b.WriteString("<br/><br/>")
	}
	b.WriteString(readme)

	bundleName := fmt.Sprintf("%s-%s.bundle", repo.Owner, repo.Name)
	fmt.Fprintf(&b, `<br/><hr/>
<p><strong>Repository Information:</strong></p>
<ul>
<li>Original Repository: <a href="%s">%s</a></li>
<li>Git Provider: %s</li>
<li>Owner: %s</li>
<li>Repository Name: %s</li>
<li>Archived: %s</li>
</ul>
<p>To restore the repository download the bundle:</p>
<pre><code>wget https://archive.org/download/%s/%s</code></pre>
<p>and run:</p>
<pre><code>git clone %s</code></pre>
`,
		repo.URL, repo.URL, titleCase(repo.GitSite), repo.Owner, repo.Name,
		archivedAt.Format("2006-01-02 15:04:05"),
		identifier, bundleName, bundleName,
	)
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func readmeHTML(workDir string) string {
	for _, name := range readmeCandidates {
		path := filepath.Join(workDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(string(data))
		return "<pre>" + escaped + "</pre>"
	}
	return noReadmeDescription
}
