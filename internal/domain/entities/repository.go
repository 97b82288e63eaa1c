package entities

import (
	"time"
)

// Repository is the canonical descriptor of one repository being archived.
// It is built incrementally by the pipeline: URL parsing fills the identity
// fields, the metadata normalizer fills the provider fields, and the
// snapshotter fills the commit summary. Once the upload starts only the
// counters (DownloadedReleases, SkippedFiles) change.
type Repository struct {
	URL      string
	Domain   string
	GitSite  string // provider name used in subject tags, e.g. "github"
	Owner    string
	Name     string
	FullName string

	DefaultBranch string
	Branches      []string

	FirstCommitDate time.Time
	LastCommitDate  time.Time
	TotalCommits    int
	LatestCommits   []CommitRecord

	Metadata RepoMetadata

	Releases           []ReleaseRecord
	DownloadedReleases int
	SkippedFiles       SkipSummary
}

// RepoMetadata holds the provider-derived fields of a repository. Every field
// is best-effort: a failed or unparseable metadata call leaves the zero value.
type RepoMetadata struct {
	Description string
	CreatedAt   string
	UpdatedAt   string
	PushedAt    string
	Language    string
	Stars       int
	Forks       int
	Watchers    int
	OpenIssues  int
	Homepage    string
	Topics      []string
	License     string
	Archived    bool
	Private     bool
	Fork        bool
	Size        int
	CloneURL    string
	SSHURL      string
	HTMLURL     string
	AvatarURL   string

	// DefaultBranch as reported by the API; the snapshotter's observation of
	// HEAD wins when both are present.
	DefaultBranch string

	// ProjectID is required by GitLab's release endpoint.
	ProjectID string

	// Gist-only fields.
	GistFiles    []string
	GistComments []GistComment
}

// SkipSummary counts files excluded by the validator, per reason.
type SkipSummary struct {
	Empty      int
	Corrupted  int
	Unreadable int
}

// Total returns the number of excluded files across all reasons.
func (s SkipSummary) Total() int {
	return s.Empty + s.Corrupted + s.Unreadable
}

// RemoteRepo is one entry of a provider's user/org repository listing.
type RemoteRepo struct {
	Name        string
	FullName    string
	CloneURL    string
	HTMLURL     string
	Description string
	Fork        bool
	Archived    bool
	Private     bool
}

// GistComment is a single comment on a GitHub gist.
type GistComment struct {
	ID        int64  `json:"id"`
	User      string `json:"user"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
