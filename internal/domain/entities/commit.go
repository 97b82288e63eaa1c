package entities

import (
	"time"
)

// CommitRecord is a read-only snapshot of a single commit, taken from the
// most recent commits of the cloned repository.
type CommitRecord struct {
	SHA           string    `json:"sha"`
	Author        string    `json:"author"`
	AuthorEmail   string    `json:"author_email"`
	AuthorDate    time.Time `json:"author_date"`
	Committer     string    `json:"committer"`
	CommitterDate time.Time `json:"committer_date"`
	Message       string    `json:"message"`
	Parents       []string  `json:"parents"`
	FilesChanged  int       `json:"files_changed"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	WebURL        string    `json:"web_url,omitempty"`
}
