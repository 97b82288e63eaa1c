package archive

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
)

const identifierTimeLayout = "20060102150405"

// Identifier derives the deterministic item identifier from the owner, the
// repository name, and a timestamp (second precision). It is a pure
// function: identical inputs always produce the identical string.
func Identifier(owner, name string, ts time.Time) string {
	return fmt.Sprintf("%s-%s-%s", owner, name, ts.Format(identifierTimeLayout))
}

// IdentifierTime picks the timestamp feeding the identifier: the first
// commit date when the history has one, otherwise the archive time.
func IdentifierTime(repo *entities.Repository, archivedAt time.Time) time.Time {
	if repo.TotalCommits > 0 && !repo.FirstCommitDate.IsZero() {
		return repo.FirstCommitDate
	}
	return archivedAt
}

// Report is the outcome of one upload run. A partially uploaded item (info
// batch written, content batch failing) is surfaced, never swallowed.
type Report struct {
	Identifier      string
	AlreadyArchived bool
	InfoUploaded    bool
	ContentUploaded int
	Failed          []string // upload keys that exhausted their retries
}

// Err returns the terminal error of the run, if any.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("upload incomplete: %d file(s) failed (info uploaded: %v)", len(r.Failed), r.InfoUploaded)
}

// Uploader drives the idempotent upload against the item store.
type Uploader struct {
	items domainRepos.ItemRepository
}

// NewUploader creates an Uploader over the given item store.
func NewUploader(items domainRepos.ItemRepository) *Uploader {
	return &Uploader{items: items}
}

// Run checks for a prior archive under the manifest's identifier and, when
// absent, uploads the info batch (bundle plus info document, carrying the
// item metadata) followed by the content batch; the final upload queues the
// item derive. The existence check is the
// idempotency guarantee; it is check-then-act and two concurrent runs with
// the same identifier can race past it.
func (u *Uploader) Run(ctx context.Context, manifest *entities.UploadManifest, infoKeys []string) (*Report, error) {
	report := &Report{Identifier: manifest.Identifier}

	exists, err := u.items.Exists(ctx, manifest.Identifier)
	if err != nil {
		return report, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		report.AlreadyArchived = true
		logger.Infof("This repository version already exists: https://archive.org/details/%s", manifest.Identifier)
		return report, nil
	}

	info := map[string]bool{}
	for _, key := range infoKeys {
		info[key] = true
	}
	last := lastKey(manifest.Files, info)

	// Info batch first; the item metadata rides on its first file.
	metadata := manifest.Metadata
	for _, key := range sortedKeys(manifest.Files) {
		if !info[key] {
			continue
		}
		if uploadErr := u.items.Upload(ctx, manifest.Identifier, key, manifest.Files[key], metadata, key == last); uploadErr != nil {
			report.Failed = append(report.Failed, key)
			logger.Errorf("Failed to upload %q: %v", key, uploadErr)
			continue
		}
		metadata = nil
		report.InfoUploaded = true
	}
	if !report.InfoUploaded && len(info) > 0 {
		return report, report.Err()
	}

	// Content batch.
	for _, key := range sortedKeys(manifest.Files) {
		if info[key] {
			continue
		}
		if uploadErr := u.items.Upload(ctx, manifest.Identifier, key, manifest.Files[key], nil, key == last); uploadErr != nil {
			report.Failed = append(report.Failed, key)
			logger.Errorf("Failed to upload %q: %v", key, uploadErr)
			continue
		}
		report.ContentUploaded++
	}

	return report, report.Err()
}

// lastKey returns the key uploaded last: the final content key in sort
// order, or the final info key when the run carries no content batch. The
// derive task queues on that upload so it sees the complete item.
func lastKey(files map[string]string, info map[string]bool) string {
	var lastInfo, lastContent string
	for _, key := range sortedKeys(files) {
		if info[key] {
			lastInfo = key
		} else {
			lastContent = key
		}
	}
	if lastContent != "" {
		return lastContent
	}
	return lastInfo
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// BuildManifest assembles the full item metadata from the descriptor, the
// computed identifier, and the caller's custom key:value pairs, which are
// applied last so they win on conflict.
func BuildManifest(
	repo *entities.Repository,
	identifier, description string,
	files map[string]string,
	archivedAt time.Time,
	custom map[string]string,
) *entities.UploadManifest {
	meta := repo.Metadata
	date := IdentifierTime(repo, archivedAt)
	title := fmt.Sprintf("%s - %s", repo.Owner, repo.Name)

	subjects := []string{"git", "code", repo.GitSite, "repository", "repo", repo.Owner, repo.Name}
	if meta.Language != "" {
		subjects = append(subjects, meta.Language)
	}
	subjects = append(subjects, meta.Topics...)

	metadata := map[string]string{
		"title":        title,
		"mediatype":    "software",
		"collection":   "opensource_media",
		"description":  description,
		"creator":      repo.Owner,
		"date":         date.Format("2006-01-02"),
		"year":         strconv.Itoa(date.Year()),
		"subject":      strings.Join(subjects, ";"),
		"repourl":      repo.URL,
		"repoowner":    repo.Owner,
		"gitsite":      repo.GitSite,
		"language":     orUnknown(meta.Language),
		"identifier":   identifier,
		"scanner":      fmt.Sprintf("iagitbetter Git Repository Mirroring Application %s", Version),
		"totalcommits": strconv.Itoa(repo.TotalCommits),
	}

	if url := LicenseURL(meta.License); url != "" {
		metadata["licenseurl"] = url
	}
	if meta.License != "" {
		metadata["license"] = meta.License
	}
	if meta.Homepage != "" {
		metadata["homepage"] = meta.Homepage
	}
	if repo.DefaultBranch != "" {
		metadata["defaultbranch"] = repo.DefaultBranch
	}
	if len(repo.Branches) > 1 {
		metadata["branches"] = strconv.Itoa(len(repo.Branches))
		metadata["branchlist"] = strings.Join(repo.Branches, ";")
	} else if len(repo.Branches) == 1 {
		metadata["branch"] = repo.Branches[0]
	}
	if repo.DownloadedReleases > 0 {
		metadata["releases"] = strconv.Itoa(repo.DownloadedReleases)
	}
	if meta.Stars > 0 {
		metadata["stars"] = strconv.Itoa(meta.Stars)
	}
	if meta.Forks > 0 {
		metadata["forks"] = strconv.Itoa(meta.Forks)
	}

	// Caller-supplied overrides win on conflict.
	for key, value := range custom {
		metadata[key] = value
	}

	return &entities.UploadManifest{
		Identifier: identifier,
		Title:      title,
		Metadata:   metadata,
		Files:      files,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
