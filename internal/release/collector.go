// Package release lists, selects, and downloads repository releases into the
// releases/ subtree of the workspace.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/gitsnap"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
)

// Selection is the release download policy.
type Selection struct {
	All   bool
	Count int // first N non-draft releases; 0 means the single newest
}

// Collector downloads selected releases of a repository.
type Collector struct {
	client *httpapi.Client
}

// NewCollector creates a Collector backed by the shared HTTP client.
func NewCollector(client *httpapi.Client) *Collector {
	return &Collector{client: client}
}

// Collect lists the repository's releases through the provider, applies the
// selection policy, and downloads each selected release under
// <workDir>/releases/<tag>/. Download failures are logged, not fatal; the
// descriptor's counters and release list are updated in place.
func (c *Collector) Collect(
	ctx context.Context,
	repo *entities.Repository,
	provider domainRepos.ProviderRepository,
	workDir string,
	sel Selection,
) {
	if provider == nil {
		logger.Info("No provider resolved, skipping releases")
		return
	}

	releases, err := provider.ListReleases(ctx, repo.Owner, repo.Name, repo.Domain, repo.Metadata.ProjectID)
	if err != nil {
		logger.Warnf("Could not list releases: %v", err)
	}
	if len(releases) == 0 {
		logger.Info("No releases found")
		return
	}
	repo.Releases = releases

	selected := Select(releases, sel)
	logger.Infof("Downloading %d of %d release(s)", len(selected), len(releases))

	for _, rel := range selected {
		c.downloadOne(ctx, repo, provider, workDir, rel)
	}
}

// Select applies the selection policy. Drafts are never selected. Releases
// are assumed newest-first; when no selected candidate carries a publish
// timestamp the tags are reordered descending by semantic version.
func Select(releases []entities.ReleaseRecord, sel Selection) []entities.ReleaseRecord {
	published := make([]entities.ReleaseRecord, 0, len(releases))
	for _, rel := range releases {
		if !rel.Draft {
			published = append(published, rel)
		}
	}
	if len(published) == 0 {
		return nil
	}

	if allTimestampsMissing(published) {
		sort.SliceStable(published, func(i, j int) bool {
			return semver.Compare(normalizeTag(published[i].TagName), normalizeTag(published[j].TagName)) > 0
		})
	}

	switch {
	case sel.All:
		return published
	case sel.Count > 0:
		if sel.Count < len(published) {
			return published[:sel.Count]
		}
		return published
	default:
		return published[:1]
	}
}

func allTimestampsMissing(releases []entities.ReleaseRecord) bool {
	for _, rel := range releases {
		if rel.PublishedAt != "" {
			return false
		}
	}
	return true
}

func normalizeTag(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}

func (c *Collector) downloadOne(
	ctx context.Context,
	repo *entities.Repository,
	provider domainRepos.ProviderRepository,
	workDir string,
	rel entities.ReleaseRecord,
) {
	dir := filepath.Join(workDir, gitsnap.ReleasesDir, gitsnap.SanitizeBranchName(rel.TagName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warnf("Could not create release directory for %q: %v", rel.TagName, err)
		return
	}

	if err := writeReleaseInfo(dir, rel); err != nil {
		logger.Warnf("Could not write release info for %q: %v", rel.TagName, err)
	}

	headers := provider.AuthHeaders()

	if rel.ZipballURL != "" {
		dest := filepath.Join(dir, fmt.Sprintf("%s-%s.zip", repo.Name, rel.TagName))
		if err := c.client.Download(ctx, rel.ZipballURL, dest, headers); err != nil {
			logger.Warnf("Could not download source zip for %q: %v", rel.TagName, err)
		}
	}
	if rel.TarballURL != "" {
		dest := filepath.Join(dir, fmt.Sprintf("%s-%s.tar.gz", repo.Name, rel.TagName))
		if err := c.client.Download(ctx, rel.TarballURL, dest, headers); err != nil {
			logger.Warnf("Could not download source tarball for %q: %v", rel.TagName, err)
		}
	}

	for _, asset := range rel.Assets {
		if asset.DownloadURL == "" {
			continue
		}
		dest := filepath.Join(dir, filepath.Base(asset.Name))
		if err := c.client.Download(ctx, asset.DownloadURL, dest, headers); err != nil {
			logger.Warnf("Could not download asset %q of %q: %v", asset.Name, rel.TagName, err)
		}
	}

	repo.DownloadedReleases++
	logger.Infof("Downloaded release %q", rel.TagName)
}

func writeReleaseInfo(dir string, rel entities.ReleaseRecord) error {
	data, err := json.MarshalIndent(rel, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "release-info.json"), data, 0o644)
}
