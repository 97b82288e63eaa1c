package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/config"
	"github.com/Andres9890/iagitbetter/internal/archive"
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/files"
	"github.com/Andres9890/iagitbetter/internal/gitsnap"
	infraRepos "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/github"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/ia"
	"github.com/Andres9890/iagitbetter/internal/metadata"
	"github.com/Andres9890/iagitbetter/internal/release"
)

// Archive is the interface for the archival pipeline.
type Archive interface {
	Execute(ctx context.Context, opts ArchiveOptions) error
}

// ArchiveOptions holds the runtime options of one archival run.
type ArchiveOptions struct {
	RepoURL       string
	Metadata      string // custom metadata, "key:value,key:value"
	ProviderType  string // explicit provider override, wins over domain inference
	APIURL        string
	APIToken      string
	APIUsername   string
	Branch        string // single-branch restriction
	AllBranches   bool
	Releases      bool
	AllReleases   bool
	ReleasesCount int
	BundleOnly    bool
	NoInfoFile    bool
	ConfigPath    string
}

// ItemRepositoryFactory builds an item store client from credentials. It is
// injected so tests can substitute a stub store.
type ItemRepositoryFactory func(creds ia.Credentials) domainRepos.ItemRepository

// ArchiveCommand runs the full pipeline: metadata normalization, snapshot,
// releases, file collection, packaging, and the idempotent upload.
type ArchiveCommand struct {
	registry   *infraRepos.ProviderRegistry
	normalizer *metadata.Normalizer
	releases   *release.Collector
	itemsFor   ItemRepositoryFactory
}

// NewArchiveCommand creates an ArchiveCommand with its collaborators.
func NewArchiveCommand(
	registry *infraRepos.ProviderRegistry,
	normalizer *metadata.Normalizer,
	releases *release.Collector,
	itemsFor ItemRepositoryFactory,
) *ArchiveCommand {
	return &ArchiveCommand{
		registry:   registry,
		normalizer: normalizer,
		releases:   releases,
		itemsFor:   itemsFor,
	}
}

// Execute runs one archival. Only clone and final-upload failures are
// returned; everything else degrades with a logged diagnostic.
func (it *ArchiveCommand) Execute(ctx context.Context, opts ArchiveOptions) error {
	cfg := loadConfig(opts.ConfigPath)

	repo, err := ParseRepoURL(opts.RepoURL)
	if err != nil {
		return err
	}

	creds := domainRepos.Credentials{
		Token:    opts.APIToken,
		Username: opts.APIUsername,
		APIURL:   opts.APIURL,
	}

	provider := it.resolveProvider(repo, opts.ProviderType, cfg, &creds)
	repo.GitSite = it.registry.SiteName(repo.Domain, opts.ProviderType)

	logger.Infof("Analyzing repository: %s", repo.URL)
	logger.Infof("   Repository: %s", repo.FullName)
	logger.Infof("   Git Provider: %s", repo.GitSite)

	it.normalizer.Fetch(ctx, repo, provider)
	it.fetchGistComments(ctx, repo, provider)

	workRoot, err := os.MkdirTemp("", "iagitbetter_")
	if err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}
	defer gitsnap.Cleanup(workRoot)

	workDir := filepath.Join(workRoot, repo.Name)
	cloneURL := repo.URL
	if repo.Metadata.CloneURL != "" {
		cloneURL = repo.Metadata.CloneURL
	}

	logger.Infof("Cloning repository from %s...", cloneURL)
	snap, err := gitsnap.Clone(ctx, cloneURL, workDir, gitsnap.CloneOptions{
		Branch:      opts.Branch,
		AllBranches: opts.AllBranches,
	})
	if err != nil {
		return err
	}

	repo.DefaultBranch = snap.DefaultBranch
	if repo.DefaultBranch == "" {
		repo.DefaultBranch = repo.Metadata.DefaultBranch
	}

	snap.Summarize(repo)
	logger.Infof("   %d commit(s), last at %s", repo.TotalCommits, repo.LastCommitDate.Format("2006-01-02"))

	if opts.AllBranches {
		snap.MaterializeBranches(repo)
	} else if repo.DefaultBranch != "" {
		repo.Branches = []string{repo.DefaultBranch}
	}

	if opts.Releases || opts.AllReleases || opts.ReleasesCount > 0 {
		it.releases.Collect(ctx, repo, provider, workDir, release.Selection{
			All:   opts.AllReleases,
			Count: opts.ReleasesCount,
		})
	}

	archivedAt := time.Now()
	identifier := archive.Identifier(repo.Owner, repo.Name, archive.IdentifierTime(repo, archivedAt))

	bundlePath, err := snap.Bundle(ctx, repo.Owner, repo.Name)
	if err != nil {
		return err
	}

	uploadFiles := map[string]string{
		filepath.Base(bundlePath): bundlePath,
	}
	infoKeys := []string{filepath.Base(bundlePath)}

	if !opts.NoInfoFile {
		infoPath, infoErr := archive.WriteInfoDocument(repo, workDir, archivedAt)
		if infoErr != nil {
			logger.Warnf("Could not write info document: %v", infoErr)
		} else {
			uploadFiles[filepath.Base(infoPath)] = infoPath
			infoKeys = append(infoKeys, filepath.Base(infoPath))
		}
	}

	if !opts.BundleOnly {
		collected, collectErr := files.Collect(workDir)
		if collectErr != nil {
			return fmt.Errorf("collecting files: %w", collectErr)
		}
		repo.SkippedFiles = collected.Skipped
		for key, rename := range collected.Renames {
			logger.Debugf("Renamed %s -> %s", key, rename)
		}
		for key, path := range collected.Files {
			if _, taken := uploadFiles[key]; !taken {
				uploadFiles[key] = path
			}
		}
		if collected.Skipped.Total() > 0 {
			logger.Infof("Skipped %d file(s): %d empty, %d corrupted, %d unreadable",
				collected.Skipped.Total(), collected.Skipped.Empty,
				collected.Skipped.Corrupted, collected.Skipped.Unreadable)
		}
	}

	custom := ParseCustomMetadata(opts.Metadata)
	description := archive.BuildDescription(repo, workDir, identifier, archivedAt)
	manifest := archive.BuildManifest(repo, identifier, description, uploadFiles, archivedAt, custom)
	if cfg != nil && cfg.Collection != "" && custom["collection"] == "" {
		manifest.Metadata["collection"] = cfg.Collection
	}

	logger.Infof("Uploading to Internet Archive")
	logger.Infof("   Identifier: %s", manifest.Identifier)
	logger.Infof("   Title: %s", manifest.Title)

	uploader := archive.NewUploader(it.itemsFor(iaCredentials(cfg)))
	report, err := uploader.Run(ctx, manifest, infoKeys)
	if err != nil {
		return err
	}
	if report.AlreadyArchived {
		return nil
	}

	logger.Infof("Upload completed successfully")
	logger.Infof("   Archive URL: https://archive.org/details/%s", manifest.Identifier)
	logger.Infof("   Bundle download: https://archive.org/download/%s/%s", manifest.Identifier, filepath.Base(bundlePath))
	return nil
}

func (it *ArchiveCommand) resolveProvider(
	repo *entities.Repository,
	explicitType string,
	cfg *config.Config,
	creds *domainRepos.Credentials,
) domainRepos.ProviderRepository {
	name := explicitType
	if name == "" {
		name = it.registry.SiteName(repo.Domain, "")
	}
	if creds.Token == "" && cfg != nil {
		creds.Token = cfg.ProviderToken(name)
	}

	if explicitType != "" {
		if provider := it.registry.ByName(explicitType, *creds); provider != nil {
			return provider
		}
		logger.Warnf("Unknown provider type %q, falling back to domain detection", explicitType)
	}
	return it.registry.ByDomain(repo.Domain, *creds)
}

func (it *ArchiveCommand) fetchGistComments(ctx context.Context, repo *entities.Repository, provider domainRepos.ProviderRepository) {
	gist, ok := provider.(*github.GistProviderRepository)
	if !ok {
		return
	}
	comments, err := gist.FetchComments(ctx, repo.Name)
	if err != nil {
		logger.Warnf("Could not fetch gist comments: %v", err)
		return
	}
	repo.Metadata.GistComments = comments
}

func loadConfig(path string) *config.Config {
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			return nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warnf("Could not load config %q: %v", path, err)
		return nil
	}
	return cfg
}

func iaCredentials(cfg *config.Config) ia.Credentials {
	creds := ia.Credentials{
		AccessKey: os.Getenv("IA_ACCESS_KEY"),
		SecretKey: os.Getenv("IA_SECRET_KEY"),
	}
	if cfg != nil {
		if cfg.Archive.AccessKey != "" {
			creds.AccessKey = cfg.Archive.AccessKey
		}
		if cfg.Archive.SecretKey != "" {
			creds.SecretKey = cfg.Archive.SecretKey
		}
	}
	return creds
}

// ParseRepoURL extracts the identity fields of the descriptor from a
// repository URL. Unusual single-segment paths degrade to an "unknown"
// owner rather than failing.
func ParseRepoURL(rawURL string) (*entities.Repository, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid repository URL %q", rawURL)
	}

	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	repo := &entities.Repository{URL: rawURL, Domain: domain}
	switch {
	case len(parts) >= 2 && parts[0] != "":
		repo.Owner = parts[0]
		repo.Name = strings.TrimSuffix(parts[1], ".git")
	case len(parts) == 1 && parts[0] != "":
		repo.Owner = "unknown"
		repo.Name = strings.TrimSuffix(parts[0], ".git")
	default:
		return nil, fmt.Errorf("cannot extract owner/repo from URL %q", rawURL)
	}
	repo.FullName = repo.Owner + "/" + repo.Name
	return repo, nil
}

// ParseCustomMetadata parses the --metadata flag format
// ("key1:value1,key2:value2") into a map. Malformed items are skipped.
func ParseCustomMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	custom := map[string]string{}
	for _, item := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(item, ":")
		if !found {
			continue
		}
		custom[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return custom
}
