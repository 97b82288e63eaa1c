package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	infraRepos "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories"
)

// MirrorUser is the interface for batch-archiving every repository of a user.
type MirrorUser interface {
	Execute(ctx context.Context, opts MirrorUserOptions) error
}

// MirrorUserOptions holds the options of one batch run. Archive is the
// per-repository option template; its RepoURL is filled per repository.
type MirrorUserOptions struct {
	UserURL      string
	IncludeForks bool
	Archive      ArchiveOptions
}

// MirrorUserCommand lists a user's repositories through the provider API and
// archives each one in turn.
type MirrorUserCommand struct {
	registry *infraRepos.ProviderRegistry
	archive  Archive
}

// NewMirrorUserCommand creates a MirrorUserCommand.
func NewMirrorUserCommand(registry *infraRepos.ProviderRegistry, archive Archive) *MirrorUserCommand {
	return &MirrorUserCommand{registry: registry, archive: archive}
}

// Execute archives every listed repository. A single repository failure is
// logged and the batch continues; the error reports how many failed.
func (it *MirrorUserCommand) Execute(ctx context.Context, opts MirrorUserOptions) error {
	domain, username, err := parseUserURL(opts.UserURL)
	if err != nil {
		return err
	}

	creds := domainRepos.Credentials{
		Token:    opts.Archive.APIToken,
		Username: opts.Archive.APIUsername,
		APIURL:   opts.Archive.APIURL,
	}
	if cfg := loadConfig(opts.Archive.ConfigPath); cfg != nil && creds.Token == "" {
		creds.Token = cfg.ProviderToken(it.registry.SiteName(domain, opts.Archive.ProviderType))
	}

	provider := it.registry.ByDomain(domain, creds)
	if opts.Archive.ProviderType != "" {
		if p := it.registry.ByName(opts.Archive.ProviderType, creds); p != nil {
			provider = p
		}
	}
	if provider == nil {
		return fmt.Errorf("no provider known for domain %q, use --git-provider", domain)
	}

	repos, err := provider.ListUserRepos(ctx, username, domain)
	if err != nil {
		return fmt.Errorf("listing repositories of %s: %w", username, err)
	}
	if len(repos) == 0 {
		logger.Infof("User %s has no repositories", username)
		return nil
	}

	logger.Infof("Found %d repositories for %s", len(repos), username)

	failed := 0
	for _, remote := range repos {
		if remote.Fork && !opts.IncludeForks {
			logger.Infof("Skipping fork %s", remote.FullName)
			continue
		}
		repoURL := remote.HTMLURL
		if repoURL == "" {
			repoURL = remote.CloneURL
		}
		if repoURL == "" {
			logger.Warnf("No URL for %s, skipping", remote.FullName)
			continue
		}

		repoOpts := opts.Archive
		repoOpts.RepoURL = repoURL
		logger.Infof("Archiving %s", remote.FullName)
		if archiveErr := it.archive.Execute(ctx, repoOpts); archiveErr != nil {
			logger.Errorf("Failed to archive %s: %v", remote.FullName, archiveErr)
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed to archive", failed, len(repos))
	}
	return nil
}

// parseUserURL extracts the domain and username from a user profile URL
// such as https://github.com/torvalds.
func parseUserURL(rawURL string) (domain, username string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", "", fmt.Errorf("invalid user URL %q", rawURL)
	}

	domain = strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", fmt.Errorf("cannot extract username from URL %q", rawURL)
	}
	return domain, parts[0], nil
}
