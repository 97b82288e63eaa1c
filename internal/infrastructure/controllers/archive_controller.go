package controllers

import (
	"context"
	"os"
	"os/signal"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Andres9890/iagitbetter/internal/domain/commands"
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

// ArchiveController handles the root command with a repository URL argument.
type ArchiveController struct {
	command commands.Archive
}

// NewArchiveController creates a new ArchiveController.
func NewArchiveController(command commands.Archive) *ArchiveController {
	return &ArchiveController{command: command}
}

// GetBind returns the Cobra command metadata for the archive controller.
func (it *ArchiveController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "iagit <git-url>",
		Short: "Archive a git repository to the Internet Archive",
		Long: `Archive any git repository to the Internet Archive.

Clones the repository, collects provider metadata, optionally downloads
branches and releases, and uploads everything (full file tree plus a git
bundle) as an immutable archive.org item.`,
	}
}

// Execute runs one archival. An interrupt cancels the run and lets the
// pipeline's deferred cleanup remove the workspace.
func (it *ArchiveController) Execute(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := it.command.Execute(ctx, archiveOptionsFromFlags(cmd, args[0])); err != nil {
		logger.Errorf("Archival failed: %v", err)
		os.Exit(1)
	}
}

// AddFlags adds the archive flags to the given Cobra command.
func (it *ArchiveController) AddFlags(cmd *cobra.Command) {
	addArchiveFlags(cmd)
}

// archiveOptionsFromFlags reads the shared archive flags. Quiet mode is a
// side effect here so both single and batch modes honor it.
func archiveOptionsFromFlags(cmd *cobra.Command, repoURL string) commands.ArchiveOptions {
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		logger.SetLevel(logger.ErrorLevel)
	}

	metadata, _ := cmd.Flags().GetString("metadata")
	providerType, _ := cmd.Flags().GetString("git-provider")
	apiURL, _ := cmd.Flags().GetString("api-url")
	apiToken, _ := cmd.Flags().GetString("api-token")
	apiUsername, _ := cmd.Flags().GetString("api-username")
	branch, _ := cmd.Flags().GetString("branch")
	allBranches, _ := cmd.Flags().GetBool("all-branches")
	releases, _ := cmd.Flags().GetBool("releases")
	allReleases, _ := cmd.Flags().GetBool("all-releases")
	releasesCount, _ := cmd.Flags().GetInt("releases-count")
	bundleOnly, _ := cmd.Flags().GetBool("bundle-only")
	noInfoFile, _ := cmd.Flags().GetBool("no-info-file")
	configPath, _ := cmd.Flags().GetString("config")

	return commands.ArchiveOptions{
		RepoURL:       repoURL,
		Metadata:      metadata,
		ProviderType:  providerType,
		APIURL:        apiURL,
		APIToken:      apiToken,
		APIUsername:   apiUsername,
		Branch:        branch,
		AllBranches:   allBranches,
		Releases:      releases,
		AllReleases:   allReleases,
		ReleasesCount: releasesCount,
		BundleOnly:    bundleOnly,
		NoInfoFile:    noInfoFile,
		ConfigPath:    configPath,
	}
}

// addArchiveFlags defines the flags shared by the root and user commands.
func addArchiveFlags(cmd *cobra.Command) {
	cmd.Flags().String("metadata", "",
		"Custom metadata as key1:value1,key2:value2")
	cmd.Flags().BoolP("quiet", "q", false,
		"Only print errors")
	cmd.Flags().String("git-provider", "",
		"Force a provider type instead of inferring it from the domain")
	cmd.Flags().String("api-url", "",
		"Custom API base URL for self-hosted instances")
	cmd.Flags().String("api-token", "",
		"API token for private repositories and rate limits")
	cmd.Flags().String("api-username", "",
		"API username (required by Bitbucket app passwords)")
	cmd.Flags().String("branch", "",
		"Archive only this branch")
	cmd.Flags().Bool("all-branches", false,
		"Materialize every remote branch under branches/")
	cmd.Flags().Bool("releases", false,
		"Download the latest release")
	cmd.Flags().Bool("all-releases", false,
		"Download every release")
	cmd.Flags().Int("releases-count", 0,
		"Download the N latest releases")
	cmd.Flags().Bool("bundle-only", false,
		"Upload only the git bundle (plus the info document)")
	cmd.Flags().Bool("no-info-file", false,
		"Skip the repository info JSON document")
	cmd.Flags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.MarkFlagsMutuallyExclusive("branch", "all-branches")
}
