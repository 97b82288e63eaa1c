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

// UserController handles the "user" subcommand (batch mode over a profile).
type UserController struct {
	command commands.MirrorUser
}

// NewUserController creates a new UserController.
func NewUserController(command commands.MirrorUser) *UserController {
	return &UserController{command: command}
}

// GetBind returns the Cobra command metadata for the user controller.
func (it *UserController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "user <profile-url>",
		Short: "Archive every repository of a user",
		Long: `Archive every repository of a user or organization.

Lists the repositories through the provider API and archives each one
as its own archive.org item. Forks are skipped unless --include-forks
is given. All archive flags apply to every repository.`,
	}
}

// Execute runs the batch archival.
func (it *UserController) Execute(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	includeForks, _ := cmd.Flags().GetBool("include-forks")

	if err := it.command.Execute(ctx, commands.MirrorUserOptions{
		UserURL:      args[0],
		IncludeForks: includeForks,
		Archive:      archiveOptionsFromFlags(cmd, ""),
	}); err != nil {
		logger.Errorf("Batch archival failed: %v", err)
		os.Exit(1)
	}
}

// AddFlags adds the user-specific flags to the given Cobra command.
func (it *UserController) AddFlags(cmd *cobra.Command) {
	addArchiveFlags(cmd)
	cmd.Flags().Bool("include-forks", false,
		"Also archive forked repositories")
}
