package repositories

import (
	"go.uber.org/dig"

	"github.com/Andres9890/iagitbetter/internal/infrastructure/httpapi"
	bbRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/bitbucket"
	gerritRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gerrit"
	giteaRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gitea"
	giteeRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gitee"
	ghRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/github"
	glRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gitlab"
	gogsRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/gogs"
	lpRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/launchpad"
	sfRepo "github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/sourceforge"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(httpapi.NewClient); err != nil {
		return err
	}

	if err := container.Provide(NewDefaultProviderRegistry); err != nil {
		return err
	}

	return nil
}

// NewDefaultProviderRegistry builds the registry with every supported
// provider. Domain matching honors registration order, so gist must precede
// github.
func NewDefaultProviderRegistry(client *httpapi.Client) *ProviderRegistry {
	reg := NewProviderRegistry(client)
	reg.Register("gist", []string{"gist.github.com"}, ghRepo.NewGistProviderRepository)
	reg.Register("github", []string{"github.com"}, ghRepo.NewProviderRepository)
	reg.Register("gitlab", []string{"gitlab"}, glRepo.NewProviderRepository)
	reg.Register("bitbucket", []string{"bitbucket"}, bbRepo.NewProviderRepository)
	reg.Register("gitea", []string{"gitea", "codeberg"}, giteaRepo.NewProviderRepository)
	reg.Register("gitee", []string{"gitee.com"}, giteeRepo.NewProviderRepository)
	reg.Register("gogs", []string{"gogs", "notabug.org"}, gogsRepo.NewProviderRepository)
	reg.Register("sourceforge", []string{"sourceforge"}, sfRepo.NewProviderRepository)
	reg.Register("gerrit", []string{"gerrit", "googlesource"}, gerritRepo.NewProviderRepository)
	reg.Register("launchpad", []string{"launchpad"}, lpRepo.NewProviderRepository)
	reg.Alias("codeberg", "gitea")
	return reg
}
