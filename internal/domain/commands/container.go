package commands

import (
	"go.uber.org/dig"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/ia"
	"github.com/Andres9890/iagitbetter/internal/metadata"
	"github.com/Andres9890/iagitbetter/internal/release"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(metadata.NewNormalizer); err != nil {
		return err
	}
	if err := container.Provide(release.NewCollector); err != nil {
		return err
	}
	if err := container.Provide(func() ItemRepositoryFactory {
		return func(creds ia.Credentials) domainRepos.ItemRepository {
			return ia.NewItemRepository(creds)
		}
	}); err != nil {
		return err
	}
	if err := container.Provide(NewArchiveCommand); err != nil {
		return err
	}
	if err := container.Provide(NewMirrorUserCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *ArchiveCommand) Archive {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *MirrorUserCommand) MirrorUser {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
