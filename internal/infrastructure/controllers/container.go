package controllers

import (
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewArchiveController); err != nil {
		return err
	}
	if err := container.Provide(NewUserController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the App.
func NewControllers(
	archiveController *ArchiveController,
	userController *UserController,
) *[]entities.Controller {
	return &[]entities.Controller{
		archiveController,
		userController,
	}
}
