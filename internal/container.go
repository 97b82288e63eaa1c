package internal

import (
	"github.com/Andres9890/iagitbetter/internal/domain/commands"
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/controllers"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories"
	"go.uber.org/dig"
)

// App aggregates the wired controllers.
type App struct {
	controllers *[]entities.Controller
}

// NewApp creates the application aggregate.
func NewApp(controllers *[]entities.Controller) *App {
	return &App{controllers: controllers}
}

// GetControllers returns the wired controllers.
func (a *App) GetControllers() []entities.Controller {
	return *a.controllers
}

// RegisterProviders registers all internal providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain entities -> domain commands -> controllers)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	if err := container.Provide(NewApp); err != nil {
		return err
	}

	return nil
}
