package main

import (
	"github.com/Andres9890/iagitbetter/internal"
	"github.com/Andres9890/iagitbetter/internal/infrastructure/controllers"
	"go.uber.org/dig"
)

func injectAppContext() *internal.App {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var appContext *internal.App
	if err := container.Invoke(func(app *internal.App) {
		appContext = app
	}); err != nil {
		panic(err)
	}

	return appContext
}

func injectArchiveController() *controllers.ArchiveController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var archiveController *controllers.ArchiveController
	if err := container.Invoke(func(ac *controllers.ArchiveController) {
		archiveController = ac
	}); err != nil {
		panic(err)
	}

	return archiveController
}
