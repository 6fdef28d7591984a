package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/pkg/config"
)

// ErrNoLoader is returned when a command needs the application but main
// never installed a loader.
var ErrNoLoader = errors.New("application loader not configured")

// Loader opens the application for the given config file. Commands that need
// storage call it lazily, so "version" and "migrate" never open a container.
type Loader func(ctx context.Context, configFile string) (*App, error)

// App holds the CLI application dependencies.
type App struct {
	Config    *config.Config
	Container *app.Container
}

// NewApp wraps a container.
func NewApp(c *app.Container) *App {
	return &App{Config: c.Config, Container: c}
}

// flush delivers pending outbox events so consumers see the command's writes
// before the process exits.
func (a *App) flush(ctx context.Context) {
	if err := a.Container.OutboxProcessor.ProcessOnce(ctx); err != nil {
		a.Container.Logger.WarnContext(ctx, "failed to deliver pending events", "error", err)
	}
}

var (
	appMu  sync.Mutex
	cliApp *App
	loader Loader
)

// SetLoader installs the function that opens the application.
func SetLoader(l Loader) {
	appMu.Lock()
	defer appMu.Unlock()
	loader = l
}

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	appMu.Lock()
	defer appMu.Unlock()
	cliApp = a
}

// GetApp returns the global CLI application instance, opening it on first use.
func GetApp(cmd *cobra.Command) (*App, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if cliApp != nil {
		return cliApp, nil
	}
	if loader == nil {
		return nil, ErrNoLoader
	}
	a, err := loader(cmd.Context(), cfgFile)
	if err != nil {
		return nil, err
	}
	cliApp = a
	return cliApp, nil
}

func closeApp() {
	appMu.Lock()
	defer appMu.Unlock()
	if cliApp != nil && cliApp.Container != nil {
		cliApp.Container.Close()
	}
	cliApp = nil
}
