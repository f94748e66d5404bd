// Package cli provides command-line interface setup for estatectl.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MegaGrindStone/estate-analyst-web/internal/config"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/MegaGrindStone/estate-analyst-web/internal/services"
	"github.com/spf13/cobra"
)

// Analyst is the part of the analysis backend the commands use.
type Analyst interface {
	SubmitQuery(ctx context.Context, query string) (models.QueryResult, error)
	Areas(ctx context.Context) (models.AreaCatalog, error)
	Health(ctx context.Context) (models.HealthStatus, error)
}

// App represents the estatectl CLI application
type App struct {
	LogLevel string
	WordWrap int

	// Analyst is built from the environment on first use when left nil.
	Analyst    Analyst
	APIBaseURL string
}

// NewApp creates a new estatectl CLI application
func NewApp() *App {
	return &App{
		LogLevel: "warn",
		WordWrap: 80,
	}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "estatectl",
		Short: "Command line client for the real estate analysis backend",
		Long: `estatectl asks the real estate analysis backend the same questions as the web chat,
and prints the summary, the data table and the chart layout in the terminal.

The backend URL defaults to ` + config.DefaultAPIBaseURL + ` and can be overridden with
` + config.APIBaseURLEnv + `, also read from a .env file in the working directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", app.LogLevel, "Set log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().IntVar(&app.WordWrap, "width", app.WordWrap, "Word wrap width of the rendered summary")

	// Add all subcommands
	app.addAskCommand(rootCmd)
	app.addCatalogCommands(rootCmd)

	return rootCmd
}

// setup builds the backend client unless one was injected.
func (app *App) setup(cmd *cobra.Command, _ []string) error {
	if app.Analyst != nil {
		return nil
	}

	if err := config.LoadEnv(); err != nil {
		return err
	}
	logger, err := config.NewLogger(cmd.ErrOrStderr(), app.LogLevel, "text")
	if err != nil {
		return err
	}

	app.APIBaseURL = config.APIBaseURL()
	app.Analyst = services.NewAnalyst(app.APIBaseURL, nil, logger)
	logger.Debug("Using analysis backend", slog.String("url", app.APIBaseURL))
	return nil
}

func backendError(op string, err error) error {
	return fmt.Errorf("%s failed, check that the backend is running: %w", op, err)
}
