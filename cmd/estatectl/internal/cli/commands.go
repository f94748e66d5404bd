package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MegaGrindStone/estate-analyst-web/internal/charts"
	"github.com/spf13/cobra"
)

var (
	errEmptyQuestion = errors.New("question is required")
	errNoChart       = errors.New("the answer carries no chart data")
)

func (app *App) addAskCommand(rootCmd *cobra.Command) {
	var chartPath string

	askCmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the analyst a question",
		Long: `Send a question to the analysis backend and print the summary, the data table and the
chart layout of the answer. Use --chart to also write the chart as an SVG file.`,
		Example: `  estatectl ask Give me analysis of Wakad
  estatectl ask "Compare Ambegaon Budruk and Aundh demand trends" --chart trends.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				return errEmptyQuestion
			}

			res, err := app.Analyst.SubmitQuery(cmd.Context(), question)
			if err != nil {
				return backendError("query", err)
			}

			out := cmd.OutOrStdout()
			if err := printSummary(out, res.Summary, app.WordWrap); err != nil {
				return err
			}
			if len(res.TableData) > 0 {
				fmt.Fprintln(out, rowsTable(res.TableData))
			}

			plan := charts.Build(res.ChartData, res.Areas)
			if !plan.Empty() {
				printPlan(out, plan)
			}

			if chartPath == "" {
				return nil
			}
			if plan.Empty() {
				return errNoChart
			}
			return writeChart(chartPath, plan)
		},
	}
	askCmd.Flags().StringVar(&chartPath, "chart", "", "Write the chart of the answer to this SVG file")

	rootCmd.AddCommand(askCmd)
}

func (app *App) addCatalogCommands(rootCmd *cobra.Command) {
	areasCmd := &cobra.Command{
		Use:   "areas",
		Short: "List the areas known to the analyst",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := app.Analyst.Areas(cmd.Context())
			if err != nil {
				return backendError("listing areas", err)
			}
			printCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hs, err := app.Analyst.Health(cmd.Context())
			if err != nil {
				return backendError("health check", err)
			}
			printHealth(cmd.OutOrStdout(), hs)
			return nil
		},
	}

	rootCmd.AddCommand(areasCmd, healthCmd)
}

func writeChart(path string, plan charts.Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := charts.Render(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
