package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MegaGrindStone/estate-analyst-web/internal/charts"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func printSummary(w io.Writer, summary string, wordWrap int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(summary)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// rowsTable lays the rows out in the same six columns as the web table.
func rowsTable(rows []models.Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(models.TableColumns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Cells()...)
	}
	return t.Render()
}

func printPlan(w io.Writer, plan charts.Plan) {
	fmt.Fprintf(w, "%s %s chart, years %s\n",
		labelStyle.Render("Chart:"), plan.Form, joinYears(plan.Years))
	if plan.Form == charts.FormComparison {
		fmt.Fprintln(w, mutedStyle.Render("  Price comparison for a single year."))
	}

	for _, s := range plan.Series {
		line := "solid"
		if s.Dashed {
			line = "dashed"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
		fmt.Fprintf(w, "  %s %s %s\n", swatch, s.Name, mutedStyle.Render("("+s.Color+", "+line+")"))
	}
}

func printCatalog(w io.Writer, catalog models.AreaCatalog) {
	fmt.Fprintln(w, labelStyle.Render("Areas:"))
	for _, a := range catalog.Areas {
		fmt.Fprintf(w, "  %s\n", a)
	}
	if len(catalog.Years) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Years:"), joinYears(catalog.Years))
	}
}

func printHealth(w io.Writer, hs models.HealthStatus) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(hs.Status), hs.Message)
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
