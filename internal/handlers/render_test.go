package handlers

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
)

func ptr(v float64) *float64 {
	return &v
}

func TestRenderMessage(t *testing.T) {
	m, err := NewMain(nil, nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewMain() error = %v", err)
	}

	rows := []models.Row{
		{Year: 2021, Area: "Wakad", PricePerSqFt: 7000, DemandScore: 7.5, AvgSizeSqFt: 1000, Transactions: 300},
		{Year: 2022, Area: "Wakad", PricePerSqFt: 7600.25, DemandScore: 8, AvgSizeSqFt: 1050, Transactions: 320},
	}
	trend := []models.SeriesPoint{
		{Year: 2021, Metrics: map[string]models.AreaMetrics{"Wakad": {Price: ptr(7000), Demand: ptr(7.5)}}},
		{Year: 2022, Metrics: map[string]models.AreaMetrics{"Wakad": {Price: ptr(7600.25), Demand: ptr(8)}}},
	}
	single := trend[:1]

	tests := []struct {
		name          string
		msg           models.Message
		wantChartForm string
		wantTableRows int
		wantContains  []string
		wantMissing   []string
	}{
		{
			name: "User message is escaped text",
			msg:  models.NewUserMessage("<script>alert(1)</script>"),
			wantContains: []string{
				"user-message",
				"&lt;script&gt;alert(1)&lt;/script&gt;",
			},
			wantMissing: []string{"<script>"},
		},
		{
			name: "Summary only",
			msg:  models.NewBotMessage(models.QueryResult{Summary: "Demand in *Aundh* is flat."}),
			wantContains: []string{
				"bot-message",
				"<em>Aundh</em>",
			},
			wantMissing: []string{"<svg", "<table"},
		},
		{
			name: "Raw HTML in the summary is dropped",
			msg:  models.NewBotMessage(models.QueryResult{Summary: "<script>alert(1)</script>Done"}),
			wantMissing: []string{
				"<script>",
			},
		},
		{
			name: "Trend with table",
			msg: models.NewBotMessage(models.QueryResult{
				Summary:   "Wakad trend",
				ChartData: trend,
				TableData: rows,
				Areas:     []string{"Wakad"},
			}),
			wantChartForm: "trend",
			wantTableRows: 2,
			wantContains: []string{
				"<svg",
				"<th>Year</th><th>Area</th><th>Price/Sq.Ft</th><th>Demand Score</th><th>Avg Size (Sq.Ft)</th><th>Transactions</th>",
				"<td>7600.25</td>",
			},
		},
		{
			name: "Single point is a price comparison",
			msg: models.NewBotMessage(models.QueryResult{
				Summary:   "Wakad in 2021",
				ChartData: single,
				Areas:     []string{"Wakad"},
			}),
			wantChartForm: "comparison",
			wantContains:  []string{"Price comparison"},
			wantMissing:   []string{"<table"},
		},
		{
			name: "Areas without data draw no chart",
			msg: models.NewBotMessage(models.QueryResult{
				Summary:   "Unknown area",
				ChartData: single,
				Areas:     []string{"Baner"},
			}),
			wantMissing: []string{"<svg"},
		},
		{
			name: "Error message",
			msg:  models.NewErrorMessage(),
			wantContains: []string{
				"<strong>Error</strong>: I couldn",
			},
			wantMissing: []string{"<svg", "<table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := m.renderMessage("s1", tt.msg)
			if err != nil {
				t.Fatalf("renderMessage() error = %v", err)
			}

			if view.ChartForm != tt.wantChartForm {
				t.Errorf("renderMessage() chart form = %q, want %q", view.ChartForm, tt.wantChartForm)
			}
			gotRows := 0
			if view.Table != nil {
				gotRows = len(view.Table.Rows)
				for _, r := range view.Table.Rows {
					if len(r) != len(models.TableColumns) {
						t.Errorf("table row has %d cells, want %d", len(r), len(models.TableColumns))
					}
				}
			}
			if gotRows != tt.wantTableRows {
				t.Errorf("renderMessage() table rows = %d, want %d", gotRows, tt.wantTableRows)
			}

			var sb strings.Builder
			if err := m.templates.ExecuteTemplate(&sb, "message", view); err != nil {
				t.Fatalf("ExecuteTemplate() error = %v", err)
			}
			// Whitespace between tags comes from the template layout.
			html := compact(sb.String())

			for _, want := range tt.wantContains {
				if !strings.Contains(html, want) {
					t.Errorf("rendered message = %v, want to contain %v", html, want)
				}
			}
			for _, unwanted := range tt.wantMissing {
				if strings.Contains(html, unwanted) {
					t.Errorf("rendered message = %v, should not contain %v", html, unwanted)
				}
			}
		})
	}
}

func compact(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "")
}
