package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/MegaGrindStone/estate-analyst-web/internal/charts"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
)

// message is the view of a models.Message handed to the templates.
type message struct {
	ID        string
	SessionID string
	Role      string
	Timestamp time.Time

	// Text is filled for user messages.
	Text string

	// Summary, Chart and Table are filled for bot messages. Chart and Table stay empty when the message
	// carries no series or rows.
	Summary   template.HTML
	Chart     template.HTML
	ChartForm string
	Table     *table
}

type table struct {
	Columns []string
	Rows    [][]string
}

// health is the view of the backend status badge. Reachable is false when the health check failed.
type health struct {
	Reachable bool
	Status    string
	Message   string
}

type homePageData struct {
	SessionID string
	Messages  []message
}

func roleClass(role string) string {
	if role == string(models.RoleUser) {
		return "user-message"
	}
	return "bot-message"
}

// renderMessage maps a message to its view. User text is left to the template's escaping, bot summaries
// go through the markdown renderer, and the chart and table are only built when there is data for them.
func (m Main) renderMessage(sessionID string, msg models.Message) (message, error) {
	view := message{
		ID:        msg.ID,
		SessionID: sessionID,
		Role:      string(msg.Role),
		Timestamp: msg.Timestamp,
	}

	if msg.Role == models.RoleUser {
		view.Text = msg.Text
		return view, nil
	}

	summary, err := m.renderMarkdown(msg.Summary)
	if err != nil {
		return message{}, fmt.Errorf("failed to render summary: %w", err)
	}
	view.Summary = summary

	if msg.HasChart() {
		chart, form, err := renderChart(msg)
		if err != nil {
			// A chart the library cannot draw should not hide the summary and the table.
			m.logger.Warn("Failed to render chart",
				slog.String("messageID", msg.ID),
				slog.String(errLoggerKey, err.Error()))
		}
		view.Chart = chart
		view.ChartForm = form
	}

	if msg.HasTable() {
		view.Table = renderTable(msg.Rows)
	}

	return view, nil
}

func (m Main) renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// goldmark drops raw HTML from the source unless told otherwise, so its output is safe to embed.
	return template.HTML(buf.String()), nil
}

func renderChart(msg models.Message) (template.HTML, string, error) {
	plan := charts.Build(msg.Series, msg.Areas)
	if plan.Empty() {
		return "", "", nil
	}

	svg, err := charts.SVG(plan)
	if err != nil {
		if errors.Is(err, charts.ErrNothingToRender) {
			return "", "", nil
		}
		return "", "", err
	}
	// Series names are escaped by the charts package before they reach the SVG.
	return template.HTML(svg), plan.Form.String(), nil
}

func renderTable(rows []models.Row) *table {
	t := &table{
		Columns: models.TableColumns,
		Rows:    make([][]string, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = r.Cells()
	}
	return t
}

func (m Main) renderMessages(sessionID string, msgs []models.Message) ([]message, error) {
	views := make([]message, len(msgs))
	for i, msg := range msgs {
		v, err := m.renderMessage(sessionID, msg)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}
	return views, nil
}
