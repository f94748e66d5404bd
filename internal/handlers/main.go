package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	estateweb "github.com/MegaGrindStone/estate-analyst-web"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/tmaxmax/go-sse"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Analyst represents the real estate analysis backend. The web front end only forwards questions to it and
// renders what comes back; every call may fail and is never retried.
type Analyst interface {
	SubmitQuery(ctx context.Context, query string) (models.QueryResult, error)
	Areas(ctx context.Context) (models.AreaCatalog, error)
	Health(ctx context.Context) (models.HealthStatus, error)
}

// Store defines the interface for keeping the message log of each session. Logs are append-only: messages
// are returned in the order they were added and are never updated or removed individually. A whole log is
// dropped when its session is deleted.
type Store interface {
	AddSession(ctx context.Context, session models.Session) error
	DeleteSession(ctx context.Context, sessionID string) error

	Messages(ctx context.Context, sessionID string) ([]models.Message, error)
	AddMessage(ctx context.Context, sessionID string, message models.Message) error
}

// Main handles the core functionality of the chat application, managing server-sent events,
// HTML templates, and the turns between the user, the Store and the Analyst.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template
	markdown  goldmark.Markdown

	analyst Analyst
	store   Store

	turns        *turns
	turnsTimeout time.Duration

	logger *slog.Logger
}

const errLoggerKey = "err"

// NewMain creates a new Main instance with the provided Analyst and Store implementations. It initializes
// the SSE server, the markdown renderer, and parses the required HTML templates from the embedded
// filesystem. Each SSE client is subscribed to the topic of the session it asks for.
func NewMain(analyst Analyst, store Store, logger *slog.Logger) (Main, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"roleClass": roleClass,
	}).ParseFS(estateweb.TemplateFS, estateweb.TemplatePatterns...)
	if err != nil {
		return Main{}, fmt.Errorf("failed to parse templates: %w", err)
	}

	return Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				topics := []string{sse.DefaultTopic}

				// Bot answers are only published to the session that asked for them
				sessionID := s.Req.URL.Query().Get("session_id")
				if sessionID != "" {
					topics = append(topics, sessionTopic(sessionID))
				}

				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      topics,
				}, true
			},
		},
		templates: tmpl,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(highlighting.WithStyle("github")),
			),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		analyst:      analyst,
		store:        store,
		turns:        newTurns(),
		turnsTimeout: 5 * time.Second,
		logger:       logger.With(slog.String("module", "main")),
	}, nil
}

func sessionTopic(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// Shutdown gracefully terminates the Main instance. It waits up to 5 seconds for the answers still in
// flight to be stored, broadcasts a close message to all connected clients and waits up to another 5
// seconds for connections to terminate. After the timeout, any remaining connections are forcefully
// closed. Both waits also end when ctx is done.
func (m Main) Shutdown(ctx context.Context) error {
	waitCtx, waitCancel := context.WithTimeout(ctx, m.turnsTimeout)
	err := m.turns.wait(waitCtx)
	waitCancel()
	if err != nil {
		m.logger.Warn("Shutting down with unanswered turns", slog.String(errLoggerKey, err.Error()))
	}

	e := &sse.Message{Type: sse.Type("closeChat")}
	// Events without data are not dispatched by browsers
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}
