package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MegaGrindStone/estate-analyst-web/internal/charts"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/tmaxmax/go-sse"
)

// SSE event type carrying a rendered bot message.
var messagesSSEType = sse.Type("messages")

// HandleQuery accepts a question through HTTP POST requests. It expects the "session_id" and "message"
// form fields.
//
// The user message is appended to the session log and rendered in the response together with the loading
// indicator. The query itself is sent to the Analyst in the background, and the resulting bot message is
// published to the session's SSE topic once it is stored.
//
// The handler answers 405 for other methods, 400 for a missing session or an empty question, 404 for an
// unknown session and 409 while the previous question of the session is still waiting for its answer.
func (m Main) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		m.logger.Error("Session is required")
		http.Error(w, "Session is required", http.StatusBadRequest)
		return
	}

	input := r.FormValue("message")
	um, err := m.Submit(r.Context(), sessionID, input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrEmptyInput):
			status = http.StatusBadRequest
		case errors.Is(err, ErrAwaiting):
			status = http.StatusConflict
		case errors.Is(err, models.ErrSessionNotFound):
			status = http.StatusNotFound
		}
		m.logger.Error("Failed to submit query",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), status)
		return
	}

	// The browser chains the SSE answer after this response, so the order of the two does not matter here
	go m.answer(sessionID, input)

	view, err := m.renderMessage(sessionID, um)
	if err != nil {
		m.logger.Error("Failed to render message",
			slog.String("messageID", um.ID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := m.templates.ExecuteTemplate(w, "user_message", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := m.templates.ExecuteTemplate(w, "loading", nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// answer resolves the turn started by HandleQuery and pushes the bot message to the session.
func (m Main) answer(sessionID, query string) {
	bm, err := m.Resolve(context.Background(), sessionID, query)
	if err != nil {
		m.logger.Error("Failed to resolve query",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		if errors.Is(err, models.ErrSessionNotFound) {
			// The page is gone.
			return
		}
		// The loading indicator must still be replaced, even if the answer could not be stored
		bm = models.NewErrorMessage()
	}

	view, err := m.renderMessage(sessionID, bm)
	if err != nil {
		m.logger.Error("Failed to render message",
			slog.String("messageID", bm.ID),
			slog.String(errLoggerKey, err.Error()))
		return
	}

	var sb strings.Builder
	if err := m.templates.ExecuteTemplate(&sb, "bot_message", view); err != nil {
		m.logger.Error("Failed to execute bot_message template",
			slog.String("messageID", bm.ID),
			slog.String(errLoggerKey, err.Error()))
		return
	}

	msg := sse.Message{
		Type: messagesSSEType,
	}
	msg.AppendData(sb.String())
	if err := m.sseSrv.Publish(&msg, sessionTopic(sessionID)); err != nil {
		m.logger.Error("Failed to publish message",
			slog.String("messageID", bm.ID),
			slog.String(errLoggerKey, err.Error()))
	}
}

// HandleSSE serves the SSE stream of the session named by the "session_id" query parameter.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// HandleLatestMessage renders the newest bot message of the session named by the "session_id" query
// parameter. The page calls it when its SSE stream reconnects during a turn, since answers published while
// it was disconnected are not replayed. It answers 204 while the session still awaits its answer.
func (m Main) HandleLatestMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "Session is required", http.StatusBadRequest)
		return
	}

	if m.Pending(sessionID) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msgs, err := m.store.Messages(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		m.logger.Error("Failed to get messages",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != models.RoleBot {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	view, err := m.renderMessage(sessionID, msgs[len(msgs)-1])
	if err != nil {
		m.logger.Error("Failed to render message",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := m.templates.ExecuteTemplate(w, "bot_message", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleEndSession drops the session named by the "session_id" form field. The page sends it as a beacon
// when it is left, so the handler answers 204 even if the session is already gone.
func (m Main) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		m.logger.Error("Session is required")
		http.Error(w, "Session is required", http.StatusBadRequest)
		return
	}

	if err := m.EndSession(r.Context(), sessionID); err != nil {
		m.logger.Error("Failed to end session",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAreas renders the area suggestion chips from the Analyst's catalog. When the catalog cannot be
// fetched it answers 502 with a short notice instead.
func (m Main) HandleAreas(w http.ResponseWriter, r *http.Request) {
	catalog, err := m.analyst.Areas(r.Context())
	if err != nil {
		m.logger.Error("Failed to list areas", slog.String(errLoggerKey, err.Error()))
		w.WriteHeader(http.StatusBadGateway)
		if err := m.templates.ExecuteTemplate(w, "areas_unavailable", nil); err != nil {
			m.logger.Error("Failed to execute areas_unavailable template", slog.String(errLoggerKey, err.Error()))
		}
		return
	}

	if err := m.templates.ExecuteTemplate(w, "areas", catalog); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleHealth renders the backend status badge. An unreachable backend is reported with 502.
func (m Main) HandleHealth(w http.ResponseWriter, r *http.Request) {
	hs, err := m.analyst.Health(r.Context())
	if err != nil {
		m.logger.Warn("Health check failed", slog.String(errLoggerKey, err.Error()))
		w.WriteHeader(http.StatusBadGateway)
		if err := m.templates.ExecuteTemplate(w, "health", health{}); err != nil {
			m.logger.Error("Failed to execute health template", slog.String(errLoggerKey, err.Error()))
		}
		return
	}

	if err := m.templates.ExecuteTemplate(w, "health", health{
		Reachable: true,
		Status:    hs.Status,
		Message:   hs.Message,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleChart serves the chart of a stored bot message as a standalone SVG document. It expects the
// "session_id" and "message_id" query parameters.
func (m Main) HandleChart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	messageID := r.URL.Query().Get("message_id")
	if sessionID == "" || messageID == "" {
		http.Error(w, "Session and message are required", http.StatusBadRequest)
		return
	}

	msgs, err := m.store.Messages(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		m.logger.Error("Failed to get messages",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var msg models.Message
	found := false
	for _, mm := range msgs {
		if mm.ID == messageID {
			msg, found = mm, true
			break
		}
	}
	if !found || !msg.HasChart() {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}

	svg, err := charts.SVG(charts.Build(msg.Series, msg.Areas))
	if err != nil {
		if errors.Is(err, charts.ErrNothingToRender) {
			http.Error(w, "Chart not found", http.StatusNotFound)
			return
		}
		m.logger.Error("Failed to render chart",
			slog.String("messageID", messageID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
