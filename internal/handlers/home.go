package handlers

import (
	"log/slog"
	"net/http"
)

// HandleHome starts a new session and renders the chat page with its log, which opens with the welcome
// message.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	session, err := m.StartSession(r.Context())
	if err != nil {
		m.logger.Error("Failed to start session", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	messages, err := m.store.Messages(r.Context(), session.ID)
	if err != nil {
		m.logger.Error("Failed to get messages",
			slog.String("sessionID", session.ID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	msgs, err := m.renderMessages(session.ID, messages)
	if err != nil {
		m.logger.Error("Failed to render messages",
			slog.String("sessionID", session.ID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := homePageData{
		SessionID: session.ID,
		Messages:  msgs,
	}
	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
