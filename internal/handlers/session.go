package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrEmptyInput is returned when the submitted question is empty or only whitespace.
	ErrEmptyInput = errors.New("message is required")
	// ErrAwaiting is returned when a question is submitted while the session still waits for an answer.
	ErrAwaiting = errors.New("an answer is still pending for this session")
)

// turns tracks which sessions have a query in flight. A session is Idle when it is absent from awaiting
// and Awaiting while present.
type turns struct {
	mu       sync.Mutex
	awaiting map[string]struct{}
}

func newTurns() *turns {
	return &turns{awaiting: make(map[string]struct{})}
}

// begin moves the session to Awaiting. It reports false if the session already was.
func (t *turns) begin(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.awaiting[sessionID]; ok {
		return false
	}
	t.awaiting[sessionID] = struct{}{}
	return true
}

// end moves the session back to Idle.
func (t *turns) end(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.awaiting, sessionID)
}

func (t *turns) pending(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.awaiting[sessionID]
	return ok
}

// wait blocks until no session is Awaiting, or ctx is done.
func (t *turns) wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		t.mu.Lock()
		n := len(t.awaiting)
		t.mu.Unlock()
		if n == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// StartSession creates a new session whose log opens with the welcome message.
func (m Main) StartSession(ctx context.Context) (models.Session, error) {
	session := models.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	if err := m.store.AddSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("failed to add session: %w", err)
	}
	if err := m.store.AddMessage(ctx, session.ID, models.NewWelcomeMessage()); err != nil {
		return models.Session{}, fmt.Errorf("failed to add welcome message: %w", err)
	}
	return session, nil
}

// EndSession drops the session and its log.
func (m Main) EndSession(ctx context.Context, sessionID string) error {
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Submit starts a turn: it moves the session to Awaiting and appends the user's message to the log.
//
// Input that is empty after trimming is rejected with ErrEmptyInput, and any input is rejected with
// ErrAwaiting while the previous turn has not been resolved. Neither rejection changes the session.
// A successful Submit must be followed by exactly one Resolve for the same session.
func (m Main) Submit(ctx context.Context, sessionID, input string) (models.Message, error) {
	if strings.TrimSpace(input) == "" {
		return models.Message{}, ErrEmptyInput
	}
	if !m.turns.begin(sessionID) {
		return models.Message{}, ErrAwaiting
	}

	um := models.NewUserMessage(input)
	if err := m.store.AddMessage(ctx, sessionID, um); err != nil {
		m.turns.end(sessionID)
		return models.Message{}, fmt.Errorf("failed to add user message: %w", err)
	}

	return um, nil
}

// Resolve finishes a turn: it asks the Analyst, appends the bot message built from the answer, and moves
// the session back to Idle. Any failure of the Analyst is answered with the fixed error message and no
// chart or table, and the session stays usable for the next question.
func (m Main) Resolve(ctx context.Context, sessionID, query string) (models.Message, error) {
	defer m.turns.end(sessionID)

	var bm models.Message
	res, err := m.analyst.SubmitQuery(ctx, query)
	if err != nil {
		m.logger.Error("Query failed",
			slog.String("sessionID", sessionID),
			slog.String(errLoggerKey, err.Error()))
		bm = models.NewErrorMessage()
	} else {
		bm = models.NewBotMessage(res)
	}

	if err := m.store.AddMessage(ctx, sessionID, bm); err != nil {
		return models.Message{}, fmt.Errorf("failed to add bot message: %w", err)
	}

	return bm, nil
}

// Pending reports whether the session waits for an answer.
func (m Main) Pending(sessionID string) bool {
	return m.turns.pending(sessionID)
}
