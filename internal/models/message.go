package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a single browser conversation. Its message log lives as long as the session does and is
// dropped when the user reloads the page.
type Session struct {
	ID        string
	CreatedAt time.Time
}

// Message represents an individual entry of a session's log. A user message only carries Text, a bot
// message carries the markdown Summary and, optionally, the chart series and table rows that came with
// the analysis. Messages are never changed once they are appended to a log.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Summary   string
	Series    []SeriesPoint
	Rows      []Row
	Areas     []string
	Timestamp time.Time
}

// Role represents the author of a message.
type Role string

const (
	// RoleUser represents a question typed by the user.
	RoleUser Role = "user"
	// RoleBot represents an answer produced from the analysis backend, or the placeholder shown when the
	// backend could not be reached.
	RoleBot Role = "bot"
)

const (
	// WelcomeSummary is the first bot message of every new session.
	WelcomeSummary = "**Welcome to Real Estate Analyst!**\n\n" +
		"I can help you analyze real estate trends in Pune. Try asking:\n\n" +
		"* \"Give me analysis of Wakad\"\n" +
		"* \"Compare Ambegaon Budruk and Aundh demand trends\"\n" +
		"* \"Show price growth for Akurdi over the last 3 years\""

	// ErrorSummary replaces the answer of any turn whose query failed, whatever the cause.
	ErrorSummary = "**Error**: I couldn't process your request. " +
		"Please check if the backend server is running and try again."
)

// NewUserMessage creates the message recorded when the user submits a question.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates the answer message for a successful query.
func NewBotMessage(res QueryResult) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleBot,
		Summary:   res.Summary,
		Series:    res.ChartData,
		Rows:      res.TableData,
		Areas:     res.Areas,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates the placeholder answer for a failed query. It never carries chart or table data.
func NewErrorMessage() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleBot,
		Summary:   ErrorSummary,
		Timestamp: time.Now(),
	}
}

// NewWelcomeMessage creates the greeting that opens every session.
func NewWelcomeMessage() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleBot,
		Summary:   WelcomeSummary,
		Timestamp: time.Now(),
	}
}

// HasChart reports whether the message should be rendered with a chart.
func (m Message) HasChart() bool {
	return len(m.Series) > 0
}

// HasTable reports whether the message should be rendered with a data table.
func (m Message) HasTable() bool {
	return len(m.Rows) > 0
}
