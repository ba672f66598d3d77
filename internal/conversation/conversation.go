package conversation

import (
	"time"

	"elevator-chat/internal/db"
	"elevator-chat/internal/models"

	"github.com/google/uuid"
)

const (
	titleLimit    = 50
	UntitledTitle = "New conversation"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is a client-side regrouping of persisted consultation rows.
// It only lives in session memory; the remote store knows nothing about it.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
	Untitled  bool      `json:"-"`
}

// Append adds a message; the first user message on an untitled conversation
// also sets the title.
func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
	if c.Untitled && role == models.RoleUser {
		c.Title = truncateTitle(content)
		c.Untitled = false
	}
}

func truncateTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= titleLimit {
		return question
	}
	return string(runes[:titleLimit]) + "..."
}

// Group partitions consultation rows (oldest first) into conversations: a new
// one starts at the first row and whenever the gap to the previous row
// exceeds gap. The result is most-recent first.
func Group(rows []db.Consultation, gap time.Duration) []*Conversation {
	var groups []*Conversation
	var current *Conversation
	var prev time.Time

	for _, row := range rows {
		if current == nil || row.CreatedAt.Sub(prev) > gap {
			current = &Conversation{
				ID:        uuid.NewString(),
				Title:     truncateTitle(row.Question),
				CreatedAt: row.CreatedAt,
			}
			groups = append(groups, current)
		}
		current.Messages = append(current.Messages,
			Message{Role: models.RoleUser, Content: row.Question},
			Message{Role: models.RoleAssistant, Content: row.Answer},
		)
		prev = row.CreatedAt
	}

	// most recent first
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return groups
}
