package conversation

import (
	"time"

	"github.com/google/uuid"
)

// List is the per-session conversation state: the ordered conversations
// (most recent first) and the active pointer. All mutations are pure local
// session-state changes.
type List struct {
	items    []*Conversation
	activeID string
}

func NewList(items []*Conversation) *List {
	return &List{items: items}
}

func (l *List) Items() []*Conversation {
	return l.items
}

// Active returns the selected conversation, or nil when none is selected.
func (l *List) Active() *Conversation {
	if l.activeID == "" {
		return nil
	}
	for _, c := range l.items {
		if c.ID == l.activeID {
			return c
		}
	}
	return nil
}

// New prepends an empty untitled conversation and makes it active.
func (l *List) New() *Conversation {
	c := &Conversation{
		ID:        uuid.NewString(),
		Title:     UntitledTitle,
		CreatedAt: time.Now(),
		Untitled:  true,
	}
	l.items = append([]*Conversation{c}, l.items...)
	l.activeID = c.ID
	return c
}

func (l *List) Select(id string) (*Conversation, bool) {
	for _, c := range l.items {
		if c.ID == id {
			l.activeID = id
			return c, true
		}
	}
	return nil, false
}

// Delete removes the conversation; deleting the active one clears the
// active pointer.
func (l *List) Delete(id string) bool {
	for i, c := range l.items {
		if c.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			if l.activeID == id {
				l.activeID = ""
			}
			return true
		}
	}
	return false
}

// ActiveOrNew returns the active conversation, creating one when none is
// selected yet (first question of a fresh session).
func (l *List) ActiveOrNew() *Conversation {
	if c := l.Active(); c != nil {
		return c
	}
	return l.New()
}
