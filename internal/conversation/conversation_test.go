package conversation

import (
	"strings"
	"testing"
	"time"

	"elevator-chat/internal/db"
	"elevator-chat/internal/models"

	"github.com/stretchr/testify/require"
)

const gap = 30 * time.Minute

func row(q, a string, at time.Time) db.Consultation {
	return db.Consultation{Question: q, Answer: a, CreatedAt: at}
}

func TestGroupSingleRow(t *testing.T) {
	now := time.Now()
	groups := Group([]db.Consultation{row("q1", "a1", now)}, gap)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 2)
	require.Equal(t, models.RoleUser, groups[0].Messages[0].Role)
	require.Equal(t, "q1", groups[0].Messages[0].Content)
	require.Equal(t, models.RoleAssistant, groups[0].Messages[1].Role)
	require.Equal(t, now, groups[0].CreatedAt)
}

func TestGroupSplitsOnLongGap(t *testing.T) {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	rows := []db.Consultation{
		row("first question", "a", base),
		row("second question", "a", base.Add(40*time.Minute)), // >30min, new conversation
	}
	groups := Group(rows, gap)
	require.Len(t, groups, 2)
	// most recent first
	require.Equal(t, "second question", groups[0].Title)
	require.Equal(t, "first question", groups[1].Title)
}

func TestGroupKeepsShortGapTogether(t *testing.T) {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	rows := []db.Consultation{
		row("q1", "a1", base),
		row("q2", "a2", base.Add(30*time.Minute)), // exactly the gap stays together
		row("q3", "a3", base.Add(55*time.Minute)),
	}
	groups := Group(rows, gap)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 6)
}

func TestGroupTitleTruncation(t *testing.T) {
	long := strings.Repeat("q", 60)
	groups := Group([]db.Consultation{row(long, "a", time.Now())}, gap)
	require.Equal(t, strings.Repeat("q", 50)+"...", groups[0].Title)

	exact := strings.Repeat("q", 50)
	groups = Group([]db.Consultation{row(exact, "a", time.Now())}, gap)
	require.Equal(t, exact, groups[0].Title)
}

func TestGroupEmpty(t *testing.T) {
	require.Empty(t, Group(nil, gap))
}

func TestListNewPrependsAndActivates(t *testing.T) {
	l := NewList([]*Conversation{{ID: "old", Title: "old"}})
	c := l.New()
	require.Equal(t, c.ID, l.Items()[0].ID)
	require.Len(t, l.Items(), 2)
	require.Equal(t, c, l.Active())
	require.Equal(t, UntitledTitle, c.Title)
}

func TestListAppendTitlesUntitled(t *testing.T) {
	l := NewList(nil)
	c := l.New()
	c.Append(models.RoleUser, "How do I reset fault 0512 on the controller?")
	require.Equal(t, "How do I reset fault 0512 on the controller?", c.Title)
	require.False(t, c.Untitled)

	// later messages leave the title alone
	c.Append(models.RoleAssistant, "Reset procedure...")
	c.Append(models.RoleUser, "And afterwards?")
	require.Equal(t, "How do I reset fault 0512 on the controller?", c.Title)
}

func TestListSelect(t *testing.T) {
	l := NewList([]*Conversation{{ID: "a"}, {ID: "b"}})
	c, ok := l.Select("b")
	require.True(t, ok)
	require.Equal(t, "b", c.ID)
	require.Equal(t, c, l.Active())

	_, ok = l.Select("missing")
	require.False(t, ok)
}

func TestListDeleteActiveClearsPointer(t *testing.T) {
	l := NewList([]*Conversation{{ID: "a"}, {ID: "b"}})
	l.Select("a")
	require.True(t, l.Delete("a"))
	require.Nil(t, l.Active())
	require.Len(t, l.Items(), 1)

	require.False(t, l.Delete("a"))
}

func TestListDeleteInactiveKeepsPointer(t *testing.T) {
	l := NewList([]*Conversation{{ID: "a"}, {ID: "b"}})
	l.Select("a")
	require.True(t, l.Delete("b"))
	require.NotNil(t, l.Active())
	require.Equal(t, "a", l.Active().ID)
}

func TestListActiveOrNew(t *testing.T) {
	l := NewList(nil)
	c := l.ActiveOrNew()
	require.NotNil(t, c)
	require.Equal(t, c, l.ActiveOrNew())
}
