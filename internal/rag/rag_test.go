package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"elevator-chat/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func TestBuildPromptInterpolatesContextAndQuestion(t *testing.T) {
	chunks := []models.Chunk{
		{Content: "Error 05-12 indicates motor overload.", PageNumber: 1, SourceFile: "manual.pdf"},
	}
	prompt := BuildPrompt("What does error 05-12 mean?", chunks)
	require.Contains(t, prompt, "[manual.pdf — page 1]")
	require.Contains(t, prompt, "Error 05-12 indicates motor overload.")
	require.Contains(t, prompt, "What does error 05-12 mean?")
	require.Contains(t, prompt, "expert elevator technician")
}

func TestSourcesDistinctAndSorted(t *testing.T) {
	chunks := []models.Chunk{
		{SourceFile: "b.pdf", PageNumber: 7},
		{SourceFile: "a.pdf", PageNumber: 2},
		{SourceFile: "b.pdf", PageNumber: 7},
		{SourceFile: "a.pdf", PageNumber: 1},
	}
	require.Equal(t, "a.pdf, b.pdf — pages consulted: 1, 2, 7", Sources(chunks))
}

func TestAnswerAppendsFooter(t *testing.T) {
	llm := &fakeLLM{reply: "  The motor is overloaded.\n"}
	g := NewGenerator(llm)

	chunks := []models.Chunk{{Content: "Error 05-12 indicates motor overload.", PageNumber: 1, SourceFile: "manual.pdf"}}
	resp, err := g.Answer(context.Background(), "What does error 05-12 mean?", chunks)
	require.NoError(t, err)
	require.Equal(t, 1, llm.calls)
	require.True(t, strings.HasPrefix(resp.Content, "The motor is overloaded."))
	require.Contains(t, resp.Content, "Sources: manual.pdf — pages consulted: 1")
	require.Equal(t, "manual.pdf — pages consulted: 1", resp.Source)
}

func TestAnswerNoChunksSkipsLLM(t *testing.T) {
	llm := &fakeLLM{reply: "should never be used"}
	g := NewGenerator(llm)

	resp, err := g.Answer(context.Background(), "unrelated question", nil)
	require.NoError(t, err)
	require.Equal(t, 0, llm.calls)
	require.Equal(t, models.NoMatchNotice, resp.Content)
	require.Empty(t, resp.Source)
}

func TestAnswerPropagatesLLMFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("completion failed")}
	g := NewGenerator(llm)

	_, err := g.Answer(context.Background(), "q", []models.Chunk{{Content: "c", PageNumber: 1, SourceFile: "m.pdf"}})
	require.Error(t, err)
}
