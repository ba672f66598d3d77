package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"elevator-chat/internal/models"
)

// LLM is the single-completion dependency of the answer generator.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	llm LLM
}

func NewGenerator(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// BuildPrompt interpolates the retrieved context and the question into the
// technician persona template.
func BuildPrompt(question string, chunks []models.Chunk) string {
	var context strings.Builder
	for _, chunk := range chunks {
		context.WriteString(fmt.Sprintf("\n[%s — page %d]\n%s\n", chunk.SourceFile, chunk.PageNumber, chunk.Content))
	}
	return fmt.Sprintf(models.AnswerPromptTemplate, context.String(), question)
}

// Sources lists the distinct source files and distinct page numbers (sorted)
// referenced by the selected chunks.
func Sources(chunks []models.Chunk) string {
	fileSet := map[string]struct{}{}
	pageSet := map[int]struct{}{}
	for _, chunk := range chunks {
		fileSet[chunk.SourceFile] = struct{}{}
		pageSet[chunk.PageNumber] = struct{}{}
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)

	pages := make([]int, 0, len(pageSet))
	for p := range pageSet {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	pageStrs := make([]string, len(pages))
	for i, p := range pages {
		pageStrs[i] = fmt.Sprintf("%d", p)
	}

	return fmt.Sprintf("%s — pages consulted: %s", strings.Join(files, ", "), strings.Join(pageStrs, ", "))
}

// Answer runs one completion over the selected chunks and appends the
// citation footer. With no chunks it returns the fixed notice and never
// touches the LLM.
func (g *Generator) Answer(ctx context.Context, question string, chunks []models.Chunk) (*models.PromptResponse, error) {
	if len(chunks) == 0 {
		return &models.PromptResponse{
			Query:   question,
			Content: models.NoMatchNotice,
		}, nil
	}

	answer, err := g.llm.Generate(ctx, BuildPrompt(question, chunks))
	if err != nil {
		return nil, err
	}

	source := Sources(chunks)
	return &models.PromptResponse{
		Query:   question,
		Source:  source,
		Content: strings.TrimSpace(answer) + "\n\nSources: " + source,
	}, nil
}
