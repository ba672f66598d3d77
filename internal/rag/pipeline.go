package rag

import (
	"context"
	"errors"

	"elevator-chat/internal/models"
	"elevator-chat/internal/quota"
	"elevator-chat/internal/retriever"

	"github.com/rs/zerolog/log"
)

// ErrQuotaExceeded halts a question before any retrieval or generation.
var ErrQuotaExceeded = errors.New("monthly usage limit reached")

// QuotaMessage is what the technician sees when the gate denies a question.
const QuotaMessage = "Monthly AI usage limit reached. Please contact your company."

// ConsultationStore persists one question/answer row per answered question.
type ConsultationStore interface {
	SaveConsultation(ctx context.Context, technicianID, question, answer string) error
}

// Pipeline drives one question turn: quota check, retrieval, generation,
// persistence. Every failure is terminal for the turn, nothing is retried.
type Pipeline struct {
	gate  *quota.Gate
	store ConsultationStore
	gen   *Generator
	topK  int
}

func NewPipeline(gate *quota.Gate, store ConsultationStore, gen *Generator, topK int) *Pipeline {
	return &Pipeline{gate: gate, store: store, gen: gen, topK: topK}
}

// Ask answers one question against the session's chunks. persisted reports
// whether the row made it to the remote store; a false value with a nil
// error means the answer is usable but the write failed (or was skipped
// because nothing matched).
func (p *Pipeline) Ask(ctx context.Context, userID, question string, chunks []models.Chunk) (resp *models.PromptResponse, persisted bool, err error) {
	if !p.gate.Allowed(ctx, userID) {
		return nil, false, ErrQuotaExceeded
	}
	p.gate.Increment(ctx, userID)

	selected := retriever.TopK(question, chunks, p.topK)

	resp, err = p.gen.Answer(ctx, question, selected)
	if err != nil {
		return nil, false, err
	}

	if len(selected) == 0 {
		// fixed notice, nothing worth persisting
		return resp, false, nil
	}

	if err := p.store.SaveConsultation(ctx, userID, question, resp.Content); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("Failed to persist consultation")
		return resp, false, nil
	}
	return resp, true, nil
}
