package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"elevator-chat/internal/auth"
	"elevator-chat/internal/config"
	"elevator-chat/internal/conversation"
	"elevator-chat/internal/db"
	"elevator-chat/internal/models"
	"elevator-chat/internal/parser"
	"elevator-chat/internal/rag"
	"elevator-chat/internal/session"
)

type handlers struct {
	cfg      *config.Config
	sessions *session.Manager
	auth     *auth.Client
	store    *db.Store
	pipeline *rag.Pipeline
}

type ctxKey int

const sessionKey ctxKey = 0

const maxUploadBytes = 128 << 20

// requireSession resolves the bearer session token; without a live session
// the request stops with an access-denied response.
func (h *handlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access denied. Please sign in.")
			return
		}
		sess, ok := h.sessions.Get(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Access denied. Please sign in again.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

type conversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

func summaries(list *conversation.List) []conversationSummary {
	out := make([]conversationSummary, 0, len(list.Items()))
	for _, c := range list.Items() {
		out = append(out, conversationSummary{
			ID:           c.ID,
			Title:        c.Title,
			CreatedAt:    c.CreatedAt,
			MessageCount: len(c.Messages),
		})
	}
	return out
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, accessToken, err := h.auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("Sign-in request failed")
		writeError(w, http.StatusBadGateway, "Sign-in is unavailable right now")
		return
	}

	// history read fails open into an empty list
	rows, err := h.store.ListConsultations(r.Context(), user.ID)
	if err != nil {
		log.Warn().Err(err).Str("user", user.ID).Msg("Could not load consultation history")
		rows = nil
	}
	list := conversation.NewList(conversation.Group(rows, h.cfg.ConversationGap()))

	sess, err := h.sessions.Create(user.ID, user.Email, accessToken, list)
	if err != nil {
		log.Error().Err(err).Msg("Could not create session")
		writeError(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	log.Info().Str("user", user.ID).Msg("Technician signed in")
	writeJSON(w, http.StatusOK, map[string]any{
		"token":         sess.Token,
		"user":          map[string]string{"id": user.ID, "email": user.Email},
		"conversations": summaries(list),
	})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.sessions.Delete(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}

// uploadManuals indexes one or more manuals. The new batch replaces any
// previously indexed chunks; files that cannot be read are skipped.
func (h *handlers) uploadManuals(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	files := r.MultipartForm.File["manuals"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no manuals in request")
		return
	}

	var pages []models.Page
	var skipped []string
	for _, fh := range files {
		filePages, err := extractUpload(fh)
		if err != nil {
			log.Warn().Err(err).Str("file", fh.Filename).Msg("Skipping unreadable manual")
			skipped = append(skipped, fh.Filename)
			continue
		}
		pages = append(pages, filePages...)
	}

	chunks := parser.ChunkPages(pages, h.cfg.RAG.ChunkSize, h.cfg.RAG.ChunkOverlap)

	sess.Mu.Lock()
	sess.Chunks = chunks
	sess.Mu.Unlock()

	log.Info().Str("user", sess.UserID).Int("files", len(files)).Int("chunks", len(chunks)).Msg("Manuals indexed")
	writeJSON(w, http.StatusOK, map[string]any{
		"chunks_indexed": len(chunks),
		"files_skipped":  skipped,
	})
}

// extractUpload spools the multipart file to disk so the path-based
// extractors can read it, then parses it into pages.
func extractUpload(fh *multipart.FileHeader) ([]models.Page, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "manual-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	return parser.ParsePages(tmp.Name(), fh.Filename)
}

func (h *handlers) ask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	question := strings.TrimSpace(req.Question)

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if len(sess.Chunks) == 0 {
		writeError(w, http.StatusConflict, "Upload one or more PDF manuals to get started.")
		return
	}

	conv := sess.Conversations.ActiveOrNew()
	conv.Append(models.RoleUser, question)
	sess.History = append(sess.History, conversation.Message{Role: models.RoleUser, Content: question})

	resp, persisted, err := h.pipeline.Ask(r.Context(), sess.UserID, question, sess.Chunks)
	if err != nil {
		if errors.Is(err, rag.ErrQuotaExceeded) {
			writeError(w, http.StatusTooManyRequests, rag.QuotaMessage)
			return
		}
		log.Error().Err(err).Str("user", sess.UserID).Msg("Generation failed")
		writeError(w, http.StatusBadGateway, "The assistant could not answer. Please try again.")
		return
	}

	conv.Append(models.RoleAssistant, resp.Content)
	sess.History = append(sess.History, conversation.Message{Role: models.RoleAssistant, Content: resp.Content})

	html, err := renderMarkdown(resp.Content)
	if err != nil {
		log.Warn().Err(err).Msg("Markdown rendering failed")
		html = ""
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":          resp.Content,
		"answer_html":     html,
		"source":          resp.Source,
		"persisted":       persisted,
		"conversation_id": conv.ID,
	})
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": sess.History})
}

func (h *handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"conversations": summaries(sess.Conversations)})
}

func (h *handlers) newConversation(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	conv := sess.Conversations.New()
	sess.History = nil
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation": conversationSummary{ID: conv.ID, Title: conv.Title, CreatedAt: conv.CreatedAt},
	})
}

func (h *handlers) selectConversation(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	conv, ok := sess.Conversations.Select(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	sess.History = append([]conversation.Message(nil), conv.Messages...)
	writeJSON(w, http.StatusOK, map[string]any{"messages": conv.Messages})
}

func (h *handlers) deleteConversation(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	id := chi.URLParam(r, "id")
	wasActive := sess.Conversations.Active() != nil && sess.Conversations.Active().ID == id
	if !sess.Conversations.Delete(id) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if wasActive {
		sess.History = nil
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
