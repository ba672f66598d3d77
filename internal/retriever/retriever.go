package retriever

import (
	"regexp"
	"sort"
	"strings"

	"elevator-chat/internal/models"
)

var wordRe = regexp.MustCompile(`\w+`)

// stopwords carries question filler that would otherwise match every chunk.
// Tokens of length <= 2 are dropped before this set is consulted.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "how": {}, "why": {},
	"does": {}, "mean": {}, "can": {}, "are": {}, "was": {}, "you": {},
	"its": {}, "from": {}, "about": {}, "into": {}, "have": {}, "has": {},
	"will": {}, "would": {}, "should": {}, "there": {},
}

// Tokenize lowercases the question and keeps the distinct word tokens that
// survive the length and stopword filters, in first-seen order.
func Tokenize(question string) []string {
	var tokens []string
	seen := map[string]struct{}{}
	for _, t := range wordRe.FindAllString(strings.ToLower(question), -1) {
		if len(t) <= 2 {
			continue
		}
		if _, ok := stopwords[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// Score sums the occurrence count of every question token in the chunk's
// lowercased text.
func Score(tokens []string, chunk models.Chunk) int {
	text := strings.ToLower(chunk.Content)
	score := 0
	for _, t := range tokens {
		score += strings.Count(text, t)
	}
	return score
}

// TopK returns the k best-scoring chunks for the question, highest first.
// Chunks with no overlapping token are never returned; ties keep input order.
func TopK(question string, chunks []models.Chunk, k int) []models.Chunk {
	tokens := Tokenize(question)
	if len(tokens) == 0 || k <= 0 {
		return nil
	}

	type scored struct {
		chunk models.Chunk
		score int
	}
	var matches []scored
	for _, chunk := range chunks {
		if s := Score(tokens, chunk); s > 0 {
			matches = append(matches, scored{chunk: chunk, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	result := make([]models.Chunk, len(matches))
	for i, m := range matches {
		result[i] = m.chunk
	}
	return result
}
