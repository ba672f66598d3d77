package models

// Page is the plain text of a single manual page, produced once at upload time.
type Page struct {
	Number     int
	Text       string
	SourceFile string
}

// Chunk represents a retrieval window over a page with metadata
type Chunk struct {
	Content    string
	PageNumber int
	SourceFile string
	ChunkID    int
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
