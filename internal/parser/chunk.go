package parser

import "elevator-chat/internal/models"

// chunkContent splits content into fixed windows of maxChars stepping by
// maxChars-overlapChars. Content no longer than maxChars comes back as a
// single chunk.
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 || len(content) == 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	var chunks []string
	for start := 0; ; start += maxChars - overlapChars {
		end := start + maxChars
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}

// ChunkPages windows every page independently so that no chunk ever spans a
// page boundary. Output keeps page order, then window order within the page.
func ChunkPages(pages []models.Page, maxChars, overlapChars int) []models.Chunk {
	var chunks []models.Chunk
	for _, page := range pages {
		for i, window := range chunkContent(page.Text, maxChars, overlapChars) {
			chunks = append(chunks, models.Chunk{
				Content:    window,
				PageNumber: page.Number,
				SourceFile: page.SourceFile,
				ChunkID:    i + 1,
			})
		}
	}
	return chunks
}
