package parser

import (
	"strings"
	"testing"

	"elevator-chat/internal/models"

	"github.com/stretchr/testify/require"
)

func TestChunkContentShortTextSingleChunk(t *testing.T) {
	text := "Error 05-12 indicates motor overload."
	chunks := chunkContent(text, 1500, 300)
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0])
}

func TestChunkContentEmpty(t *testing.T) {
	require.Nil(t, chunkContent("", 1500, 300))
}

func TestChunkContentWindowArithmetic(t *testing.T) {
	cases := []struct {
		length, size, overlap int
	}{
		{10, 4, 1},
		{12, 4, 1},
		{1501, 1500, 300},
		{5000, 1500, 300},
		{3000, 1000, 500},
	}
	for _, tc := range cases {
		text := strings.Repeat("a", tc.length)
		chunks := chunkContent(text, tc.size, tc.overlap)

		step := tc.size - tc.overlap
		want := (tc.length - tc.overlap + step - 1) / step // ceil((L-O)/(W-O))
		require.Len(t, chunks, want, "L=%d W=%d O=%d", tc.length, tc.size, tc.overlap)

		// every window is at most W long and the union covers [0, L)
		covered := 0
		for i, c := range chunks {
			require.LessOrEqual(t, len(c), tc.size)
			start := i * step
			require.LessOrEqual(t, start, covered, "gap before window %d", i)
			if start+len(c) > covered {
				covered = start + len(c)
			}
		}
		require.Equal(t, tc.length, covered)
	}
}

func TestChunkContentOverlapRepeatsTail(t *testing.T) {
	text := "abcdefghij"
	chunks := chunkContent(text, 4, 2)
	require.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
}

func TestChunkPagesNeverCrossPageBoundaries(t *testing.T) {
	pages := []models.Page{
		{Number: 1, Text: strings.Repeat("x", 2500), SourceFile: "manual.pdf"},
		{Number: 3, Text: "short page", SourceFile: "manual.pdf"},
		{Number: 1, Text: "other file", SourceFile: "codes.txt"},
	}

	chunks := ChunkPages(pages, 1500, 300)
	require.Len(t, chunks, 4)

	// page order, then window order within page
	require.Equal(t, 1, chunks[0].PageNumber)
	require.Equal(t, 1, chunks[0].ChunkID)
	require.Equal(t, 1, chunks[1].PageNumber)
	require.Equal(t, 2, chunks[1].ChunkID)
	require.Equal(t, 3, chunks[2].PageNumber)
	require.Equal(t, "short page", chunks[2].Content)
	require.Equal(t, "codes.txt", chunks[3].SourceFile)

	for _, c := range chunks {
		require.LessOrEqual(t, len(c.Content), 1500)
		require.NotEmpty(t, c.SourceFile)
	}
}

func TestChunkPagesEmptyInput(t *testing.T) {
	require.Empty(t, ChunkPages(nil, 1500, 300))
}
