package document

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPassagesShortText(t *testing.T) {
	passages := SplitPassages([]Segment{{Text: "A collar that talks.", Source: "brief.txt"}}, DefaultChunkSize, DefaultChunkOverlap)

	require.Len(t, passages, 1)
	assert.Equal(t, "A collar that talks.", passages[0].Text)
	assert.Equal(t, 0, passages[0].Offset)
	assert.Equal(t, "brief.txt", passages[0].Source)
}

func TestSplitPassagesRespectsSizeAndOffsets(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("Paragraph %02d %s", i, strings.Repeat("bark ", 20)))
	}
	text := strings.Join(paragraphs, "\n\n")

	passages := SplitPassages([]Segment{{Text: text, Source: "doc"}}, 300, 50)
	require.Greater(t, len(passages), 1)

	prev := -1
	for _, p := range passages {
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), 300)
		require.GreaterOrEqual(t, p.Offset, 0)
		assert.Equal(t, p.Text, text[p.Offset:p.Offset+len(p.Text)])
		assert.Greater(t, p.Offset, prev)
		prev = p.Offset
	}
	assert.True(t, strings.HasPrefix(passages[0].Text, "Paragraph 00"))
	assert.Contains(t, passages[len(passages)-1].Text, "Paragraph 39")
}

func TestSplitPassagesOverlap(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	text := strings.Join(words, " ")

	passages := SplitPassages([]Segment{{Text: text}}, 50, 20)
	require.Greater(t, len(passages), 2)

	// consecutive passages share their boundary words
	for i := 1; i < len(passages); i++ {
		prevWords := strings.Fields(passages[i-1].Text)
		assert.Contains(t, passages[i].Text, prevWords[len(prevWords)-1])
	}
}

func TestSplitPassagesSkipsBlank(t *testing.T) {
	passages := SplitPassages([]Segment{{Text: "   \n\n  "}}, DefaultChunkSize, DefaultChunkOverlap)
	assert.Empty(t, passages)
}
