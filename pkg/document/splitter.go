package document

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Passage is one retrieval unit. Offset is the byte offset of Text inside
// the segment it was cut from.
type Passage struct {
	Text   string
	Offset int
	Source string
}

// SplitPassages cuts every segment into overlapping passages of roughly
// chunkSize characters, preferring paragraph, then line, then word boundaries.
func SplitPassages(segments []Segment, chunkSize, overlap int) []Passage {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	s := splitter{size: chunkSize, overlap: overlap}

	var passages []Passage
	for _, seg := range segments {
		cursor := 0
		for _, chunk := range s.split(seg.Text, defaultSeparators) {
			offset := strings.Index(seg.Text[cursor:], chunk)
			if offset < 0 {
				offset = strings.Index(seg.Text, chunk)
			} else {
				offset += cursor
			}
			if offset >= 0 {
				cursor = offset + 1
			}
			passages = append(passages, Passage{Text: chunk, Offset: offset, Source: seg.Source})
		}
	}
	return passages
}

type splitter struct {
	size    int
	overlap int
}

func (s splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, sep)
	}

	var out, pending []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) < s.size {
			pending = append(pending, p)
			continue
		}
		if len(pending) > 0 {
			out = append(out, s.merge(pending, sep)...)
			pending = nil
		}
		if len(rest) == 0 {
			out = append(out, p)
		} else {
			out = append(out, s.split(p, rest)...)
		}
	}
	if len(pending) > 0 {
		out = append(out, s.merge(pending, sep)...)
	}
	return out
}

// merge packs small pieces into chunks, carrying up to s.overlap
// characters of the previous chunk into the next one.
func (s splitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var (
		chunks  []string
		current []string
		total   int
	)
	joinedLen := func(n int) int {
		if len(current) > 0 {
			return total + n + sepLen
		}
		return total + n
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if joinedLen(n) > s.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (joinedLen(n) > s.size && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
