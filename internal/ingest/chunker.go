package ingest

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidChunker = errors.New("chunk overlap must be smaller than chunk size")

// Chunker splits text on word boundaries into pieces of at most Size
// characters. Consecutive chunks share up to Overlap characters of words.
type Chunker struct {
	Size    int
	Overlap int
}

func (c Chunker) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Overlap >= c.Size {
		return ErrInvalidChunker
	}
	return nil
}

// Split returns the chunks of text. Blank text has no chunks.
func (c Chunker) Split(text string) []string {
	words := c.words(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end, length := start, 0
		for end < len(words) {
			add := utf8.RuneCountInString(words[end])
			if end > start {
				add++
			}
			if end > start && length+add > c.Size {
				break
			}
			length += add
			end++
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}

		// carry trailing words into the next chunk, always moving forward
		next, carried := end, 0
		for next > start+1 {
			add := utf8.RuneCountInString(words[next-1])
			if carried > 0 {
				add++
			}
			if carried+add > c.Overlap {
				break
			}
			carried += add
			next--
		}
		start = next
	}
	return chunks
}

// words splits on whitespace and breaks up words longer than Size
func (c Chunker) words(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		for utf8.RuneCountInString(f) > c.Size {
			r := []rune(f)
			out = append(out, string(r[:c.Size]))
			f = string(r[c.Size:])
		}
		out = append(out, f)
	}
	return out
}
