package ingest

import (
	"strings"
	"unicode"

	"github.com/akolanti/mindsync/internal/domain/commonModels"
)

const paragraphBreak = "\n\n"

var sentenceBreaks = []string{". ", "! ", "? "}

// SplitText cuts text into overlapping chunks of at most size runes (plus the 2 rune separator it snaps to).
// Chunk ends prefer the last paragraph break inside the window, then the last sentence end.
// Offsets are rune positions in the normalized text.
func SplitText(text string, size, overlap int) ([]commonModels.Chunk, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunkConfig
	}

	r := []rune(normalizeWhitespace(text))
	n := len(r)
	if n == 0 {
		return nil, ErrEmptyDocument
	}

	var chunks []commonModels.Chunk
	start := 0
	for start < n {
		end := start + size
		if end < n {
			if p := lastIndexRunes(r, paragraphBreak, end, start); p > start {
				end = p + 2
			} else if p := lastSentenceBreak(r, end, start); p > start {
				end = p + 2
			}
		} else {
			end = n
		}

		content := strings.TrimSpace(string(r[start:end]))
		if content != "" {
			chunks = append(chunks, commonModels.Chunk{
				Content: content,
				Index:   len(chunks),
				Metadata: commonModels.ChunkMetadata{
					StartChar: start,
					EndChar:   end,
					WordCount: len(strings.Fields(content)),
				},
			})
		}

		if end >= n {
			break
		}
		next := end - overlap
		if next <= start {
			// the snap landed too close to start for the overlap to make progress
			next = end
		}
		start = next
	}
	return chunks, nil
}

// normalizeWhitespace keeps paragraph breaks and squeezes every other run of whitespace into one space
func normalizeWhitespace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !unicode.IsSpace(runes[i]) {
			sb.WriteRune(runes[i])
			i++
			continue
		}
		j, newlines := i, 0
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			if runes[j] == '\n' {
				newlines++
			}
			j++
		}
		switch {
		case newlines >= 2:
			sb.WriteString(paragraphBreak)
		case j-i >= 2:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(runes[i])
		}
		i = j
	}
	return strings.TrimSpace(sb.String())
}

// lastIndexRunes finds the last occurrence of sep starting in (floor, from], -1 if none
func lastIndexRunes(r []rune, sep string, from, floor int) int {
	s := []rune(sep)
	if from > len(r)-len(s) {
		from = len(r) - len(s)
	}
	for i := from; i > floor; i-- {
		match := true
		for k := range s {
			if r[i+k] != s[k] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lastSentenceBreak(r []rune, from, floor int) int {
	best := -1
	for _, sep := range sentenceBreaks {
		if p := lastIndexRunes(r, sep, from, floor); p > best {
			best = p
		}
	}
	return best
}
