// Package chunker splits documents into overlapping passages for
// indexing.
package chunker

import "strings"

// CharacterChunker produces fixed-size character windows with overlap,
// preferring to break at whitespace near the window edge so passages
// stay readable.
type CharacterChunker struct {
	size    int
	overlap int
}

func NewCharacterChunker(size, overlap int) *CharacterChunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 100
		if overlap >= size {
			overlap = size / 10
		}
	}
	return &CharacterChunker{size: size, overlap: overlap}
}

// Chunk splits text into passages. Blank input yields no passages.
func (c *CharacterChunker) Chunk(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Walk back to the nearest whitespace, but never give up
			// more than the overlap.
			cut := end
			for cut > start+c.size-c.overlap && !isSpace(runes[cut-1]) {
				cut--
			}
			if cut > start {
				end = cut
			}
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
		// The overlap must never cancel the window's advance; on a long
		// spaceless run, give up the overlap instead of stalling.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
