package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the cascading boundary priority: paragraph break,
// line break, sentence end, word boundary, and finally a hard character
// cut (empty separator).
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts document text into bounded, overlapping chunks. Sizes are
// counted in runes so multi-byte scripts are not cut mid-character.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter with the default separator cascade.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators,
	}
}

// Split returns ordered chunks of at most chunkSize runes. Adjacent
// chunks share up to overlap runes of trailing context. No input
// character is ever dropped: stripping each chunk's carried prefix and
// concatenating reconstructs the original text. Empty input yields nil.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.merge(s.cut(text))
}

type segment struct {
	text string
	sep  int // index of the next separator to try
}

// cut reduces text to ordered pieces no longer than chunkSize, trying
// each separator in priority order. An explicit stack replaces the
// recursion of the usual cascading implementation.
func (s *Splitter) cut(text string) []string {
	var pieces []string
	stack := []segment{{text: text}}

	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if utf8.RuneCountInString(seg.text) <= s.chunkSize {
			pieces = append(pieces, seg.text)
			continue
		}

		if seg.sep >= len(s.separators) || s.separators[seg.sep] == "" {
			pieces = append(pieces, hardCut(seg.text, s.chunkSize)...)
			continue
		}

		parts := splitAfter(seg.text, s.separators[seg.sep])
		if len(parts) == 1 {
			// Separator absent in this segment, fall through to the next one.
			stack = append(stack, segment{text: seg.text, sep: seg.sep + 1})
			continue
		}
		// Push in reverse so the leading part is processed first.
		for i := len(parts) - 1; i >= 0; i-- {
			stack = append(stack, segment{text: parts[i], sep: seg.sep + 1})
		}
	}
	return pieces
}

// merge greedily packs pieces into chunks, carrying trailing pieces up to
// the overlap budget into the start of the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var cur []string
	curLen := 0

	for _, p := range pieces {
		pLen := utf8.RuneCountInString(p)
		if curLen+pLen > s.chunkSize && curLen > 0 {
			chunks = append(chunks, strings.Join(cur, ""))

			var keep []string
			keepLen := 0
			for i := len(cur) - 1; i >= 0; i-- {
				l := utf8.RuneCountInString(cur[i])
				if keepLen+l > s.overlap {
					break
				}
				keep = append([]string{cur[i]}, keep...)
				keepLen += l
			}
			cur, curLen = keep, keepLen

			// If the carried overlap would push the new chunk over the
			// limit, the overlap loses; content completeness wins.
			if curLen+pLen > s.chunkSize {
				cur, curLen = nil, 0
			}
		}
		cur = append(cur, p)
		curLen += pLen
	}
	if curLen > 0 {
		chunks = append(chunks, strings.Join(cur, ""))
	}
	return chunks
}

// splitAfter splits text on sep, keeping the separator attached to the
// end of the preceding part so nothing is lost on reassembly.
func splitAfter(text, sep string) []string {
	var parts []string
	for {
		idx := strings.Index(text, sep)
		if idx < 0 {
			if text != "" {
				parts = append(parts, text)
			}
			if len(parts) == 0 {
				parts = append(parts, "")
			}
			return parts
		}
		parts = append(parts, text[:idx+len(sep)])
		text = text[idx+len(sep):]
	}
}

// hardCut slices text into maxLen-rune pieces on rune boundaries.
func hardCut(text string, maxLen int) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += maxLen {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
