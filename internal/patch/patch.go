// Package patch resolves line/character edit ranges against document text
// and produces the substituted text without touching the original.
package patch

import (
	"github.com/averycrespi/tabserver/pkg/types"
)

// line is one line of a document: content is text[start:end], the line break
// is text[end:next]
type line struct {
	start, end, next int
}

func (l line) breakWidth() int {
	return l.next - l.end
}

// splitLines splits text on \n, \r\n and lone \r. There is always at least
// one line, and a trailing break yields a final empty line.
func splitLines(text string) []line {
	lines := make([]line, 0, 16)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, line{start: start, end: i, next: i + 1})
			start = i + 1
		case '\r':
			next := i + 1
			if next < len(text) && text[next] == '\n' {
				next++
			}
			lines = append(lines, line{start: start, end: i, next: next})
			start = next
			i = next - 1
		}
	}
	return append(lines, line{start: start, end: len(text), next: len(text)})
}

// LineCount returns the number of lines in text, counting a final empty line
// after a trailing line break
func LineCount(text string) int {
	return len(splitLines(text))
}

// Offset converts pos into a byte offset into text
func Offset(text string, pos types.Position, enc Encoding) (int, error) {
	return resolve(text, splitLines(text), pos, enc, "start")
}

func resolve(text string, lines []line, pos types.Position, enc Encoding, endpoint string) (int, error) {
	if pos.Line < 0 || pos.Line >= len(lines) {
		return 0, &RangeError{Endpoint: endpoint, Bound: BoundLine, Position: pos, Limit: len(lines)}
	}
	ln := lines[pos.Line]
	content := text[ln.start:ln.end]

	if pos.Character < 0 {
		return 0, &RangeError{Endpoint: endpoint, Bound: BoundCharacter, Position: pos, Limit: enc.Units(content) + ln.breakWidth()}
	}

	idx, units, ok := enc.byteIndex(content, pos.Character)
	if !ok {
		return 0, &RangeError{Endpoint: endpoint, Bound: BoundSplit, Position: pos}
	}
	if idx >= 0 {
		return ln.start + idx, nil
	}

	// Past the content: the caret may sit inside or just after the line break.
	extra := pos.Character - units
	if extra > ln.breakWidth() {
		return 0, &RangeError{Endpoint: endpoint, Bound: BoundCharacter, Position: pos, Limit: units + ln.breakWidth()}
	}
	return ln.end + extra, nil
}

func resolveRange(text string, rng types.Range, enc Encoding) (int, int, error) {
	lines := splitLines(text)
	start, err := resolve(text, lines, rng.Start, enc, "start")
	if err != nil {
		return 0, 0, err
	}
	end, err := resolve(text, lines, rng.End, enc, "end")
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, &RangeError{Endpoint: "start", Bound: BoundOrder, Position: rng.Start, Limit: end, End: rng.End}
	}
	return start, end, nil
}

// ApplyEdit applies edit to text using UTF-16 columns and returns the new text.
// text itself is never modified; an unresolvable range returns a *RangeError.
func ApplyEdit(text string, edit types.EditRequest) (string, error) {
	return ApplyEditWithEncoding(text, edit, EncodingUTF16)
}

// ApplyEditWithEncoding is ApplyEdit with an explicit column encoding
func ApplyEditWithEncoding(text string, edit types.EditRequest, enc Encoding) (string, error) {
	start, end, err := resolveRange(text, edit.Range, enc)
	if err != nil {
		return "", err
	}
	return text[:start] + edit.ReplacementText + text[end:], nil
}

// Extract returns the text covered by rng
func Extract(text string, rng types.Range, enc Encoding) (string, error) {
	start, end, err := resolveRange(text, rng, enc)
	if err != nil {
		return "", err
	}
	return text[start:end], nil
}
