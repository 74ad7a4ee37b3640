package results

import "strings"

// SourceContext represents source code context around an edited range
type SourceContext struct {
	Lines []SourceLine `json:"lines"`
}

// SourceLine represents a line of source code
type SourceLine struct {
	Number    int    `json:"number"` // Display line (1-indexed)
	Content   string `json:"content"`
	Highlight bool   `json:"highlight"`
}

// NewSourceContext returns the lines startLine through endLine of text
// (0-indexed), highlighted, with contextLines of unhighlighted lines on
// each side. Lines past the end of text are skipped.
func NewSourceContext(text string, startLine, endLine, contextLines int) *SourceContext {
	lines := strings.Split(strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n"), "\n")

	from := startLine - contextLines
	if from < 0 {
		from = 0
	}
	to := endLine + contextLines
	if to > len(lines)-1 {
		to = len(lines) - 1
	}
	if to < from {
		return &SourceContext{Lines: []SourceLine{}}
	}

	sourceLines := make([]SourceLine, 0, to-from+1)
	for i := from; i <= to; i++ {
		sourceLines = append(sourceLines, SourceLine{
			Number:    i + 1,
			Content:   lines[i],
			Highlight: i >= startLine && i <= endLine,
		})
	}
	return &SourceContext{Lines: sourceLines}
}
