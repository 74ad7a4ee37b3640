package results

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceContext(t *testing.T) {
	text := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello\")\n}\n"

	tests := []struct {
		name         string
		startLine    int
		endLine      int
		contextLines int
		expected     *SourceContext
	}{
		{
			name:         "Single line with context",
			startLine:    5,
			endLine:      5,
			contextLines: 1,
			expected: &SourceContext{
				Lines: []SourceLine{
					{Number: 5, Content: "func main() {", Highlight: false},
					{Number: 6, Content: "\tfmt.Println(\"Hello\")", Highlight: true},
					{Number: 7, Content: "}", Highlight: false},
				},
			},
		},
		{
			name:         "Context clipped at start",
			startLine:    0,
			endLine:      1,
			contextLines: 2,
			expected: &SourceContext{
				Lines: []SourceLine{
					{Number: 1, Content: "package main", Highlight: true},
					{Number: 2, Content: "", Highlight: true},
					{Number: 3, Content: "import \"fmt\"", Highlight: false},
					{Number: 4, Content: "", Highlight: false},
				},
			},
		},
		{
			name:         "Context clipped at end",
			startLine:    7,
			endLine:      7,
			contextLines: 1,
			expected: &SourceContext{
				Lines: []SourceLine{
					{Number: 7, Content: "}", Highlight: false},
					{Number: 8, Content: "", Highlight: true},
				},
			},
		},
		{
			name:         "Range past the end",
			startLine:    20,
			endLine:      21,
			contextLines: 0,
			expected:     &SourceContext{Lines: []SourceLine{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSourceContext(text, tt.startLine, tt.endLine, tt.contextLines)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewSourceContext_LineBreaks(t *testing.T) {
	result := NewSourceContext("a\r\nb\rc", 1, 1, 1)

	require.Len(t, result.Lines, 3)
	assert.Equal(t, "a", result.Lines[0].Content)
	assert.Equal(t, "b", result.Lines[1].Content)
	assert.True(t, result.Lines[1].Highlight)
	assert.Equal(t, "c", result.Lines[2].Content)
}

func TestSourceContext_JSON(t *testing.T) {
	ctx := &SourceContext{
		Lines: []SourceLine{{Number: 1, Content: "x", Highlight: true}},
	}

	data, err := json.Marshal(ctx)

	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[{"number":1,"content":"x","highlight":true}]}`, string(data))
}
