package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain text",
			in:   "hello world",
			want: []Segment{{Kind: SegmentText, Text: "hello world"}},
		},
		{
			name: "inline code",
			in:   "run `go build` now",
			want: []Segment{
				{Kind: SegmentText, Text: "run "},
				{Kind: SegmentInlineCode, Text: "go build"},
				{Kind: SegmentText, Text: " now"},
			},
		},
		{
			name: "code fence",
			in:   "before ```\nfunc main() {}\n``` after",
			want: []Segment{
				{Kind: SegmentText, Text: "before "},
				{Kind: SegmentCodeBlock, Text: "func main() {}"},
				{Kind: SegmentText, Text: " after"},
			},
		},
		{
			name: "bold",
			in:   "this is **important** stuff",
			want: []Segment{
				{Kind: SegmentText, Text: "this is "},
				{Kind: SegmentBold, Text: "important"},
				{Kind: SegmentText, Text: " stuff"},
			},
		},
		{
			name: "unterminated inline code stays plain",
			in:   "broken `code",
			want: []Segment{{Kind: SegmentText, Text: "broken `code"}},
		},
		{
			name: "unterminated fence stays plain",
			in:   "```code",
			want: []Segment{{Kind: SegmentText, Text: "```code"}},
		},
		{
			name: "fence wins over inline at same position",
			in:   "```x```",
			want: []Segment{{Kind: SegmentCodeBlock, Text: "x"}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	in := "say `hi` like **this**:\n```\nfmt.Println(\"hi\")\n```"
	got := Render(Segments(in))

	assert.Equal(t, "say `hi` like *this*:\n```\nfmt.Println(\"hi\")\n```", got)
}

func TestSplitMessage(t *testing.T) {
	t.Run("short passes through", func(t *testing.T) {
		assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	})

	t.Run("prefers newline boundary", func(t *testing.T) {
		parts := SplitMessage("aaaa\nbbbb\ncccc", 10)
		assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, parts)
	})

	t.Run("hard split without newlines", func(t *testing.T) {
		parts := SplitMessage(strings.Repeat("x", 25), 10)
		assert.Equal(t, []string{
			strings.Repeat("x", 10),
			strings.Repeat("x", 10),
			strings.Repeat("x", 5),
		}, parts)
	})

	t.Run("multibyte text splits at newline", func(t *testing.T) {
		// A long Cyrillic reply with a newline past the chunk midpoint.
		// Newline offsets in runes and bytes diverge here, so the split
		// must be computed in rune space.
		text := strings.Repeat("д", 3000) + "\n" + strings.Repeat("д", 1999)
		parts := SplitMessage(text, 4096)

		require.Len(t, parts, 2)
		assert.Equal(t, 3001, utf8.RuneCountInString(parts[0]))
		assert.Equal(t, 1999, utf8.RuneCountInString(parts[1]))
		assert.Equal(t, text, strings.Join(parts, ""))
	})

	t.Run("multibyte hard split preserves runes", func(t *testing.T) {
		text := strings.Repeat("ж", 25)
		parts := SplitMessage(text, 10)

		require.Len(t, parts, 3)
		for _, part := range parts[:2] {
			assert.Equal(t, 10, utf8.RuneCountInString(part))
		}
		assert.Equal(t, text, strings.Join(parts, ""))
	})
}
