package telegram

import (
	"strings"
	"unicode/utf8"
)

// SegmentKind classifies a piece of markdown-lite text.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentCodeBlock
	SegmentInlineCode
	SegmentBold
)

// Segment is one rendered piece of a message: plain text, a fenced code
// block, inline code or bold text.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Segments splits markdown-lite text (code fences, inline code, bold)
// into ordered segments. Unterminated markers are treated as plain text.
// The function is pure; rendering is up to the display layer.
func Segments(text string) []Segment {
	var segs []Segment
	plain := func(s string) {
		if s == "" {
			return
		}
		if n := len(segs); n > 0 && segs[n-1].Kind == SegmentText {
			segs[n-1].Text += s
			return
		}
		segs = append(segs, Segment{Kind: SegmentText, Text: s})
	}

	for len(text) > 0 {
		marker, start := nextMarker(text)
		if start == -1 {
			plain(text)
			break
		}

		end := strings.Index(text[start+len(marker):], marker)
		if end == -1 {
			plain(text[:start+len(marker)])
			text = text[start+len(marker):]
			continue
		}

		plain(text[:start])
		inner := text[start+len(marker) : start+len(marker)+end]
		switch marker {
		case "```":
			segs = append(segs, Segment{Kind: SegmentCodeBlock, Text: strings.Trim(inner, "\n")})
		case "`":
			segs = append(segs, Segment{Kind: SegmentInlineCode, Text: inner})
		case "**":
			segs = append(segs, Segment{Kind: SegmentBold, Text: inner})
		}
		text = text[start+2*len(marker)+end:]
	}

	return segs
}

// nextMarker finds the earliest markdown-lite marker, preferring the
// longer ones at the same position ("```" before "`").
func nextMarker(text string) (string, int) {
	marker, at := "", -1
	for _, m := range []string{"```", "**", "`"} {
		i := strings.Index(text, m)
		if i == -1 {
			continue
		}
		if at == -1 || i < at {
			marker, at = m, i
		}
	}
	if marker == "`" && strings.HasPrefix(text[at:], "```") {
		marker = "```"
	}
	return marker, at
}

// Render converts segments to Telegram Markdown (V1) text.
func Render(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case SegmentCodeBlock:
			b.WriteString("```\n")
			b.WriteString(s.Text)
			b.WriteString("\n```")
		case SegmentInlineCode:
			b.WriteString("`")
			b.WriteString(s.Text)
			b.WriteString("`")
		case SegmentBold:
			b.WriteString("*")
			b.WriteString(s.Text)
			b.WriteString("*")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// SplitMessage splits a message into chunks of maxLen runes,
// trying to split at newlines when possible.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > maxLen {
		splitAt := maxLen

		// Prefer a newline boundary in the back half of the chunk.
		// The scan stays in rune space; byte offsets do not apply here.
		for i := maxLen - 1; i > maxLen/2; i-- {
			if runes[i] == '\n' {
				splitAt = i + 1
				break
			}
		}

		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}
