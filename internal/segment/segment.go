// Package segment splits document text into paragraphs and sentences with
// the character offsets the analysis backend assigns to them.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+\s`)
)

// Span is a piece of text with its [Begin, End) offsets. Offsets count runes
// from the start of the trimmed input.
type Span struct {
	Text  string `json:"text"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
}

// Paragraph is a paragraph span with its sentences.
type Paragraph struct {
	Span
	Sentences []Span `json:"sentences"`
}

// Split trims text and cuts it into paragraphs on blank lines, then each
// paragraph into sentences after terminal punctuation followed by whitespace.
// Whitespace-only pieces are dropped.
func Split(text string) []Paragraph {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	bounds := paragraphBreak.FindAllStringIndex(text, -1)
	bounds = append(bounds, []int{len(text), len(text)})

	var out []Paragraph
	start := 0
	for _, b := range bounds {
		if s, ok := span(text, start, b[0]); ok {
			out = append(out, Paragraph{Span: s, Sentences: sentences(text, start, b[0])})
		}
		start = b[1]
	}
	return out
}

func sentences(text string, from, to int) []Span {
	var out []Span
	start := from
	for _, m := range sentenceEnd.FindAllStringIndex(text[from:to], -1) {
		end := from + m[1] - 1 // keep the punctuation, drop the whitespace
		if s, ok := span(text, start, end); ok {
			out = append(out, s)
		}
		start = end
	}
	if s, ok := span(text, start, to); ok {
		out = append(out, s)
	}
	return out
}

// span trims text[from:to] and converts the byte range to rune offsets.
func span(text string, from, to int) (Span, bool) {
	sub := text[from:to]
	trimmed := strings.TrimSpace(sub)
	if trimmed == "" {
		return Span{}, false
	}
	lead := len(sub) - len(strings.TrimLeftFunc(sub, unicode.IsSpace))
	begin := utf8.RuneCountInString(text[:from+lead])
	return Span{
		Text:  trimmed,
		Begin: begin,
		End:   begin + utf8.RuneCountInString(trimmed),
	}, true
}

// Stats summarizes a segmentation.
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Sentences  int `json:"sentences"`
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// Summarize counts paragraphs, sentences, words and runes.
func Summarize(paragraphs []Paragraph) Stats {
	var s Stats
	for _, p := range paragraphs {
		s.Paragraphs++
		s.Sentences += len(p.Sentences)
		s.Words += len(strings.Fields(p.Text))
		s.Characters += p.End - p.Begin
	}
	return s
}
