package pdftext

import (
	"testing"

	"github.com/dgallion1/docnif/internal/reconstruct"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

// glyphs lays out s in a 12pt monospace font starting at x.
func glyphs(s string, x, y float64) []pdflib.Text {
	const size, advance = 12.0, 7.2
	out := make([]pdflib.Text, 0, len(s))
	for i, r := range s {
		out = append(out, pdflib.Text{
			Font:     "Courier",
			FontSize: size,
			X:        x + float64(i)*advance,
			Y:        y,
			W:        advance,
			S:        string(r),
		})
	}
	return out
}

func concat(parts ...[]pdflib.Text) []pdflib.Text {
	var out []pdflib.Text
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestPageFragments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []pdflib.Text
		want  []reconstruct.Fragment
	}{
		{
			name:  "contiguous glyphs form one run",
			texts: glyphs("Hello world", 72, 700),
			want:  []reconstruct.Fragment{{Text: "Hello world", Y: 700}},
		},
		{
			name:  "word gap without space glyph inserts a space",
			texts: concat(glyphs("Hello", 72, 700), glyphs("world", 72+6*7.2, 700)),
			want:  []reconstruct.Fragment{{Text: "Hello world", Y: 700}},
		},
		{
			name:  "new baseline starts a new run",
			texts: concat(glyphs("first", 72, 700), glyphs("second", 72, 686)),
			want: []reconstruct.Fragment{
				{Text: "first", Y: 700},
				{Text: "second", Y: 686},
			},
		},
		{
			name:  "wide gap on one baseline splits columns",
			texts: concat(glyphs("Left", 72, 500), glyphs("Right", 400, 500)),
			want: []reconstruct.Fragment{
				{Text: "Left", Y: 500},
				{Text: "Right", Y: 500},
			},
		},
		{
			name:  "sub-point baseline jitter stays in the run",
			texts: concat(glyphs("ab", 72, 700), glyphs("cd", 72+2*7.2, 700.3)),
			want:  []reconstruct.Fragment{{Text: "abcd", Y: 700}},
		},
		{
			name: "newline glyphs are skipped",
			texts: concat(glyphs("ab", 72, 700), []pdflib.Text{{S: "\n", X: 86.4, Y: 700}, {S: "", X: 86.4, Y: 700}},
				glyphs("cd", 72+2*7.2, 700)),
			want: []reconstruct.Fragment{{Text: "abcd", Y: 700}},
		},
		{
			name:  "no glyphs",
			texts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PageFragments(tt.texts))
		})
	}
}
