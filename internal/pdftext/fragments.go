package pdftext

import (
	"math"
	"strings"

	"github.com/dgallion1/docnif/internal/reconstruct"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	baselineTolerance = 0.5   // max |dy| for glyphs on one baseline
	spaceGapFactor    = 0.125 // gap >= fontSize*factor reads as a word space
	runBreakFactor    = 3.0   // gap > fontSize*factor starts a new run
	overlapFactor     = 0.5   // gap < -fontSize*factor starts a new run
)

// PageFragments merges the glyphs of a page, in content stream order, into
// text runs on a shared baseline. Each run becomes one fragment positioned at
// the baseline of its first glyph.
func PageFragments(texts []pdflib.Text) []reconstruct.Fragment {
	var (
		frags []reconstruct.Fragment
		run   strings.Builder
		runY  float64
		prev  pdflib.Text
		open  bool
	)

	flush := func() {
		if open && run.Len() > 0 {
			frags = append(frags, reconstruct.Fragment{Text: run.String(), Y: runY})
		}
		run.Reset()
		open = false
	}

	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		if open && sameRun(prev, t) {
			if needsSpace(prev, t) {
				run.WriteByte(' ')
			}
			run.WriteString(t.S)
			prev = t
			continue
		}
		flush()
		run.WriteString(t.S)
		runY = t.Y
		prev = t
		open = true
	}
	flush()
	return frags
}

func sameRun(prev, next pdflib.Text) bool {
	if math.Abs(next.Y-prev.Y) > baselineTolerance {
		return false
	}
	size := fontSize(prev)
	gap := next.X - (prev.X + prev.W)
	return gap >= -size*overlapFactor && gap <= size*runBreakFactor
}

func needsSpace(prev, next pdflib.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	gap := next.X - (prev.X + prev.W)
	return gap >= fontSize(prev)*spaceGapFactor
}

func fontSize(t pdflib.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return 10
}
