// Package reconstruct rebuilds paragraph-segmented plain text from the
// positioned text fragments of a PDF page.
package reconstruct

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BreakFactor is the multiple of a page's mean line gap above which a gap
// starts a new paragraph.
const BreakFactor = 1.5

// Fragment is one run of text at a vertical position in PDF user space
// (origin bottom-left, y grows upward).
type Fragment struct {
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

// Order is the policy for sorting fragments by vertical position.
type Order int

const (
	// OrderTopDown sorts by descending Y, which is top-to-bottom reading
	// order when y grows upward.
	OrderTopDown Order = iota
	// OrderAscending sorts by ascending Y.
	OrderAscending
)

// DefaultOrder is used by ReconstructPage and Document.
const DefaultOrder = OrderTopDown

func (o Order) String() string {
	switch o {
	case OrderTopDown:
		return "top-down"
	case OrderAscending:
		return "ascending"
	default:
		return "unknown"
	}
}

// ParseOrder parses "top-down" or "ascending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top-down", "topdown", "descending":
		return OrderTopDown, nil
	case "ascending", "bottom-up":
		return OrderAscending, nil
	}
	return 0, fmt.Errorf("unknown reading order %q", s)
}

// Reconstructor turns page fragments into text using a fixed sort policy.
// The zero value sorts top-down.
type Reconstructor struct {
	Order Order
}

// ReconstructPage reconstructs one page using DefaultOrder.
func ReconstructPage(fragments []Fragment) string {
	return Reconstructor{Order: DefaultOrder}.Page(fragments)
}

// Document reconstructs every page using DefaultOrder and joins the result.
func Document(pages [][]Fragment) string {
	return Reconstructor{Order: DefaultOrder}.Document(pages)
}

// Document reconstructs every page in order and joins the page texts.
func (r Reconstructor) Document(pages [][]Fragment) string {
	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		texts = append(texts, r.Page(page))
	}
	return JoinPages(texts)
}

// JoinPages concatenates page texts, starting each non-empty page on a new
// paragraph, and trims the result. Empty pages contribute nothing.
func JoinPages(pages []string) string {
	var sb strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p)
	}
	return strings.TrimSpace(sb.String())
}

// Page returns the text of one page: paragraphs separated by a blank line,
// the last one terminated by a single newline. Empty input yields "".
func (r Reconstructor) Page(fragments []Fragment) string {
	lines := r.sorted(fragments)
	avg := meanGap(lines)

	var out, paragraph strings.Builder
	for i, f := range lines {
		if i > 0 && math.Abs(f.Y-lines[i-1].Y) > avg*BreakFactor {
			if p := strings.TrimSpace(paragraph.String()); p != "" {
				out.WriteString(p)
				out.WriteString("\n\n")
			}
			paragraph.Reset()
		}
		paragraph.WriteString(f.Text)
		paragraph.WriteByte(' ')
	}
	if p := strings.TrimSpace(paragraph.String()); p != "" {
		out.WriteString(p)
		out.WriteByte('\n')
	}
	return out.String()
}

// sorted drops unusable fragments and returns the rest in reading order.
// Fragments at equal positions keep their input order.
func (r Reconstructor) sorted(fragments []Fragment) []Fragment {
	lines := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if usable(f) {
			lines = append(lines, f)
		}
	}
	if r.Order == OrderAscending {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].Y < lines[j].Y })
	} else {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].Y > lines[j].Y })
	}
	return lines
}

func usable(f Fragment) bool {
	return f.Text != "" && !math.IsNaN(f.Y) && !math.IsInf(f.Y, 0)
}

// meanGap is the arithmetic mean of consecutive gaps, or 0 with fewer than
// two fragments.
func meanGap(lines []Fragment) float64 {
	if len(lines) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(lines); i++ {
		sum += math.Abs(lines[i].Y - lines[i-1].Y)
	}
	return sum / float64(len(lines)-1)
}
