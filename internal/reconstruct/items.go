package reconstruct

import (
	"encoding/json"
	"math"
)

// Item is a text content item as reported by pdf.js getTextContent.
// Transform is the 6-element text matrix; its last entry is the baseline y.
// It is kept raw so a null or non-numeric position drops the item instead
// of failing the whole decode.
type Item struct {
	Str       string          `json:"str"`
	Transform json.RawMessage `json:"transform"`
}

// baseline returns the item's y position and whether it is a finite number.
func (it Item) baseline() (float64, bool) {
	var matrix []json.RawMessage
	if err := json.Unmarshal(it.Transform, &matrix); err != nil || len(matrix) != 6 {
		return 0, false
	}
	var y *float64
	if err := json.Unmarshal(matrix[5], &y); err != nil || y == nil {
		return 0, false
	}
	if math.IsNaN(*y) || math.IsInf(*y, 0) {
		return 0, false
	}
	return *y, true
}

// FromItems converts content items to fragments. Items without text or
// without a numeric baseline in a 6-element transform are ignored.
func FromItems(items []Item) []Fragment {
	out := make([]Fragment, 0, len(items))
	for _, it := range items {
		if it.Str == "" {
			continue
		}
		y, ok := it.baseline()
		if !ok {
			continue
		}
		out = append(out, Fragment{Text: it.Str, Y: y})
	}
	return out
}
