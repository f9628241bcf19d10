package document

import (
	"path/filepath"
	"strings"
)

// Document is the plain-text result of parsing one uploaded file.
type Document struct {
	Title string // From metadata or filename
	Pages []Page // Per-page text, in page order (single page for non-paged formats)
	Text  string // Full document text, paragraphs separated by a blank line
}

// Page is the text of one source page.
type Page struct {
	Number int
	Text   string
}

// WordCount returns the number of whitespace-separated words in Text.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Text))
}

// Title derives a document title from a filename by dropping directories
// and the extension.
func Title(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
