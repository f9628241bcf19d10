package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docnif/internal/document"
	"github.com/dgallion1/docnif/internal/pdftext"
)

// ErrUnsupported is returned for files no registered parser handles.
var ErrUnsupported = errors.New("unsupported file type")

// Parser converts raw document bytes into document text.
type Parser interface {
	Parse(ctx context.Context, r io.Reader, filename string) (*document.Document, error)
}

// Registry maps file extensions to parsers. PDF is always registered; the
// plain text, markdown, HTML and DOCX parsers only when extra formats are
// enabled.
type Registry struct {
	parsers map[string]Parser
}

func NewRegistry(ex *pdftext.Extractor, extraFormats bool) *Registry {
	reg := &Registry{parsers: map[string]Parser{
		".pdf": &PDFParser{Extractor: ex},
	}}
	if extraFormats {
		md := &MarkdownParser{}
		html := &HTMLParser{}
		reg.parsers[".txt"] = &TextParser{}
		reg.parsers[".md"] = md
		reg.parsers[".markdown"] = md
		reg.parsers[".html"] = html
		reg.parsers[".htm"] = html
		reg.parsers[".docx"] = &DOCXParser{}
	}
	return reg
}

// ForFile returns the parser for a filename.
func (r *Registry) ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	p, ok := r.parsers[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	return p, nil
}

// IsSupported checks if a file extension is supported.
func (r *Registry) IsSupported(filename string) bool {
	_, ok := r.parsers[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extensions lists the supported extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	return exts
}

// joinParagraphs trims each paragraph, drops empty ones and joins the rest
// with a blank line.
func joinParagraphs(paragraphs []string) string {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// singlePage wraps non-paged text into a document.
func singlePage(filename, title, text string) *document.Document {
	if title == "" {
		title = document.Title(filename)
	}
	doc := &document.Document{Title: title, Text: text}
	if text != "" {
		doc.Pages = []document.Page{{Number: 1, Text: text}}
	}
	return doc
}
