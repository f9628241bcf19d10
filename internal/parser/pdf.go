package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/dgallion1/docnif/internal/document"
	"github.com/dgallion1/docnif/internal/pdftext"
)

// PDFParser reconstructs paragraph text from PDF glyph positions.
type PDFParser struct {
	Extractor *pdftext.Extractor
}

func (p *PDFParser) Parse(ctx context.Context, r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if !pdftext.IsPDF(data) {
		return nil, fmt.Errorf("%w: %s is not a pdf file", ErrUnsupported, filename)
	}

	res, err := p.Extractor.ExtractBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &document.Document{
		Title: document.Title(filename),
		Text:  res.Text,
	}
	for i, page := range res.Pages {
		doc.Pages = append(doc.Pages, document.Page{Number: i + 1, Text: page})
	}
	return doc, nil
}
