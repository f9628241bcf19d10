// Package pdftext extracts paragraph-segmented text from PDF files. Glyph
// decoding is done by github.com/ledongthuc/pdf; paragraph reconstruction by
// package reconstruct.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/docnif/internal/reconstruct"
	pdflib "github.com/ledongthuc/pdf"
)

// Options configure an Extractor. They are fixed at construction.
type Options struct {
	Order    reconstruct.Order
	MaxPages int // 0 means all pages
	Logger   *slog.Logger
}

// Extractor turns PDF bytes into document text.
type Extractor struct {
	rec      reconstruct.Reconstructor
	maxPages int
	log      *slog.Logger
}

// Result holds the reconstructed text of every page and of the document.
type Result struct {
	Pages []string // PageText per page, untrimmed
	Text  string   // Joined and trimmed DocumentText
}

// NewExtractor returns an Extractor; a nil Logger discards logs.
func NewExtractor(opts Options) *Extractor {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{
		rec:      reconstruct.Reconstructor{Order: opts.Order},
		maxPages: opts.MaxPages,
		log:      log,
	}
}

// Order returns the reading order the extractor sorts fragments by.
func (e *Extractor) Order() reconstruct.Order {
	return e.rec.Order
}

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// ExtractBytes extracts text from an in-memory PDF.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte) (*Result, error) {
	if !IsPDF(data) {
		return nil, fmt.Errorf("not a pdf file")
	}
	return e.Extract(ctx, bytes.NewReader(data), int64(len(data)))
}

// ExtractFile extracts text from the PDF at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	return e.Extract(ctx, f, info.Size())
}

// Extract reads pages one at a time, in order. Any failure, including
// cancellation between pages, aborts the whole document and no partial
// text is returned.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (*Result, error) {
	start := time.Now()

	reader, err := openReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	if e.maxPages > 0 && numPages > e.maxPages {
		numPages = e.maxPages
	}

	res := &Result{Pages: make([]string, 0, numPages)}
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frags, err := pageFragments(reader, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		res.Pages = append(res.Pages, e.rec.Page(frags))
	}
	res.Text = reconstruct.JoinPages(res.Pages)

	e.log.Debug("pdf extracted",
		"pages", numPages,
		"chars", len(res.Text),
		"order", e.rec.Order.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// openReader and pageFragments convert panics raised by the PDF library on
// malformed input into errors.
func openReader(r io.ReaderAt, size int64) (reader *pdflib.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	return pdflib.NewReader(r, size)
}

func pageFragments(reader *pdflib.Reader, num int) (frags []reconstruct.Fragment, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page content: %v", p)
		}
	}()
	page := reader.Page(num)
	if page.V.IsNull() {
		return nil, nil
	}
	return PageFragments(page.Content().Text), nil
}
