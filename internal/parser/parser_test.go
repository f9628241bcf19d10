package parser

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/dgallion1/docnif/internal/pdftext"
	"github.com/dgallion1/docnif/internal/pdftext/pdftest"
)

func TestRegistry_PDFOnlyByDefault(t *testing.T) {
	reg := NewRegistry(pdftext.NewExtractor(pdftext.Options{}), false)

	if _, err := reg.ForFile("paper.PDF"); err != nil {
		t.Errorf("expected pdf to be supported, got %v", err)
	}
	for _, name := range []string{"notes.txt", "readme.md", "page.html", "memo.docx", "noext"} {
		_, err := reg.ForFile(name)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
		if reg.IsSupported(name) {
			t.Errorf("%s: expected IsSupported=false", name)
		}
	}
	if exts := reg.Extensions(); len(exts) != 1 || exts[0] != ".pdf" {
		t.Errorf("expected only .pdf, got %v", exts)
	}
}

func TestRegistry_ExtraFormats(t *testing.T) {
	reg := NewRegistry(pdftext.NewExtractor(pdftext.Options{}), true)

	exts := reg.Extensions()
	sort.Strings(exts)
	want := []string{".docx", ".htm", ".html", ".markdown", ".md", ".pdf", ".txt"}
	if strings.Join(exts, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, exts)
	}
	p, err := reg.ForFile("Notes.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*TextParser); !ok {
		t.Errorf("expected *TextParser, got %T", p)
	}
}

func TestPDFParser_Pages(t *testing.T) {
	data := pdftest.Build(
		[]pdftest.Line{
			{Text: "Heading", X: 72, Y: 700},
			{Text: "first line", X: 72, Y: 686},
			{Text: "second line", X: 72, Y: 672},
			{Text: "Closing", X: 72, Y: 600},
		},
		[]pdftest.Line{{Text: "Second page", X: 72, Y: 700}},
	)

	p := &PDFParser{Extractor: pdftext.NewExtractor(pdftext.Options{})}
	doc, err := p.Parse(context.Background(), bytes.NewReader(data), "paper.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "paper" {
		t.Errorf("expected title %q, got %q", "paper", doc.Title)
	}
	want := "Heading first line second line\n\nClosing\n\nSecond page"
	if doc.Text != want {
		t.Errorf("expected text %q, got %q", want, doc.Text)
	}
	if len(doc.Pages) != 2 || doc.Pages[1].Number != 2 || doc.Pages[1].Text != "Second page\n" {
		t.Errorf("unexpected pages %+v", doc.Pages)
	}
}

func TestPDFParser_RejectsNonPDF(t *testing.T) {
	p := &PDFParser{Extractor: pdftext.NewExtractor(pdftext.Options{})}
	_, err := p.Parse(context.Background(), strings.NewReader("PK\x03\x04 zipped"), "renamed.pdf")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestPDFParser_CorruptFile(t *testing.T) {
	p := &PDFParser{Extractor: pdftext.NewExtractor(pdftext.Options{})}
	doc, err := p.Parse(context.Background(), strings.NewReader("%PDF-1.4\nbroken"), "broken.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
	if doc != nil {
		t.Errorf("expected no document on failure, got %+v", doc)
	}
	if !strings.HasPrefix(err.Error(), "extract pdf text:") {
		t.Errorf("expected wrapped extraction error, got %v", err)
	}
}
