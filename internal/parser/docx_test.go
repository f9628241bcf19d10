package parser

import (
	"bytes"
	"context"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestDOCXParser_Paragraphs(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("First paragraph.")
	w.AddParagraph()
	w.AddParagraph().AddText("Second paragraph.")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	p := &DOCXParser{}
	doc, err := p.Parse(context.Background(), &buf, "memo.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "memo" {
		t.Errorf("expected title %q, got %q", "memo", doc.Title)
	}
	if doc.Text != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("unexpected text %q", doc.Text)
	}
}

func TestDOCXParser_InvalidArchive(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(context.Background(), bytes.NewReader([]byte("not a zip")), "bad.docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}
