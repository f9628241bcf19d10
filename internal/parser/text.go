package parser

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/dgallion1/docnif/internal/document"
)

// TextParser handles plain text files. Lines are joined with a space within
// a paragraph; blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(_ context.Context, r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = current[:0]
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return singlePage(filename, "", joinParagraphs(paragraphs)), nil
}
