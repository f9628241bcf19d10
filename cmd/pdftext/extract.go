package main

import (
	"fmt"
	"path/filepath"

	"github.com/dgallion1/docnif/internal/pdftext"
	"github.com/dgallion1/docnif/internal/reconstruct"
	"golang.org/x/sync/errgroup"
)

func (o ExtractOptions) extractor(deps *Dependencies) (*pdftext.Extractor, error) {
	order, err := reconstruct.ParseOrder(o.Order)
	if err != nil {
		return nil, err
	}
	return pdftext.NewExtractor(pdftext.Options{
		Order:    order,
		MaxPages: o.Pages,
		Logger:   deps.Logger,
	}), nil
}

// Run executes the extract command. Files are read in parallel; output is
// printed in argument order once all files succeed.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	ex, err := c.extractor(deps)
	if err != nil {
		return err
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	texts := make([]string, len(c.Files))
	g, gctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for i, path := range c.Files {
		g.Go(func() error {
			res, err := ex.ExtractFile(gctx, path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", filepath.Base(path), err)
			}
			texts[i] = res.Text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range c.Files {
		if len(c.Files) > 1 {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "==> %s <==\n", path)
		}
		fmt.Fprintln(deps.Stdout, texts[i])
	}
	return nil
}
