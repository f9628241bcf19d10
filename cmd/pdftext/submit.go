package main

import (
	"fmt"
	"path/filepath"

	"github.com/dgallion1/docnif/internal/document"
	"github.com/dgallion1/docnif/internal/nif"
)

// Run executes the submit command.
func (c *SubmitCmd) Run(deps *Dependencies) error {
	ex, err := c.extractor(deps)
	if err != nil {
		return err
	}

	res, err := ex.ExtractFile(deps.Ctx, c.File)
	if err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(c.File), err)
	}

	name := c.Name
	if name == "" {
		name = document.Title(c.File)
	}

	backend := deps.Backend
	if backend == nil {
		client := nif.NewClient(nif.ClientConfig{BaseURL: c.Backend, Logger: deps.Logger})
		defer client.Close()
		backend = client
	}

	resp, err := backend.Process(deps.Ctx, nif.ProcessRequest{
		Text:         res.Text,
		DocumentName: name,
		Language:     nif.Language(c.Language),
	})
	if err != nil {
		return fmt.Errorf("submit %s: %w", name, err)
	}

	if resp.Message != "" {
		fmt.Fprintln(deps.Stdout, resp.Message)
	}
	fmt.Fprintf(deps.Stdout, "Graph ID:        %s\n", resp.GraphID)
	fmt.Fprintf(deps.Stdout, "Graph URI:       %s\n", resp.GraphURI)
	fmt.Fprintf(deps.Stdout, "SPARQL endpoint: %s\n", resp.SparqlEndpoint)
	if resp.LodviewURL != "" {
		fmt.Fprintf(deps.Stdout, "LodView:         %s\n", resp.LodviewURL)
	}
	return nil
}
