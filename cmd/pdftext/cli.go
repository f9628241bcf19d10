package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/dgallion1/docnif/internal/nif"
)

// Processor submits document text to the NIF backend.
type Processor interface {
	Process(ctx context.Context, req nif.ProcessRequest) (*nif.ProcessResponse, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Backend overrides the HTTP client built from --backend.
	Backend Processor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log extraction details to stderr"`

	Extract ExtractCmd `cmd:"" help:"Print the paragraph text of PDF files"`
	Submit  SubmitCmd  `cmd:"" help:"Extract a PDF and submit its text to the NIF backend"`
}

// ExtractOptions are the flags shared by commands that read PDFs.
type ExtractOptions struct {
	Order string `default:"top-down" enum:"top-down,ascending" help:"Fragment sort order (top-down or ascending)"`
	Pages int    `default:"0" help:"Only read the first N pages (0 reads all)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	ExtractOptions `embed:""`

	Files       []string `arg:"" help:"PDF files to extract"`
	Concurrency int      `short:"c" default:"4" help:"Files extracted in parallel"`
}

// SubmitCmd is the "submit" subcommand.
type SubmitCmd struct {
	ExtractOptions `embed:""`

	File     string `arg:"" type:"existingfile" help:"PDF file to submit"`
	Name     string `short:"n" help:"Document name (defaults to the file name)"`
	Language string `short:"l" default:"english" enum:"english,german" help:"Document language"`
	Backend  string `env:"BACKEND_URL" default:"http://localhost:5000" help:"NIF backend base URL"`
}
