package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/dgallion1/docnif/cmd/pdftext"
	"github.com/dgallion1/docnif/internal/pdftext/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePDF(t *testing.T, name string, pages ...[]pdftest.Line) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pdftest.Build(pages...), 0o600))
	return path
}

var reportPage = []pdftest.Line{
	{Text: "Title", X: 72, Y: 700},
	{Text: "Intro line", X: 72, Y: 686},
	{Text: "More intro", X: 72, Y: 672},
	{Text: "Section", X: 72, Y: 600},
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints reconstructed text of a single file", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "report.pdf", reportPage)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.Run(context.Background(), []string{"extract", path}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, "Title Intro line More intro\n\nSection\n", stdout.String())
	})

	t.Run("ascending order", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "report.pdf", reportPage)
		stdout := &bytes.Buffer{}

		err := main.Run(context.Background(), []string{"extract", "--order", "ascending", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Section\n\nMore intro Intro line Title\n", stdout.String())
	})

	t.Run("multiple files print in argument order with headers", func(t *testing.T) {
		t.Parallel()

		first := writePDF(t, "a.pdf", []pdftest.Line{{Text: "alpha", X: 72, Y: 700}})
		second := writePDF(t, "b.pdf", []pdftest.Line{{Text: "beta", X: 72, Y: 700}})
		stdout := &bytes.Buffer{}

		cmd := &main.ExtractCmd{
			ExtractOptions: main.ExtractOptions{Order: "top-down"},
			Files:          []string{first, second},
			Concurrency:    2,
		}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}})

		require.NoError(t, err)
		want := "==> " + first + " <==\nalpha\n\n==> " + second + " <==\nbeta\n"
		assert.Equal(t, want, stdout.String())
	})

	t.Run("page limit", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "two.pdf",
			[]pdftest.Line{{Text: "first", X: 72, Y: 700}},
			[]pdftest.Line{{Text: "second", X: 72, Y: 700}},
		)
		stdout := &bytes.Buffer{}

		err := main.Run(context.Background(), []string{"extract", "--pages", "1", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "first\n", stdout.String())
	})

	t.Run("one bad file fails the run and prints nothing", func(t *testing.T) {
		t.Parallel()

		good := writePDF(t, "good.pdf", reportPage)
		bad := filepath.Join(t.TempDir(), "bad.pdf")
		require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4\nnot really a pdf\n"), 0o600))
		stdout := &bytes.Buffer{}

		cmd := &main.ExtractCmd{
			ExtractOptions: main.ExtractOptions{Order: "top-down"},
			Files:          []string{good, bad},
			Concurrency:    1,
		}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "extract bad.pdf")
		assert.Empty(t, stdout.String())
	})

	t.Run("rejects unknown order", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "report.pdf", reportPage)

		err := main.Run(context.Background(), []string{"extract", "--order", "sideways", path}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

func TestRun_NoCommand(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := main.Run(context.Background(), nil, stdout, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "extract")
}
