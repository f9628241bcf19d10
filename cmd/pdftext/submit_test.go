package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	main "github.com/dgallion1/docnif/cmd/pdftext"
	"github.com/dgallion1/docnif/internal/nif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	got  nif.ProcessRequest
	resp *nif.ProcessResponse
	err  error
}

func (f *fakeProcessor) Process(_ context.Context, req nif.ProcessRequest) (*nif.ProcessResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestSubmitCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("submits extracted text under the file name", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "annual-report.pdf", reportPage)
		backend := &fakeProcessor{resp: &nif.ProcessResponse{
			Success:        true,
			Message:        "Document processed",
			GraphID:        "g-1",
			GraphURI:       "http://example.org/graph/g-1",
			SparqlEndpoint: "http://localhost:8890/sparql",
		}}
		stdout := &bytes.Buffer{}

		cmd := &main.SubmitCmd{
			ExtractOptions: main.ExtractOptions{Order: "top-down"},
			File:           path,
			Language:       "german",
		}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Backend: backend})

		require.NoError(t, err)
		assert.Equal(t, "Title Intro line More intro\n\nSection", backend.got.Text)
		assert.Equal(t, "annual-report", backend.got.DocumentName)
		assert.Equal(t, nif.German, backend.got.Language)
		assert.Contains(t, stdout.String(), "Document processed")
		assert.Contains(t, stdout.String(), "http://example.org/graph/g-1")
		assert.Contains(t, stdout.String(), "http://localhost:8890/sparql")
	})

	t.Run("explicit name wins", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "report.pdf", reportPage)
		backend := &fakeProcessor{resp: &nif.ProcessResponse{Success: true}}

		cmd := &main.SubmitCmd{
			ExtractOptions: main.ExtractOptions{Order: "top-down"},
			File:           path,
			Name:           "Quarterly",
			Language:       "english",
		}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Backend: backend})

		require.NoError(t, err)
		assert.Equal(t, "Quarterly", backend.got.DocumentName)
	})

	t.Run("backend error is returned", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "report.pdf", reportPage)
		backend := &fakeProcessor{err: errors.New("backend down")}

		cmd := &main.SubmitCmd{
			ExtractOptions: main.ExtractOptions{Order: "top-down"},
			File:           path,
			Language:       "english",
		}
		err := cmd.Run(&main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Backend: backend})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend down")
	})

	t.Run("posts to the backend given by flag", func(t *testing.T) {
		t.Parallel()

		var got nif.ProcessRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/process" {
				http.NotFound(w, r)
				return
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":        true,
				"graphId":        "g-2",
				"graphUri":       "http://example.org/graph/g-2",
				"sparqlEndpoint": "http://localhost:8890/sparql",
			})
		}))
		t.Cleanup(srv.Close)

		path := writePDF(t, "report.pdf", reportPage)
		stdout := &bytes.Buffer{}

		err := main.Run(context.Background(), []string{"submit", "--backend", srv.URL, "--name", "Report", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Report", got.DocumentName)
		assert.Equal(t, nif.English, got.Language)
		assert.Contains(t, stdout.String(), "Graph URI:       http://example.org/graph/g-2")
	})
}
