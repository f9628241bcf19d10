package nif_test

import (
	"strings"
	"testing"

	"github.com/dgallion1/docnif/internal/nif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]nif.Language{
		"english":  nif.English,
		"English":  nif.English,
		" GERMAN ": nif.German,
	} {
		got, err := nif.ParseLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, lang := range nif.Languages {
		got, err := nif.ParseLanguage(strings.ToUpper(string(lang)))
		require.NoError(t, err, lang)
		assert.Equal(t, lang, got)
	}
	assert.Equal(t, []nif.Language{nif.English, nif.German}, nif.Languages)

	_, err := nif.ParseLanguage("french")
	assert.ErrorIs(t, err, nif.ErrInvalidLanguage)
	_, err = nif.ParseLanguage("")
	assert.ErrorIs(t, err, nif.ErrInvalidLanguage)
}

func TestProcessRequest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("normalizes fields", func(t *testing.T) {
		t.Parallel()
		req := nif.ProcessRequest{Text: "  body \n", DocumentName: " report ", Language: "German"}
		require.NoError(t, req.Validate())
		assert.Equal(t, nif.ProcessRequest{Text: "body", DocumentName: "report", Language: nif.German}, req)
	})

	tests := []struct {
		name string
		req  nif.ProcessRequest
		want string
	}{
		{"blank text", nif.ProcessRequest{Text: " \n", DocumentName: "d", Language: nif.English}, "text is required"},
		{"blank name", nif.ProcessRequest{Text: "t", DocumentName: "", Language: nif.English}, "document name is required"},
		{"bad language", nif.ProcessRequest{Text: "t", DocumentName: "d", Language: "klingon"}, "language must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeProcessRequest(t *testing.T) {
	t.Parallel()

	req, err := nif.DecodeProcessRequest(strings.NewReader(`{"text":"a","documentName":"b","language":"english"}`))
	require.NoError(t, err)
	assert.Equal(t, &nif.ProcessRequest{Text: "a", DocumentName: "b", Language: nif.English}, req)

	_, err = nif.DecodeProcessRequest(strings.NewReader(`{"text":"a","documentName":"b","language":"english","extra":1}`))
	assert.ErrorContains(t, err, "unknown field")

	_, err = nif.DecodeProcessRequest(strings.NewReader(`{"text":"a"} {"text":"b"}`))
	assert.Error(t, err)

	_, err = nif.DecodeProcessRequest(strings.NewReader(`[]`))
	assert.Error(t, err)
}

func TestDecodeProcessResponse(t *testing.T) {
	t.Parallel()

	t.Run("full backend response", func(t *testing.T) {
		t.Parallel()
		resp, err := nif.DecodeProcessResponse([]byte(`{
			"success": true,
			"message": "Document processed successfully",
			"graphId": "g1",
			"graphUri": "http://example.org/graph/g1",
			"graphBrowseUrl": "http://lod/sparql?query=DESCRIBE",
			"sampleResources": [{"uri": "http://lod/resource/x", "browseUrl": "http://lod/x"}],
			"sparqlEndpoint": "http://virtuoso:8890/sparql",
			"virtuosoWebInterface": "http://lod/sparql",
			"virtuosoAdmin": "http://lod/admin"
		}`))
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "g1", resp.GraphID)
		assert.Equal(t, "http://virtuoso:8890/sparql", resp.SparqlEndpoint)
		require.Len(t, resp.SampleResources, 1)
		assert.Equal(t, "http://lod/resource/x", resp.SampleResources[0].URI)
	})

	t.Run("minimal failure", func(t *testing.T) {
		t.Parallel()
		resp, err := nif.DecodeProcessResponse([]byte(`{"success": false, "error": "boom"}`))
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "boom", resp.Error)
	})

	t.Run("missing success", func(t *testing.T) {
		t.Parallel()
		_, err := nif.DecodeProcessResponse([]byte(`{"message": "ok"}`))
		assert.ErrorContains(t, err, "success")
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		_, err := nif.DecodeProcessResponse([]byte(`{"success": true, "triples": 12}`))
		assert.ErrorContains(t, err, "unknown field")
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		_, err := nif.DecodeProcessResponse([]byte(`{"success": "yes"}`))
		assert.Error(t, err)
	})
}
