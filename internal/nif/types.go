// Package nif is the boundary to the NIF analysis backend: the request and
// response shapes of its HTTP API and a client for calling it.
package nif

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Language is the document language the backend tokenizes for.
type Language string

const (
	English Language = "english"
	German  Language = "german"
)

// Languages lists the accepted languages in display order.
var Languages = []Language{English, German}

var ErrInvalidLanguage = errors.New("language must be 'english' or 'german'")

// ParseLanguage accepts a language name in any case.
func ParseLanguage(s string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Languages, lang) {
		return lang, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidLanguage, s)
}

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	Text         string   `json:"text"`
	DocumentName string   `json:"documentName"`
	Language     Language `json:"language"`
}

// Validate normalizes the request in place and reports the first missing or
// invalid field. Text and DocumentName are trimmed; the language is lowered.
func (r *ProcessRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	r.DocumentName = strings.TrimSpace(r.DocumentName)
	if r.Text == "" {
		return errors.New("text is required")
	}
	if r.DocumentName == "" {
		return errors.New("document name is required")
	}
	lang, err := ParseLanguage(string(r.Language))
	if err != nil {
		return err
	}
	r.Language = lang
	return nil
}

// ProcessResponse is the body the backend returns from POST /process.
// Success is required; every other field is optional.
type ProcessResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	GraphID        string `json:"graphId,omitempty"`
	GraphURI       string `json:"graphUri,omitempty"`
	SparqlEndpoint string `json:"sparqlEndpoint,omitempty"`
	LodviewURL     string `json:"lodviewUrl,omitempty"`
	Error          string `json:"error,omitempty"`

	// Browse links the backend adds for a stored graph.
	GraphBrowseURL       string           `json:"graphBrowseUrl,omitempty"`
	SampleResources      []SampleResource `json:"sampleResources,omitempty"`
	VirtuosoWebInterface string           `json:"virtuosoWebInterface,omitempty"`
	VirtuosoAdmin        string           `json:"virtuosoAdmin,omitempty"`
}

// SampleResource is one browsable resource of a stored graph.
type SampleResource struct {
	URI       string `json:"uri"`
	BrowseURL string `json:"browseUrl"`
}

// SparqlInfo is the body of GET /sparql.
type SparqlInfo struct {
	SparqlEndpoint string `json:"sparqlEndpoint"`
	VirtuosoURL    string `json:"virtuosoUrl,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// DecodeProcessRequest decodes a ProcessRequest, rejecting unknown fields.
// It does not validate; call Validate on the result.
func DecodeProcessRequest(r io.Reader) (*ProcessRequest, error) {
	var req ProcessRequest
	if err := decodeStrict(r, &req); err != nil {
		return nil, fmt.Errorf("decode process request: %w", err)
	}
	return &req, nil
}

// DecodeProcessResponse decodes a ProcessResponse, rejecting unknown fields
// and a body without "success".
func DecodeProcessResponse(data []byte) (*ProcessResponse, error) {
	var resp ProcessResponse
	if err := decodeStrict(bytes.NewReader(data), &resp); err != nil {
		return nil, fmt.Errorf("decode process response: %w", err)
	}
	var presence struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(data, &presence); err != nil || presence.Success == nil {
		return nil, errors.New("decode process response: missing required field \"success\"")
	}
	return &resp, nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
