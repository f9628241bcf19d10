package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docnif/internal/reconstruct"
	"github.com/dgallion1/docnif/internal/segment"
)

// reconstructRequest carries pdf.js-style content items, one list per
// page. Items may carry extra pdf.js fields; only str and transform are read.
type reconstructRequest struct {
	Pages [][]reconstruct.Item `json:"pages"`
	Order string               `json:"order,omitempty"`
}

type reconstructResponse struct {
	Text  string   `json:"text"`
	Pages []string `json:"pages"`
	Order string   `json:"order"`
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req reconstructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	order := s.cfg.Order()
	if req.Order != "" {
		parsed, err := reconstruct.ParseOrder(req.Order)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		order = parsed
	}

	rec := reconstruct.Reconstructor{Order: order}
	resp := reconstructResponse{Pages: make([]string, 0, len(req.Pages)), Order: order.String()}
	for _, items := range req.Pages {
		resp.Pages = append(resp.Pages, rec.Page(reconstruct.FromItems(items)))
	}
	resp.Text = reconstruct.JoinPages(resp.Pages)

	writeJSON(w, http.StatusOK, resp)
}

type segmentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req segmentRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	paragraphs := segment.Split(req.Text)
	if paragraphs == nil {
		paragraphs = []segment.Paragraph{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paragraphs": paragraphs,
		"stats":      segment.Summarize(paragraphs),
	})
}
