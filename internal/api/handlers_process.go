package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/docnif/internal/history"
	"github.com/dgallion1/docnif/internal/nif"
)

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	req, err := nif.DecodeProcessRequest(r.Body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, callErr := s.backend.Process(r.Context(), *req)

	sub := history.NewSubmission(*req, resp, callErr)
	if err := s.history.Create(r.Context(), sub); err != nil {
		s.log.Error("record submission failed", "error", err, "document", req.DocumentName)
	} else {
		w.Header().Set("X-Submission-ID", sub.ID)
	}

	if callErr != nil {
		s.log.Warn("backend process failed", "error", callErr, "document", req.DocumentName)
		msg := callErr.Error()
		var be *nif.BackendError
		if errors.As(callErr, &be) {
			msg = be.Message
		}
		writeJSON(w, http.StatusBadGateway, nif.ProcessResponse{Success: false, Error: msg})
		return
	}

	s.log.Info("document processed", "document", req.DocumentName, "graph_id", resp.GraphID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSparql(w http.ResponseWriter, r *http.Request) {
	info, err := s.backend.SparqlInfo(r.Context())
	if err != nil {
		jsonError(w, "sparql info unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.backend.Health(r.Context())
	if err != nil {
		jsonError(w, "backend unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
