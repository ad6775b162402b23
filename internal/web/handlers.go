package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dataflow-project/dataflow/internal/logging"
	"github.com/dataflow-project/dataflow/internal/store"
	"github.com/dataflow-project/dataflow/internal/transfer"
	"github.com/dataflow-project/dataflow/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// handleRoot serves the landing page with the endpoint listing.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Landing().Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render landing page", "error", err)
	}
}

// handleHealth reports service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "dataflow",
	})
}

// handleTransfer runs one transfer synchronously and responds with its final
// status. A transfer that fails mid-copy is still a 200: the failure is in
// the status record. Only malformed requests produce error responses.
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var cfg transfer.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Message: "The request body must be a JSON transfer configuration",
			Action:  "Check the request payload",
			Code:    "CFG000",
		})
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("transfer requested",
		"source_table", cfg.SourceTable,
		"destination_table", cfg.DestinationTable,
	)

	status, err := s.service.Execute(r.Context(), cfg)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// handleTransferStatus returns the status of a single transfer.
func (s *Server) handleTransferStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transferID")

	status, ok := s.service.GetStatus(id)
	if !ok {
		respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "transfer not found",
			Message: fmt.Sprintf("No transfer with id %q", id),
			Action:  "List known transfers at /api/transfers",
			Code:    "TXN404",
		})
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// handleListTransfers returns a snapshot of all transfer statuses.
func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	statuses := s.service.ListStatuses()
	respondJSON(w, http.StatusOK, map[string]any{
		"transfers": statuses,
		"count":     len(statuses),
	})
}

// handleListDatabases lists the configured record stores.
func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	names := s.stores.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"databases": names,
		"count":     len(names),
	})
}

// handleInitializeDatabases seeds the sample data set.
func (s *Server) handleInitializeDatabases(w http.ResponseWriter, r *http.Request) {
	if err := store.Seed(r.Context(), s.stores); err != nil {
		if errors.Is(err, store.ErrUnknownStore) {
			s.respondError(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Error("initialize sample data", "error", err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "initialization failed",
			Message: "Could not initialize the sample databases",
			Action:  "Check the server logs",
			Code:    "SRV000",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Sample databases initialized with test data",
	})
}

// handleFlow renders the data flow visualization page.
func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	transfers := s.service.ListStatuses()
	if err := templates.FlowDiagram(transfers).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render flow page", "error", err)
	}
}
