package document

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zombor/mrz-vault/internal/mrz"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// decodeFailure writes the decode error as JSON. A malformed MRZ is an
// unprocessable entity, not a server fault.
func decodeFailure(w http.ResponseWriter, err error) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)

	body := map[string]string{"error": err.Error()}
	var derr *mrz.DecodeError
	if errors.As(err, &derr) {
		body["stage"] = derr.Code.String()
		if derr.Field != "" {
			body["field"] = derr.Field
		}
	}
	json.NewEncoder(w).Encode(body)
}

// handleListRecords returns a list of all records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords()
	if err != nil {
		slog.Error("Error listing records", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleIngestRecord decodes and stores one MRZ strip
func (s *Server) handleIngestRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MRZ string `json:"mrz"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.MRZ == "" {
		corsError(w, "mrz is required", http.StatusBadRequest)
		return
	}

	record, err := s.service.IngestMRZ(req.MRZ)
	if err != nil {
		var derr *mrz.DecodeError
		if errors.As(err, &derr) {
			decodeFailure(w, err)
			return
		}
		slog.Error("Error ingesting record", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(record); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetRecord returns a single record
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	record, err := s.service.GetRecord(id)
	if err != nil {
		corsError(w, "Record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetRecordMRZ serves the raw MRZ strip for a record
func (s *Server) handleGetRecordMRZ(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.service.GetRecordMRZ(id)
	if err != nil {
		corsError(w, "Record not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// handleDeleteRecord removes a record and its stored strip
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteRecord(id); err != nil {
		corsError(w, "Record not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleImportBatch decodes a set of MRZ strips as one batch
func (s *Server) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MRZ []string `json:"mrz"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.MRZ) == 0 {
		corsError(w, "at least one mrz strip is required", http.StatusBadRequest)
		return
	}

	batch, err := s.service.ImportBatch(req.MRZ)
	if err != nil {
		var derr *mrz.DecodeError
		if errors.As(err, &derr) {
			decodeFailure(w, err)
			return
		}
		slog.Error("Error importing batch", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(batch); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetBatch returns a batch with its records
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	batch, records, err := s.service.GetBatchWithRecords(id)
	if err != nil {
		corsError(w, "Batch not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := struct {
		Batch   *Batch    `json:"batch"`
		Records []*Record `json:"records"`
	}{batch, records}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListBatches returns a list of all batches
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.service.ListBatches()
	if err != nil {
		slog.Error("Error listing batches", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(batches); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
