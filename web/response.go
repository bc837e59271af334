package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"bioattend/importer"
	"bioattend/storage"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func newMeta(page, limit, total int) *Meta {
	meta := &Meta{Page: page, Limit: limit, TotalItems: int64(total)}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "ENCODING_ERROR",
				Message: "Failed to encode response",
			},
		}
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

func success(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func successWithMeta(w http.ResponseWriter, data any, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func badRequest(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    "BAD_REQUEST",
			Message: message,
			Details: details,
		},
	})
}

// rejected reports a client error that still carries diagnostics in data.
func rejected(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Data:    data,
		Error: &ErrorDetail{
			Code:    "BAD_REQUEST",
			Message: message,
		},
	})
}

func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    "NOT_FOUND",
			Message: message,
		},
	})
}

func tooLarge(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusRequestEntityTooLarge, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    "PAYLOAD_TOO_LARGE",
			Message: message,
		},
	})
}

func internalServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: message,
		},
	})
}

// handleError maps domain errors to HTTP responses
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrSummaryNotFound):
		notFound(w, "Monthly summary not found")
	case errors.Is(err, importer.ErrNoRecords):
		badRequest(w, err.Error(), nil)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		internalServerError(w, "An unexpected error occurred")
	}
}
