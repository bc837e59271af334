package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bioattend/reconcile"
	"bioattend/storage"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := storage.SummaryFilter{EmployeeID: query.Get("empId")}
	details := make(map[string]string)
	var err error
	if filter.Year, err = optionalInt(query.Get("year")); err != nil {
		details["year"] = err.Error()
	}
	if filter.Month, err = optionalMonth(query.Get("month")); err != nil {
		details["month"] = err.Error()
	}
	if filter.Page, err = optionalInt(query.Get("page")); err != nil {
		details["page"] = err.Error()
	}
	if filter.Limit, err = optionalInt(query.Get("limit")); err != nil {
		details["limit"] = err.Error()
	}
	if len(details) > 0 {
		badRequest(w, "Invalid query parameters", details)
		return
	}

	summaries, total, err := s.store.ListSummaries(r.Context(), filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	page := max(filter.Page, 1)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	successWithMeta(w, summaries, newMeta(page, limit, total))
}

func (s *Server) handleSummaryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.SummaryStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, "", stats)
}

func (s *Server) handleEmployeeSummaries(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimSpace(chi.URLParam(r, "empId"))
	if employeeID == "" {
		badRequest(w, "employee id is required", nil)
		return
	}

	query := r.URL.Query()
	year, err := optionalInt(query.Get("year"))
	if err != nil {
		badRequest(w, "Invalid query parameters", map[string]string{"year": err.Error()})
		return
	}
	month, err := optionalMonth(query.Get("month"))
	if err != nil {
		badRequest(w, "Invalid query parameters", map[string]string{"month": err.Error()})
		return
	}

	summaries, err := s.store.EmployeeSummaries(r.Context(), employeeID, year, month)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if len(summaries) == 0 {
		notFound(w, fmt.Sprintf("No monthly summaries found for employee %s", employeeID))
		return
	}
	success(w, "", summaries)
}

func (s *Server) handleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "summary id must be a positive integer", nil)
		return
	}
	if err := s.store.DeleteSummary(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, "Monthly summary deleted", map[string]int64{"id": id})
}

func (s *Server) handleDeleteEmployeeSummaries(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimSpace(chi.URLParam(r, "empId"))
	deleted, err := s.store.DeleteEmployeeSummaries(r.Context(), employeeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, fmt.Sprintf("%d monthly summaries deleted for employee %s", deleted, employeeID), map[string]int64{"deletedCount": deleted})
}

func (s *Server) handleDeleteAllSummaries(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteAllSummaries(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, fmt.Sprintf("%d monthly summaries deleted", deleted), map[string]int64{"deletedCount": deleted})
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	result, err := reconcile.Run(r.Context(), s.store)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, "Monthly summaries recalculated", result)
}

func optionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("expected a non-negative integer, got %q", value)
	}
	return parsed, nil
}

func optionalMonth(value string) (int, error) {
	month, err := optionalInt(value)
	if err != nil {
		return 0, err
	}
	if month > 12 {
		return 0, fmt.Errorf("month must be between 1 and 12")
	}
	return month, nil
}
