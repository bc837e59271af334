package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bioattend/attendance"
	"bioattend/importer"
	"bioattend/internal/timeutil"
	"bioattend/reconcile"
	"bioattend/storage"
)

var uploadFormats = map[string]bool{
	"xlsx": true,
	"xlsm": true,
	"xls":  true,
	"csv":  true,
}

type noRecordsResponse struct {
	Message               string                 `json:"message"`
	SkippedRows           []attendance.SkipEntry `json:"skippedRows"`
	EmployeeCount         int                    `json:"employeeCount"`
	MonthlySummariesCount int                    `json:"monthlySummariesCount"`
}

type uploadActivitiesRequest struct {
	Activities []importer.RecordInput `json:"activities"`
}

type uploadActivitiesResponse struct {
	TotalReceived      int                    `json:"totalReceived"`
	InsertedActivities int                    `json:"insertedActivities"`
	SkippedRows        []attendance.SkipEntry `json:"skippedRows"`
}

func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	limit := s.uploadLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			tooLarge(w, fmt.Sprintf("file exceeds the %d MB upload limit", limit>>20))
			return
		}
		badRequest(w, fmt.Sprintf("parse multipart form: %v", err), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "No file uploaded", nil)
		return
	}
	defer file.Close()

	format, err := importer.InferFormat(header.Filename, "")
	if err != nil || !uploadFormats[format] {
		badRequest(w, "Only Excel (.xlsx, .xlsm, .xls) or CSV files are allowed", map[string]string{"file": header.Filename})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		internalServerError(w, fmt.Sprintf("read upload: %v", err))
		return
	}

	reader, err := importer.ReaderForFormat(format)
	if err != nil {
		badRequest(w, err.Error(), nil)
		return
	}
	grid, err := reader.Read(data)
	if err != nil {
		badRequest(w, fmt.Sprintf("decode %s: %v", header.Filename, err), nil)
		return
	}

	report, err := importer.Import(r.Context(), s.store, grid, importer.Options{
		Rules:      s.cfg.ClassifyRules(),
		SourceFile: header.Filename,
		Logger:     s.logger,
	})
	if errors.Is(err, importer.ErrNoRecords) {
		rejected(w, "No valid attendance data found in the file", noRecordsResponse{
			Message:               err.Error(),
			SkippedRows:           report.SkippedRows,
			EmployeeCount:         report.EmployeeCount,
			MonthlySummariesCount: report.MonthlySummariesCount,
		})
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if s.cfg.Import.RecalculateAfterImport {
		if _, err := reconcile.Run(r.Context(), s.store); err != nil {
			s.handleError(w, r, fmt.Errorf("recalculate monthly summaries: %w", err))
			return
		}
	}

	success(w, "Excel file processed successfully", report)
}

func (s *Server) handleUploadActivities(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadLimit())

	var body uploadActivitiesRequest
	if err := decodeJSON(r, &body); err != nil {
		badRequest(w, fmt.Sprintf("invalid request body: %v", err), nil)
		return
	}
	if len(body.Activities) == 0 {
		badRequest(w, "activities must be a non-empty array", nil)
		return
	}

	records, skipped := importer.NormalizeInputs(body.Activities)
	if len(records) == 0 {
		rejected(w, "No valid activities in request", uploadActivitiesResponse{
			TotalReceived: len(body.Activities),
			SkippedRows:   skipped,
		})
		return
	}

	inserted, err := s.store.UpsertRecords(r.Context(), records)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if s.cfg.Import.RecalculateAfterImport {
		if _, err := reconcile.Run(r.Context(), s.store); err != nil {
			s.handleError(w, r, fmt.Errorf("recalculate monthly summaries: %w", err))
			return
		}
	}

	success(w, fmt.Sprintf("%d activities stored", inserted), uploadActivitiesResponse{
		TotalReceived:      len(body.Activities),
		InsertedActivities: inserted,
		SkippedRows:        skipped,
	})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := storage.RecordFilter{
		EmployeeID:   query.Get("empId"),
		EmployeeName: query.Get("empName"),
		SortBy:       query.Get("sortBy"),
		SortOrder:    query.Get("sortOrder"),
	}

	details := make(map[string]string)
	for _, raw := range strings.Split(query.Get("status"), ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, ok := attendance.ParseStatus(raw)
		if !ok {
			details["status"] = fmt.Sprintf("unknown status %q", raw)
			break
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	var err error
	if value := query.Get("startDate"); value != "" {
		if filter.From, err = timeutil.ParseDate(value); err != nil {
			details["startDate"] = "expected YYYY-MM-DD"
		}
	}
	if value := query.Get("endDate"); value != "" {
		if filter.To, err = timeutil.ParseDate(value); err != nil {
			details["endDate"] = "expected YYYY-MM-DD"
		}
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

	records, total, err := s.store.ListRecords(r.Context(), filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	page := filter.Page
	if filter.Limit > 0 && page < 1 {
		page = 1
	}
	successWithMeta(w, records, newMeta(page, filter.Limit, total))
}

func (s *Server) handleDeleteActivities(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteAllRecords(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	success(w, fmt.Sprintf("%d activities deleted", deleted), map[string]int64{"deletedCount": deleted})
}

func (s *Server) uploadLimit() int64 {
	if limit := s.cfg.UploadLimit(); limit > 0 {
		return limit
	}
	return 5 << 20
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
