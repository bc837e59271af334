package web

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"bioattend/attendance"
	"bioattend/config"
	"bioattend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorDetail    `json:"error"`
	Meta    *Meta           `json:"meta"`
}

func newTestServer(t *testing.T) (*httptest.Server, *storage.SQLiteStore) {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "web_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(NewServer(store, config.Config{}, logger))
	t.Cleanup(ts.Close)
	return ts, store
}

// attendanceCSV renders one employee block covering April 1-30.
func attendanceCSV(t *testing.T, code, name string) []byte {
	t.Helper()

	rows := [][]string{
		{"Employee Code:", code, "", "Employee Name:", name},
		{"Days"}, {"Shift"}, {"In Time"}, {"Out Time"}, {"Late By"}, {"Early By"},
		{"OT"}, {"Duration"}, {"T Duration"}, {"Status"},
	}
	for day := 1; day <= 30; day++ {
		rows[1] = append(rows[1], fmt.Sprintf("%d-Apr", day))
		rows[2] = append(rows[2], "GS")
		rows[3] = append(rows[3], "09:00")
		rows[4] = append(rows[4], "18:00")
		rows[5] = append(rows[5], "")
		rows[6] = append(rows[6], "")
		rows[7] = append(rows[7], "")
		rows[8] = append(rows[8], "08:00")
		rows[9] = append(rows[9], "09:00")
		rows[10] = append(rows[10], "P")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	require.NoError(t, writer.WriteAll(rows))
	return buf.Bytes()
}

func uploadFile(t *testing.T, ts *httptest.Server, filename string, content []byte) (*http.Response, envelope) {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	resp, err := http.Post(ts.URL+"/api/activities/upload-excel", form.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func doRequest(t *testing.T, method, url string, body io.Reader) (*http.Response, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_UploadExcelStoresRecordsAndSummaries(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, out := uploadFile(t, ts, "april.csv", attendanceCSV(t, "E01", "Asha Kumar"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	var report struct {
		RunID                 string `json:"runId"`
		EmployeeCount         int    `json:"employeeCount"`
		TotalRecords          int    `json:"totalRecords"`
		MonthlySummariesCount int    `json:"monthlySummariesCount"`
		InsertedActivities    int    `json:"insertedActivities"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.EmployeeCount)
	assert.Equal(t, 30, report.TotalRecords)
	assert.Equal(t, 1, report.MonthlySummariesCount)
	assert.Equal(t, 30, report.InsertedActivities)

	resp, out = doRequest(t, http.MethodGet, ts.URL+"/api/activities?empId=e01&limit=5&page=2&sortBy=date&sortOrder=asc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []attendance.Record
	require.NoError(t, json.Unmarshal(out.Data, &records))
	require.Len(t, records, 5)
	assert.Equal(t, 6, records[0].Date.Day())
	require.NotNil(t, out.Meta)
	assert.Equal(t, int64(30), out.Meta.TotalItems)
	assert.Equal(t, 6, out.Meta.TotalPages)

	resp, out = doRequest(t, http.MethodGet, ts.URL+"/api/monthly-summaries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []attendance.MonthlySummary
	require.NoError(t, json.Unmarshal(out.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "E01", summaries[0].EmployeeID)
	assert.Equal(t, 30, summaries[0].Days)
	assert.Equal(t, "Apr", summaries[0].MonthName)
	assert.Equal(t, "240:00", summaries[0].Duration)
}

func TestServer_UploadExcelWithoutEmployeesIsRejected(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, out := uploadFile(t, ts, "empty.csv", []byte("Monthly Report\nnothing,here\n"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)

	var payload noRecordsResponse
	require.NoError(t, json.Unmarshal(out.Data, &payload))
	assert.Equal(t, 0, payload.EmployeeCount)
	assert.Equal(t, 0, payload.MonthlySummariesCount)
}

func TestServer_UploadExcelRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, out := uploadFile(t, ts, "report.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, out.Error)
	assert.Equal(t, "BAD_REQUEST", out.Error.Code)
	assert.Contains(t, out.Error.Message, "Only Excel")
}

func TestServer_JSONUploadRecalculateAndDeleteSummary(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	body := `{"activities": [
		{"empId": "E07", "empName": "Ravi", "date": "2025-05-02", "timeInActual": "9:05", "status": "P", "present": 1, "duration": "08:15"},
		{"empId": "E07", "empName": "Ravi", "date": "2025-05-03", "status": "HALF_PRESENT", "present": 0.5, "absent": 0.5},
		{"empId": "", "empName": "Nobody", "date": "2025-05-02"}
	]}`
	resp, out := doRequest(t, http.MethodPost, ts.URL+"/api/activities/upload", strings.NewReader(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var upload uploadActivitiesResponse
	require.NoError(t, json.Unmarshal(out.Data, &upload))
	assert.Equal(t, 3, upload.TotalReceived)
	assert.Equal(t, 2, upload.InsertedActivities)
	require.Len(t, upload.SkippedRows, 1)
	assert.Equal(t, 2, upload.SkippedRows[0].Row)

	resp, out = doRequest(t, http.MethodGet, ts.URL+"/api/monthly-summaries/employee/E07", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, out = doRequest(t, http.MethodPost, ts.URL+"/api/monthly-summaries/recalculate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rebuilt struct {
		RecordsRead      int `json:"recordsRead"`
		SummariesWritten int `json:"summariesWritten"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &rebuilt))
	assert.Equal(t, 2, rebuilt.RecordsRead)
	assert.Equal(t, 1, rebuilt.SummariesWritten)

	resp, out = doRequest(t, http.MethodGet, ts.URL+"/api/monthly-summaries/employee/e07?year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []attendance.MonthlySummary
	require.NoError(t, json.Unmarshal(out.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, 1.5, summaries[0].Present)
	assert.Equal(t, "08:15", summaries[0].Duration)

	deleteURL := fmt.Sprintf("%s/api/monthly-summaries/%d", ts.URL, summaries[0].ID)
	resp, _ = doRequest(t, http.MethodDelete, deleteURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = doRequest(t, http.MethodDelete, deleteURL, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, out.Error)
	assert.Equal(t, "NOT_FOUND", out.Error.Code)
}

func TestServer_JSONUploadWithoutValidActivities(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, out := doRequest(t, http.MethodPost, ts.URL+"/api/activities/upload", strings.NewReader(`{"activities": [{"empId": "E1"}]}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)

	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/api/activities/upload", strings.NewReader(`{"activities": []}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ListActivitiesValidatesQuery(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, out := doRequest(t, http.MethodGet, ts.URL+"/api/activities?status=P,bogus&startDate=01-04-2025", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.Details, "status")
	assert.Contains(t, out.Error.Details, "startDate")
}

func TestServer_StatsAndDeletes(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, _ := uploadFile(t, ts, "a.csv", attendanceCSV(t, "E01", "Asha Kumar"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = uploadFile(t, ts, "b.csv", attendanceCSV(t, "E02", "Bilal Khan"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := doRequest(t, http.MethodGet, ts.URL+"/api/monthly-summaries/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats storage.SummaryStats
	require.NoError(t, json.Unmarshal(out.Data, &stats))
	assert.Equal(t, 2, stats.TotalSummaries)
	assert.Equal(t, []string{"E01", "E02"}, stats.Employees)

	resp, out = doRequest(t, http.MethodDelete, ts.URL+"/api/monthly-summaries/employee/e02", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out.Message, "1 monthly summaries deleted")

	resp, out = doRequest(t, http.MethodDelete, ts.URL+"/api/activities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted map[string]int64
	require.NoError(t, json.Unmarshal(out.Data, &deleted))
	assert.Equal(t, int64(60), deleted["deletedCount"])
}

func TestServer_Heartbeat(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewLogger_RequestLogsFollowLevel(t *testing.T) {
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "logger_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	serve := func(level slog.Level) string {
		var logs bytes.Buffer
		handler := NewServer(store, config.Config{}, NewLogger(&logs, level))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activities", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return logs.String()
	}

	assert.Empty(t, serve(slog.LevelWarn))

	logged := serve(slog.LevelInfo)
	assert.Contains(t, logged, "/api/activities")
	assert.Contains(t, logged, `"app":"bioattend"`)
}
