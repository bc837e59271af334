package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Writer persists a table to a file.
type Writer interface {
	Write(path string, table Table) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// InferFormat returns the explicit format, or derives one from the output
// file extension.
func InferFormat(path, format string) (string, error) {
	if value := normalizeFormat(format); value != "" {
		return value, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "excel", nil
	default:
		return "", fmt.Errorf("cannot infer output format from %q, use --format", path)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
