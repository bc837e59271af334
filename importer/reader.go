package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GridReader decodes an uploaded spreadsheet into the grid of its first sheet.
type GridReader interface {
	Read(data []byte) (Grid, error)
}

func ReaderForFormat(format string) (GridReader, error) {
	switch normalizeFormat(format) {
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "xls":
		return &XLSReader{}, nil
	case "csv":
		return &CSVReader{Comma: ','}, nil
	case "tsv", "txt":
		return &CSVReader{Comma: '\t'}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat returns format when set, otherwise derives it from the file extension.
func InferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return normalizeFormat(format), nil
	}

	extension := normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "xlsx", "xlsm", "xls", "csv", "tsv", "txt":
		return extension, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// ReadFile loads and decodes one attendance export from disk.
func ReadFile(path string, format string) (Grid, error) {
	resolved, err := InferFormat(path, format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(resolved)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}
	grid, err := reader.Read(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return grid, nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
