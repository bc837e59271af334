package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited exports. UTF-16 files with a byte order mark are
// decoded to UTF-8 first.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(data []byte) (Grid, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))
	if r.Comma != 0 {
		reader.Comma = r.Comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}

	return GridFromStrings(rows, true), nil
}
