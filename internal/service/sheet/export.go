package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// ExportFileName names a CSV export of view in mode taken at the given instant.
func ExportFileName(view ViewKey, mode Mode, at time.Time) string {
	return fmt.Sprintf("complete-data-%s-%s-%s.csv", view, mode, at.UTC().Format("2006-01-02"))
}

// Headers returns the column labels of view.
func Headers(view View) []string {
	headers := make([]string, 0, len(view.Columns))
	for _, col := range view.Columns {
		headers = append(headers, col.Header())
	}
	return headers
}

// ExportRows renders records through view using the export text of each
// column.
func (e *Engine) ExportRows(view View, records []models.BatchRecord, mode Mode) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		cells := make([]string, 0, len(view.Columns))
		for _, col := range view.Columns {
			cells = append(cells, e.Export(col, r, mode))
		}
		rows = append(rows, cells)
	}
	return rows
}

// CSV writes the header line followed by one line per record. Header labels
// are written as is; every record cell is quoted. Lines are joined by "\n"
// with no trailing newline.
func (e *Engine) CSV(view View, records []models.BatchRecord, mode Mode) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(Headers(view), ","))
	for _, cells := range e.ExportRows(view, records, mode) {
		b.WriteByte('\n')
		writeCSVLine(&b, cells)
	}
	return []byte(b.String())
}

func writeCSVLine(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
