package sheet

import (
	"strings"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const (
	emptySearchMessage = "No results found for your search."
	emptyDataMessage   = "No data available."
)

// ColumnInfo describes a table column to the client.
type ColumnInfo struct {
	Key    string `json:"key"`
	Header string `json:"header"`
	Align  Align  `json:"align"`
}

// Row is one rendered record.
type Row struct {
	BatchID string   `json:"batch_id"`
	Cells   []string `json:"cells"`
}

// Table is a fully rendered view.
type Table struct {
	View    ViewKey      `json:"view"`
	Title   string       `json:"title"`
	Mode    string       `json:"mode"`
	Columns []ColumnInfo `json:"columns"`
	Rows    []Row        `json:"rows"`
	Count   int          `json:"count"`
	Empty   string       `json:"empty_message,omitempty"`
}

// Table renders records through view. query only selects the empty-state
// message; filtering happens before.
func (e *Engine) Table(view View, records []models.BatchRecord, mode Mode, query string) Table {
	columns := make([]ColumnInfo, 0, len(view.Columns))
	for _, col := range view.Columns {
		columns = append(columns, ColumnInfo{Key: col.Key(), Header: col.Header(), Align: col.Align()})
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		cells := make([]string, 0, len(view.Columns))
		for _, col := range view.Columns {
			cells = append(cells, e.Render(col, r, mode))
		}
		rows = append(rows, Row{BatchID: r.BatchID, Cells: cells})
	}

	table := Table{
		View:    view.Key,
		Title:   view.Title,
		Mode:    mode.String(),
		Columns: columns,
		Rows:    rows,
		Count:   len(rows),
	}
	if len(rows) == 0 {
		table.Empty = emptyDataMessage
		if strings.TrimSpace(query) != "" {
			table.Empty = emptySearchMessage
		}
	}
	return table
}
