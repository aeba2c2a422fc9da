package sheet

import (
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Align is the horizontal alignment hint of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Mode selects between absolute counts and percentages for ratio columns.
type Mode int

const (
	ModeCounts Mode = iota
	ModePercent
)

// ModeFor maps the percent toggle to a Mode.
func ModeFor(percent bool) Mode {
	if percent {
		return ModePercent
	}
	return ModeCounts
}

func (m Mode) String() string {
	if m == ModePercent {
		return "percent"
	}
	return "counts"
}

// Accessor reads an optional count from a record.
type Accessor func(models.BatchRecord) *int

// CellFunc produces the text of one cell.
type CellFunc func(r models.BatchRecord, mode Mode) string

// Column is one of FormatterColumn, RatioColumn or FixedPercentColumn.
type Column interface {
	Key() string
	Header() string
	Align() Align
	column()
}

type label struct {
	key    string
	header string
	align  Align
}

func (l label) Key() string    { return l.key }
func (l label) Header() string { return l.header }

func (l label) Align() Align {
	if l.align == "" {
		return AlignLeft
	}
	return l.align
}

func (label) column() {}

// FormatterColumn renders through its own functions. Display feeds the table
// and Export feeds CSV and sheet output; both are required.
type FormatterColumn struct {
	label
	Display CellFunc
	Export  CellFunc
}

// RatioColumn shows Value as a count, or as a share of Denom in percent mode.
// Without Denom it always shows the count.
type RatioColumn struct {
	label
	Value Accessor
	Denom Accessor
}

// FixedPercentColumn is already a percentage and ignores the mode.
type FixedPercentColumn struct {
	label
	Value func(models.BatchRecord) *float64
}

// NewFormatterColumn builds a column whose display and export text match.
func NewFormatterColumn(key, header string, align Align, cell CellFunc) FormatterColumn {
	return FormatterColumn{label: label{key, header, align}, Display: cell, Export: cell}
}

// NewRatioColumn builds a count/percent toggleable column.
func NewRatioColumn(key, header string, align Align, value, denom Accessor) RatioColumn {
	return RatioColumn{label: label{key, header, align}, Value: value, Denom: denom}
}

// NewFixedPercentColumn builds a column that is always a percentage.
func NewFixedPercentColumn(key, header string, align Align, value func(models.BatchRecord) *float64) FixedPercentColumn {
	return FixedPercentColumn{label: label{key, header, align}, Value: value}
}
