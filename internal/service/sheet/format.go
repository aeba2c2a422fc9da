package sheet

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for every value that is absent or undefined.
const Placeholder = "—"

// DefaultLocale is used when no display locale is configured.
const DefaultLocale = "en-US"

// exactDigits keeps enough fraction digits of a percentage to tell a value
// stored just below a half from the half itself.
const exactDigits = 30

// NumberFormat renders counts with locale grouping and percentages with one
// decimal.
type NumberFormat struct {
	printer *message.Printer
}

// NewNumberFormat builds a formatter for a BCP 47 locale such as "en-US".
func NewNumberFormat(locale string) (NumberFormat, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return NumberFormat{}, fmt.Errorf("parse display locale %q: %w", locale, err)
	}
	return NumberFormat{printer: message.NewPrinter(tag)}, nil
}

// Count renders a grouped integer, or the placeholder when absent.
func (f NumberFormat) Count(v *int) string {
	if v == nil {
		return Placeholder
	}
	return f.Int(*v)
}

// Int renders a grouped integer.
func (f NumberFormat) Int(v int) string {
	if f.printer == nil {
		return strconv.Itoa(v)
	}
	return f.printer.Sprintf("%d", v)
}

// Percent renders p with one decimal and a trailing percent sign. Rounding
// works on the exact binary value of p, so 0.15 (stored just below) gives
// "0.1%" while an exact tie such as 91.25 rounds away from zero. It returns
// the placeholder when ok is false or p is not finite.
func Percent(p float64, ok bool) string {
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
		return Placeholder
	}
	exact, err := decimal.NewFromString(strconv.FormatFloat(p, 'f', exactDigits, 64))
	if err != nil {
		return Placeholder
	}
	return exact.StringFixed(1) + "%"
}

// PercentOf renders an optional percentage.
func PercentOf(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return Percent(*p, true)
}

// Plain renders an optional integer without grouping.
func Plain(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}
