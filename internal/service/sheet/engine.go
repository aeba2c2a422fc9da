package sheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

var (
	// ErrUnknownView is returned for a view key outside the configured set.
	ErrUnknownView = errors.New("unknown view")

	// ErrIncompleteColumn is returned when a formatter column lacks its
	// display or export function.
	ErrIncompleteColumn = errors.New("formatter column requires display and export functions")
)

// Options configures an Engine.
type Options struct {
	Locale   string
	Location *time.Location
	Now      func() time.Time
}

// Engine renders batch records through the configured views.
type Engine struct {
	numbers NumberFormat
	loc     *time.Location
	now     func() time.Time
	views   map[ViewKey]View
}

// NewEngine builds the engine and its views.
func NewEngine(opts Options) (*Engine, error) {
	numbers, err := NewNumberFormat(opts.Locale)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		numbers: numbers,
		loc:     opts.Location,
		now:     opts.Now,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}

	views, err := e.buildViews()
	if err != nil {
		return nil, err
	}
	e.views = views

	return e, nil
}

// View returns the view registered under key.
func (e *Engine) View(key ViewKey) (View, error) {
	v, ok := e.views[key]
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownView, key)
	}
	return v, nil
}

// Views returns every view in tab order.
func (e *Engine) Views() []View {
	views := make([]View, 0, len(viewOrder))
	for _, key := range viewOrder {
		views = append(views, e.views[key])
	}
	return views
}

// Render returns the table text of one cell.
func (e *Engine) Render(col Column, r models.BatchRecord, mode Mode) string {
	return e.cell(col, r, mode, false)
}

// Export returns the CSV text of one cell. It only differs from Render for
// formatter columns, which declare their export text separately.
func (e *Engine) Export(col Column, r models.BatchRecord, mode Mode) string {
	return e.cell(col, r, mode, true)
}

func (e *Engine) cell(col Column, r models.BatchRecord, mode Mode, export bool) string {
	switch c := col.(type) {
	case FormatterColumn:
		fn := c.Display
		if export {
			fn = c.Export
		}
		if fn == nil {
			return Placeholder
		}
		return fn(r, mode)
	case FixedPercentColumn:
		if c.Value == nil {
			return Placeholder
		}
		return PercentOf(c.Value(r))
	case RatioColumn:
		return e.ratio(c, r, mode)
	default:
		return Placeholder
	}
}

func (e *Engine) ratio(c RatioColumn, r models.BatchRecord, mode Mode) string {
	if c.Value == nil {
		return Placeholder
	}

	value := c.Value(r)
	if mode != ModePercent || c.Denom == nil {
		return e.numbers.Count(value)
	}

	denom := c.Denom(r)
	if value == nil || denom == nil || *denom <= 0 {
		return Placeholder
	}
	return Percent(float64(*value)/float64(*denom)*100, true)
}

func validateColumns(cols []Column) error {
	for _, col := range cols {
		if c, ok := col.(FormatterColumn); ok && (c.Display == nil || c.Export == nil) {
			return fmt.Errorf("column %q: %w", c.Key(), ErrIncompleteColumn)
		}
	}
	return nil
}
