package datasheet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/assembler"
	"github.com/mamadbah2/hatchery/internal/service/search"
	"github.com/mamadbah2/hatchery/internal/service/sheet"
	"github.com/mamadbah2/hatchery/internal/service/whatsapp"
)

var (
	// ErrLoadFailed wraps every failure to fetch the batch records.
	ErrLoadFailed = errors.New("failed to load data sheet")

	// ErrSheetsDisabled is returned by Publish when no publisher is set.
	ErrSheetsDisabled = errors.New("sheet publishing is not configured")
)

const (
	reloadKey     = "reload"
	reloadTimeout = 2 * time.Minute
)

// Source fetches the joined batch rows, newest set date first.
type Source interface {
	FetchBatches(ctx context.Context) ([]models.RawBatch, error)
}

// Publisher replaces a spreadsheet range with rows.
type Publisher interface {
	ReplaceRange(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// Export is a rendered CSV file.
type Export struct {
	FileName string
	Data     []byte
	Rows     int
}

// Service holds the current batch records and renders them through the
// sheet engine. Reloads replace the record list wholesale.
type Service struct {
	source   Source
	engine   *sheet.Engine
	notifier whatsapp.Notifier
	logger   *zap.Logger
	now      func() time.Time

	publisher    Publisher
	publishRange string

	group singleflight.Group

	mu       sync.RWMutex
	records  []models.BatchRecord
	loadedAt time.Time
}

// NewService wires a data sheet service. A nil notifier drops notifications.
func NewService(source Source, engine *sheet.Engine, notifier whatsapp.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = whatsapp.NopNotifier{}
	}
	return &Service{
		source:   source,
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// EnablePublishing lets Publish write views to sheetRange.
func (s *Service) EnablePublishing(publisher Publisher, sheetRange string) {
	s.publisher = publisher
	s.publishRange = sheetRange
}

// Reload fetches and assembles the records and swaps them in. Concurrent
// callers share a single fetch, which is detached from the caller's
// cancellation and bounded by its own timeout. On failure the record list is
// emptied, a notification is sent and an error wrapping ErrLoadFailed is
// returned.
func (s *Service) Reload(ctx context.Context) (int, error) {
	v, err, shared := s.group.Do(reloadKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
		defer cancel()
		return s.load(loadCtx)
	})
	if shared {
		s.logger.Debug("joined in-flight reload")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Service) load(ctx context.Context) (int, error) {
	start := s.now()

	raw, err := s.source.FetchBatches(ctx)
	if err != nil {
		s.replace(nil, time.Time{})
		s.logger.Error("failed to load data sheet", zap.Error(err))
		if notifyErr := s.notifier.Notify(ctx, "Error", "Failed to load the complete data sheet."); notifyErr != nil {
			s.logger.Warn("failed to send load failure notification", zap.Error(notifyErr))
		}
		return 0, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	records := assembler.Assemble(raw)
	s.replace(records, s.now())

	s.logger.Info("data sheet loaded",
		zap.Int("records", len(records)),
		zap.Duration("duration", s.now().Sub(start)))
	return len(records), nil
}

func (s *Service) replace(records []models.BatchRecord, at time.Time) {
	if records == nil {
		records = []models.BatchRecord{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loadedAt = at
}

// Records returns the current record list. Callers must not modify it.
func (s *Service) Records() []models.BatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// LoadedAt reports when the last successful load finished, zero if none.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Views lists the available views in tab order.
func (s *Service) Views() []sheet.View {
	return s.engine.Views()
}

// Table renders the records matching query through view.
func (s *Service) Table(view sheet.ViewKey, query string, mode sheet.Mode) (sheet.Table, error) {
	v, err := s.engine.View(view)
	if err != nil {
		return sheet.Table{}, err
	}
	records := search.Filter(s.Records(), query)
	return s.engine.Table(v, records, mode, query), nil
}

// ExportCSV renders the records matching query through view as a CSV file.
func (s *Service) ExportCSV(view sheet.ViewKey, query string, mode sheet.Mode) (Export, error) {
	v, err := s.engine.View(view)
	if err != nil {
		return Export{}, err
	}
	records := search.Filter(s.Records(), query)
	return Export{
		FileName: sheet.ExportFileName(v.Key, mode, s.now()),
		Data:     s.engine.CSV(v, records, mode),
		Rows:     len(records),
	}, nil
}

// Publish writes the header and the records matching query to the
// configured spreadsheet range, replacing its previous contents.
func (s *Service) Publish(ctx context.Context, view sheet.ViewKey, query string, mode sheet.Mode) (int, error) {
	if s.publisher == nil {
		return 0, ErrSheetsDisabled
	}

	v, err := s.engine.View(view)
	if err != nil {
		return 0, err
	}
	records := search.Filter(s.Records(), query)

	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, toValues(sheet.Headers(v)))
	for _, cells := range s.engine.ExportRows(v, records, mode) {
		rows = append(rows, toValues(cells))
	}

	if err := s.publisher.ReplaceRange(ctx, s.publishRange, rows); err != nil {
		return 0, fmt.Errorf("publish view %s: %w", v.Key, err)
	}

	s.logger.Info("view published", zap.String("view", string(v.Key)), zap.Int("rows", len(records)))
	return len(records), nil
}

func toValues(cells []string) []interface{} {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return values
}
