package datasheet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/sheet"
)

func intPtr(v int) *int { return &v }

type fakeSource struct {
	batches []models.RawBatch
	err     error
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *fakeSource) FetchBatches(ctx context.Context) ([]models.RawBatch, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.batches, f.err
}

type sourceFunc func(ctx context.Context) ([]models.RawBatch, error)

func (f sourceFunc) FetchBatches(ctx context.Context) ([]models.RawBatch, error) { return f(ctx) }

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, title+": "+message)
	return nil
}

type fakePublisher struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (f *fakePublisher) ReplaceRange(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.sheetRange = sheetRange
	f.rows = rows
	return f.err
}

var fixedNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func sampleBatches() []models.RawBatch {
	return []models.RawBatch{
		{
			ID: "b-2", BatchNumber: "H#2", SetDate: "2026-10-15",
			TotalEggsSet: intPtr(1000), EggsCleared: intPtr(50),
			Flock: &models.RawFlock{FlockNumber: intPtr(20), FlockName: "Cobb"},
		},
		{
			ID: "b-1", BatchNumber: "H#1", SetDate: "2026-10-01",
			TotalEggsSet: intPtr(2000), EggsCleared: intPtr(100),
			Flock: &models.RawFlock{FlockNumber: intPtr(10), FlockName: "Ross"},
		},
	}
}

func newTestService(t *testing.T, source Source, notifier *fakeNotifier) *Service {
	t.Helper()
	engine, err := sheet.NewEngine(sheet.Options{Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	svc := NewService(source, engine, notifier, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestReloadReplacesRecords(t *testing.T) {
	source := &fakeSource{batches: sampleBatches()}
	svc := newTestService(t, source, &fakeNotifier{})

	assert.Empty(t, svc.Records())
	assert.True(t, svc.LoadedAt().IsZero())

	count, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "b-2", svc.Records()[0].BatchID)
	assert.Equal(t, fixedNow, svc.LoadedAt())

	source.batches = sampleBatches()[1:]
	count, err = svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "b-1", svc.Records()[0].BatchID)
}

func TestReloadFailureEmptiesRecordsAndNotifies(t *testing.T) {
	source := &fakeSource{batches: sampleBatches()}
	notifier := &fakeNotifier{}
	svc := newTestService(t, source, notifier)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	cause := errors.New("connection refused")
	source.err = cause
	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, cause)

	assert.NotNil(t, svc.Records())
	assert.Empty(t, svc.Records())
	assert.True(t, svc.LoadedAt().IsZero())
	assert.Len(t, notifier.messages, 1)
}

func TestReloadIgnoresCallerCancellation(t *testing.T) {
	source := &fakeSource{batches: sampleBatches()}
	notifier := &fakeNotifier{}
	svc := newTestService(t, source, notifier)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, svc.Records(), 2)
	assert.Empty(t, notifier.messages)
}

func TestReloadBoundsTheFetch(t *testing.T) {
	var deadline time.Time
	source := sourceFunc(func(ctx context.Context) ([]models.RawBatch, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	svc := newTestService(t, source, &fakeNotifier{})

	before := time.Now()
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(reloadTimeout), deadline, 5*time.Second)
}

func TestConcurrentReloadsShareOneFetch(t *testing.T) {
	source := &fakeSource{batches: sampleBatches(), gate: make(chan struct{})}
	svc := newTestService(t, source, &fakeNotifier{})

	var (
		wg      sync.WaitGroup
		started atomic.Int32
	)
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			results[i], _ = svc.Reload(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool {
		return started.Load() == int32(len(results)) && source.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	// Let the late goroutines reach the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

func TestTableFiltersAndRenders(t *testing.T) {
	svc := newTestService(t, &fakeSource{batches: sampleBatches()}, &fakeNotifier{})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	table, err := svc.Table(sheet.ViewEmbrex, "ross", sheet.ModePercent)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count)
	assert.Equal(t, "b-1", table.Rows[0].BatchID)
	assert.Equal(t, "5.0%", table.Rows[0].Cells[7])

	_, err = svc.Table("nope", "", sheet.ModeCounts)
	assert.ErrorIs(t, err, sheet.ErrUnknownView)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t, &fakeSource{batches: sampleBatches()}, &fakeNotifier{})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	export, err := svc.ExportCSV(sheet.ViewEmbrex, "", sheet.ModeCounts)
	require.NoError(t, err)
	assert.Equal(t, "complete-data-embrex-counts-2026-10-19.csv", export.FileName)
	assert.Equal(t, 2, export.Rows)

	lines := strings.Split(string(export.Data), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Cobb"`)
	assert.Contains(t, lines[2], `"100"`)

	export, err = svc.ExportCSV(sheet.ViewEmbrex, "no such flock", sheet.ModeCounts)
	require.NoError(t, err)
	assert.Equal(t, 0, export.Rows)
	assert.NotContains(t, string(export.Data), "\n")
}

func TestPublish(t *testing.T) {
	svc := newTestService(t, &fakeSource{batches: sampleBatches()}, &fakeNotifier{})
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), sheet.ViewAll, "", sheet.ModeCounts)
	assert.ErrorIs(t, err, ErrSheetsDisabled)

	publisher := &fakePublisher{}
	svc.EnablePublishing(publisher, "Data!A1")

	rows, err := svc.Publish(context.Background(), sheet.ViewEggPack, "cobb", sheet.ModePercent)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, "Data!A1", publisher.sheetRange)
	require.Len(t, publisher.rows, 2)
	assert.Equal(t, "Flock#", publisher.rows[0][0])
	assert.Equal(t, "20", publisher.rows[1][0])

	publisher.err = errors.New("quota exceeded")
	_, err = svc.Publish(context.Background(), sheet.ViewEggPack, "", sheet.ModePercent)
	assert.ErrorContains(t, err, "quota exceeded")
}
