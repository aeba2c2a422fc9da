package postgres

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// fakeRow copies values into the scan destinations, nil meaning SQL NULL.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(r.values[i])
		if target.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p
		}
		target.Set(v)
	}
	return nil
}

func TestScanBatch(t *testing.T) {
	row := fakeRow{values: []any{
		"42",
		"H#12",
		1000,
		50,
		nil,
		"2026-10-01",
		"hatched",
		"House #12",
		1204,
		"Ross 308",
		41,
		[]byte(`[{"id": 3, "cracked": 2, "dirty": 1, "small": 0, "large": 4}]`),
		[]byte(`[{"id": 8, "sample_size": 100, "fertile_eggs": 95, "fertility_percent": 95.0}]`),
	}}

	batch, err := scanBatch(row)
	require.NoError(t, err)

	assert.Equal(t, models.RecordID("42"), batch.ID)
	assert.Equal(t, "H#12", batch.BatchNumber)
	assert.Equal(t, 1000, *batch.TotalEggsSet)
	assert.Nil(t, batch.EggsInjected)
	require.NotNil(t, batch.Unit)
	assert.Equal(t, "House #12", *batch.Unit.Name)
	require.NotNil(t, batch.Flock)
	assert.Equal(t, 1204, *batch.Flock.FlockNumber)
	assert.Equal(t, 41, *batch.Flock.AgeWeeks)
	require.Len(t, batch.EggPackQuality, 1)
	assert.Equal(t, models.RecordID("3"), batch.EggPackQuality[0].ID)
	require.Len(t, batch.Fertility, 1)
	assert.Equal(t, 95, *batch.Fertility[0].FertileEggs)
	assert.Nil(t, batch.Fertility[0].EarlyDead)
}

func TestScanBatchWithoutUnit(t *testing.T) {
	row := fakeRow{values: []any{
		"7", "B7", nil, nil, nil, "", "", nil, nil, "", nil, []byte(`[]`), []byte(`[]`),
	}}

	batch, err := scanBatch(row)
	require.NoError(t, err)
	assert.Nil(t, batch.Unit)
	assert.Empty(t, batch.EggPackQuality)
	assert.Empty(t, batch.Fertility)
}

func TestScanBatchErrors(t *testing.T) {
	_, err := scanBatch(fakeRow{err: errors.New("conn reset")})
	assert.ErrorContains(t, err, "scan batch")

	row := fakeRow{values: []any{
		"7", "B7", nil, nil, nil, "", "", nil, nil, "", nil, []byte(`{broken`), []byte(`[]`),
	}}
	_, err = scanBatch(row)
	assert.ErrorContains(t, err, "decode egg pack quality of batch 7")
}

func TestBatchesQueryCoalescesTextColumns(t *testing.T) {
	for _, col := range []string{"b.batch_number", "b.set_date::text", "b.status", "f.flock_name"} {
		assert.Contains(t, batchesQuery, "COALESCE("+col+", '')", col)
	}
	assert.False(t, strings.Contains(batchesQuery, "\n\tb.batch_number,"))
}
