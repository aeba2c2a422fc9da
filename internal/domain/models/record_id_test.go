package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordIDUnmarshalJSON(t *testing.T) {
	var rows []RawFertility
	payload := `[{"id": 12}, {"id": "7"}, {"id": null}, {"id": 3.5}, {"id": "9f1c"}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &rows))

	got := make([]RecordID, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.ID)
	}
	assert.Equal(t, []RecordID{"12", "7", "", "3.5", "9f1c"}, got)
}

func TestRecordIDUnmarshalJSONRejectsObjects(t *testing.T) {
	var row RawFertility
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &row))
}

func TestRecordIDNumeric(t *testing.T) {
	tests := []struct {
		id     RecordID
		want   float64
		wantOK bool
	}{
		{id: "42", want: 42, wantOK: true},
		{id: " 3.5 ", want: 3.5, wantOK: true},
		{id: "", wantOK: false},
		{id: "abc", wantOK: false},
		{id: "NaN", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := tt.id.Numeric()
		assert.Equal(t, tt.wantOK, ok, string(tt.id))
		assert.Equal(t, tt.want, got, string(tt.id))
	}
}

func TestRecordIDUnmarshalBSON(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name  string
		value interface{}
		want  RecordID
	}{
		{name: "string", value: "abc", want: "abc"},
		{name: "int32", value: int32(7), want: "7"},
		{name: "int64", value: int64(9000000000), want: "9000000000"},
		{name: "double", value: 2.5, want: "2.5"},
		{name: "object id", value: oid, want: RecordID(oid.Hex())},
		{name: "null", value: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"id": tt.value})
			require.NoError(t, err)

			var row RawEggPackQuality
			require.NoError(t, bson.Unmarshal(raw, &row))
			assert.Equal(t, tt.want, row.ID)
		})
	}
}

func TestRawBatchDecodesPostgRESTPayload(t *testing.T) {
	payload := `{
		"id": "5b0c",
		"batch_number": "H#3",
		"total_eggs_set": 1000,
		"eggs_cleared": null,
		"eggs_injected": 940,
		"set_date": "2026-10-01",
		"status": "incubating",
		"units": null,
		"flocks": {"flock_number": 11, "flock_name": "Ross", "age_weeks": 30},
		"egg_pack_quality": [],
		"fertility": [{"id": 1, "sample_size": 100, "fertile_eggs": 90, "infertile_eggs": 10, "early_dead": 1, "late_dead": 2, "fertility_percent": 90.0}]
	}`

	var b RawBatch
	require.NoError(t, json.Unmarshal([]byte(payload), &b))
	assert.Equal(t, RecordID("5b0c"), b.ID)
	assert.Nil(t, b.EggsCleared)
	assert.Equal(t, 940, *b.EggsInjected)
	assert.Nil(t, b.Unit)
	require.NotNil(t, b.Flock)
	assert.Equal(t, 11, *b.Flock.FlockNumber)
	assert.Empty(t, b.EggPackQuality)
	require.Len(t, b.Fertility, 1)
	assert.Equal(t, 90.0, *b.Fertility[0].FertilityPercent)
}
