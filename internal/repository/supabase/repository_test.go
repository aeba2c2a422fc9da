package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

func TestFetchBatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, batchesPath, r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		assert.Equal(t, batchSelect, r.URL.Query().Get("select"))
		assert.Equal(t, "set_date.desc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 2, "batch_number": "B2", "total_eggs_set": 500, "set_date": "2026-10-10",
			 "units": {"name": "#3"}, "flocks": {"flock_number": 9, "flock_name": "Cobb", "age_weeks": 28},
			 "egg_pack_quality": [], "fertility": [{"id": 5, "sample_size": 50}]},
			{"id": 1, "batch_number": "B1", "set_date": "2026-10-01",
			 "units": null, "flocks": {"flock_number": 8, "flock_name": "Ross", "age_weeks": 40},
			 "egg_pack_quality": [], "fertility": []}
		]`))
	}))
	defer srv.Close()

	repo := NewRepository(config.SupabaseConfig{URL: srv.URL + "/", AnonKey: "anon"}, nil)
	batches, err := repo.FetchBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Equal(t, models.RecordID("2"), batches[0].ID)
	assert.Equal(t, "#3", *batches[0].Unit.Name)
	assert.Equal(t, 50, *batches[0].Fertility[0].SampleSize)
	assert.Nil(t, batches[1].Unit)
	assert.Nil(t, batches[1].TotalEggsSet)
}

func TestFetchBatchesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": "PGRST200", "message": "Could not find a relationship"}`))
	}))
	defer srv.Close()

	repo := NewRepository(config.SupabaseConfig{URL: srv.URL, AnonKey: "anon"}, nil)
	_, err := repo.FetchBatches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "PGRST200")
	assert.Contains(t, err.Error(), "Could not find a relationship")
}

func TestFetchBatchesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repo := NewRepository(config.SupabaseConfig{URL: url, AnonKey: "anon"}, nil)
	_, err := repo.FetchBatches(context.Background())
	assert.ErrorContains(t, err, "query batches")
}
