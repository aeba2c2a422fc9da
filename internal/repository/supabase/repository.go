package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const (
	batchesPath = "/rest/v1/batches"

	// batchSelect embeds the unit, flock, egg pack quality and fertility rows
	// of each batch. The fertility relation is named explicitly because
	// fertility_analysis references batches more than once.
	batchSelect = "id,batch_number,total_eggs_set,eggs_cleared,eggs_injected,set_date,status," +
		"units(name)," +
		"flocks!inner(flock_number,flock_name,age_weeks)," +
		"egg_pack_quality(id,cracked,dirty,small,large)," +
		"fertility:fertility_analysis!fertility_analysis_batch_id_fkey(id,sample_size,fertile_eggs,infertile_eggs,early_dead,late_dead,fertility_percent)"
)

// Repository reads batches from a Supabase project through PostgREST.
type Repository struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// apiError mirrors the PostgREST error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewRepository builds a PostgREST client authenticated with the project's
// anon key.
func NewRepository(cfg config.SupabaseConfig, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AnonKey)).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &Repository{httpClient: client, logger: logger}
}

// FetchBatches returns every batch with its joined rows, newest set date
// first.
func (r *Repository) FetchBatches(ctx context.Context) ([]models.RawBatch, error) {
	var batches []models.RawBatch
	apiErr := new(apiError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": batchSelect,
			"order":  "set_date.desc",
		}).
		SetResult(&batches).
		SetError(apiErr).
		Get(batchesPath)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = resp.Status()
		}
		return nil, fmt.Errorf("supabase error: status=%d, code=%s, message=%s", resp.StatusCode(), apiErr.Code, message)
	}

	r.logger.Debug("batches fetched", zap.Int("count", len(batches)))
	return batches, nil
}
