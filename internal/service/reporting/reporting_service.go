package reporting

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/metrics"
)

const dateLayout = "2006-01-02"

// RecordSource exposes the currently loaded batch records.
type RecordSource interface {
	Records() []models.BatchRecord
}

// Service builds short text summaries of hatch performance.
type Service struct {
	records RecordSource
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(records RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

// WeeklySummary covers the batches set during the seven days ending at now:
// eggs set, and average hatch and hatch over fertile percentages of the
// batches that have a fertility sample.
func (s *Service) WeeklySummary(now time.Time) string {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)

	var (
		batches   int
		eggsSet   int
		hatchSum  float64
		hatchN    int
		hofSum    float64
		hofN      int
		noSetDate int
	)

	for _, r := range s.records.Records() {
		set, ok := metrics.ParseSetDate(r.SetDate)
		if !ok {
			noSetDate++
			continue
		}
		day := time.Date(set.Year(), set.Month(), set.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(start) || day.After(end) {
			continue
		}

		batches++
		if r.TotalEggsSet != nil {
			eggsSet += *r.TotalEggsSet
		}
		if pct, ok := metrics.HatchPercent(r); ok {
			hatchSum += pct
			hatchN++
		}
		if pct, ok := metrics.HatchOverFertilePercent(r); ok {
			hofSum += pct
			hofN++
		}
	}

	if noSetDate > 0 {
		s.logger.Debug("skipped batches without set date", zap.Int("count", noSetDate))
	}

	period := fmt.Sprintf("%s-%s", start.Format(dateLayout), end.Format(dateLayout))
	if batches == 0 {
		return fmt.Sprintf("Hatchery summary (%s): no batches set.", period)
	}

	summary := fmt.Sprintf("Hatchery summary (%s): %d batches, %d eggs set.", period, batches, eggsSet)
	if hatchN == 0 {
		return summary + " No fertility samples yet."
	}

	summary += fmt.Sprintf(" Avg hatch %.1f%% over %d sampled batches.", hatchSum/float64(hatchN), hatchN)
	if hofN > 0 {
		summary += fmt.Sprintf(" Avg hatch over fertile %.1f%%.", hofSum/float64(hofN))
	}
	return summary
}
