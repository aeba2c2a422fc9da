package metrics

import (
	"strings"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const day = 24 * time.Hour

var setDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

func nz(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// HatchCount is fertile eggs minus early and late dead, never below zero.
// Missing counts are treated as zero.
func HatchCount(r models.BatchRecord) int {
	hatch := nz(r.FertileEggs) - (nz(r.EarlyDead) + nz(r.LateDead))
	if hatch < 0 {
		return 0
	}
	return hatch
}

// HatchPercent is the hatch count over the fertility sample size. The second
// return value is false when the sample size is missing or not positive.
func HatchPercent(r models.BatchRecord) (float64, bool) {
	return ratio(HatchCount(r), nz(r.SampleSize))
}

// HatchOverFertilePercent is the hatch count over fertile eggs.
func HatchOverFertilePercent(r models.BatchRecord) (float64, bool) {
	return ratio(HatchCount(r), nz(r.FertileEggs))
}

// EmbryonicMortality is early plus late dead.
func EmbryonicMortality(r models.BatchRecord) int {
	return nz(r.EarlyDead) + nz(r.LateDead)
}

func ratio(value, denom int) (float64, bool) {
	if denom <= 0 {
		return 0, false
	}
	return float64(value) / float64(denom) * 100, true
}

// ParseSetDate parses a set date in any of the layouts the backends emit.
func ParseSetDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range setDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WeekNumber returns the 1-based incubation week of a batch: days 0-6 are
// week 1, 7-13 week 2 and so on. Both dates are compared as calendar days at
// UTC midnight, the set date as written and now in its own location, so
// offsets and daylight saving never shift the count. A set date in the future
// yields week 0. ok is false when the set date is missing or unparseable.
func WeekNumber(setDate string, now time.Time) (week int, ok bool) {
	set, ok := ParseSetDate(setDate)
	if !ok {
		return 0, false
	}

	days := int(midnightUTC(now).Sub(midnightUTC(set)) / day)
	if days < 0 {
		return 0, true
	}
	return days/7 + 1, true
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
