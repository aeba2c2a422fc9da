package assembler

import (
	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Assemble flattens the joined batch rows into one BatchRecord per batch,
// keeping the input order.
//
// When a batch carries several fertility or egg pack rows, the one with the
// largest numeric id wins. This is a deduplication policy: rows carry no
// timestamp, and ids are assigned in insertion order.
func Assemble(raw []models.RawBatch) []models.BatchRecord {
	records := make([]models.BatchRecord, 0, len(raw))
	for _, b := range raw {
		records = append(records, assembleOne(b))
	}
	return records
}

func assembleOne(b models.RawBatch) models.BatchRecord {
	record := models.BatchRecord{
		BatchID:      string(b.ID),
		BatchNumber:  b.BatchNumber,
		SetDate:      b.SetDate,
		Status:       b.Status,
		TotalEggsSet: b.TotalEggsSet,
		EggsCleared:  b.EggsCleared,
		EggsInjected: b.EggsInjected,
	}

	if b.Flock != nil {
		record.FlockNumber = b.Flock.FlockNumber
		record.FlockName = b.Flock.FlockName
		record.AgeWeeks = b.Flock.AgeWeeks
	}

	if b.Unit != nil {
		record.UnitName = b.Unit.Name
	}

	if fert, ok := latest(b.Fertility, func(f models.RawFertility) models.RecordID { return f.ID }); ok {
		record.SampleSize = fert.SampleSize
		record.FertileEggs = fert.FertileEggs
		record.InfertileEggs = fert.InfertileEggs
		record.EarlyDead = fert.EarlyDead
		record.LateDead = fert.LateDead
		record.FertilityPercent = fert.FertilityPercent
	}

	if quality, ok := latest(b.EggPackQuality, func(q models.RawEggPackQuality) models.RecordID { return q.ID }); ok {
		record.Cracked = quality.Cracked
		record.Dirty = quality.Dirty
		record.Small = quality.Small
		record.Large = quality.Large
	}

	return record
}

// latest returns the row with the numerically largest id. A candidate only
// replaces the current pick when both ids are numeric and the candidate is
// strictly greater, so ties and non-numeric ids keep the earlier row.
func latest[T any](rows []T, id func(T) models.RecordID) (T, bool) {
	var zero T
	if len(rows) == 0 {
		return zero, false
	}

	pick := rows[0]
	for _, row := range rows[1:] {
		candidate, ok := id(row).Numeric()
		if !ok {
			continue
		}
		current, ok := id(pick).Numeric()
		if !ok {
			continue
		}
		if candidate > current {
			pick = row
		}
	}

	return pick, true
}
