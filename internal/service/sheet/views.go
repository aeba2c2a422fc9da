package sheet

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/metrics"
)

// ViewKey names one tab of the data sheet.
type ViewKey string

const (
	ViewAll       ViewKey = "all"
	ViewEmbrex    ViewKey = "embrex"
	ViewFertility ViewKey = "fertility"
	ViewEggPack   ViewKey = "eggpack"
	ViewHatch     ViewKey = "hatch"
)

var viewOrder = []ViewKey{ViewAll, ViewEmbrex, ViewFertility, ViewEggPack, ViewHatch}

// View is a titled, ordered set of columns.
type View struct {
	Key     ViewKey
	Title   string
	Columns []Column
}

var houseNumberPattern = regexp.MustCompile(`#\d+`)

func (e *Engine) buildViews() (map[ViewKey]View, error) {
	sampleSize := func(r models.BatchRecord) *int { return r.SampleSize }
	totalEggs := func(r models.BatchRecord) *int { return r.TotalEggsSet }

	perSample := func(key, header string, value Accessor) Column {
		return NewRatioColumn(key, header, AlignRight, value, sampleSize)
	}
	perEggsSet := func(key, header string, value Accessor) Column {
		return NewRatioColumn(key, header, AlignRight, value, totalEggs)
	}
	count := func(key, header string, value Accessor) Column {
		return NewFormatterColumn(key, header, AlignRight, func(r models.BatchRecord, _ Mode) string {
			return e.numbers.Count(value(r))
		})
	}

	commonLeft := []Column{
		NewFormatterColumn("flock_number", "Flock#", AlignLeft, func(r models.BatchRecord, _ Mode) string {
			return Plain(r.FlockNumber)
		}),
		NewFormatterColumn("flock_name", "Flock Name", AlignLeft, func(r models.BatchRecord, _ Mode) string {
			return r.FlockName
		}),
		NewFormatterColumn("age_weeks", "Age (weeks)", AlignLeft, func(r models.BatchRecord, _ Mode) string {
			return Plain(r.AgeWeeks)
		}),
		NewFormatterColumn("batch_number", "House#", AlignLeft, func(r models.BatchRecord, _ Mode) string {
			return houseNumberPattern.FindString(r.BatchNumber)
		}),
		NewFormatterColumn("set_date", "Set Date", AlignLeft, func(r models.BatchRecord, _ Mode) string {
			set, ok := metrics.ParseSetDate(r.SetDate)
			if !ok {
				return Placeholder
			}
			return set.Format("1/2/2006")
		}),
		NewFormatterColumn("week", "Week", AlignRight, func(r models.BatchRecord, _ Mode) string {
			week, ok := metrics.WeekNumber(r.SetDate, e.now().In(e.loc))
			if !ok {
				return Placeholder
			}
			return strconv.Itoa(week)
		}),
	}

	totalEggsSet := count("total_eggs_set", "Total eggs", totalEggs)
	clears := perEggsSet("eggs_cleared", "Clears", func(r models.BatchRecord) *int { return r.EggsCleared })
	injected := perEggsSet("eggs_injected", "Injected", func(r models.BatchRecord) *int { return r.EggsInjected })
	sample := count("sample_size", "Sample Size", sampleSize)
	infertile := perSample("infertile_eggs", "Infertile Eggs", func(r models.BatchRecord) *int { return r.InfertileEggs })
	fertile := perSample("fertile_eggs", "Fertile Eggs", func(r models.BatchRecord) *int { return r.FertileEggs })
	earlyDead := perSample("early_dead", "Early Dead", func(r models.BatchRecord) *int { return r.EarlyDead })
	lateDead := perSample("late_dead", "Late Dead", func(r models.BatchRecord) *int { return r.LateDead })
	fertility := NewFixedPercentColumn("fertility_percent", "Fertility%", AlignRight, func(r models.BatchRecord) *float64 {
		return r.FertilityPercent
	})
	hatch := NewFormatterColumn("hatch", "Hatch", AlignRight, func(r models.BatchRecord, _ Mode) string {
		return e.numbers.Int(metrics.HatchCount(r))
	})
	hatchPct := NewFormatterColumn("hatch_pct", "Hatch %", AlignRight, func(r models.BatchRecord, _ Mode) string {
		return Percent(metrics.HatchPercent(r))
	})
	hofPct := NewFormatterColumn("hof_pct", "Hatch Over Fertile %", AlignRight, func(r models.BatchRecord, _ Mode) string {
		return Percent(metrics.HatchOverFertilePercent(r))
	})
	mortality := func(header string) Column {
		return NewRatioColumn("embryo_mort", header, AlignCenter, func(r models.BatchRecord) *int {
			v := metrics.EmbryonicMortality(r)
			return &v
		}, sampleSize)
	}
	cracked := perSample("cracked", "Cracked", func(r models.BatchRecord) *int { return r.Cracked })
	dirty := perSample("dirty", "Dirty", func(r models.BatchRecord) *int { return r.Dirty })
	small := perSample("small", "Small", func(r models.BatchRecord) *int { return r.Small })
	large := perSample("large", "Large", func(r models.BatchRecord) *int { return r.Large })

	withLeft := func(cols ...Column) []Column {
		out := make([]Column, 0, len(commonLeft)+len(cols))
		out = append(out, commonLeft...)
		return append(out, cols...)
	}

	views := []View{
		{Key: ViewAll, Title: "Data Summary", Columns: withLeft(
			totalEggsSet, clears, injected, sample, infertile, fertile, earlyDead, lateDead,
			fertility, hatch, hatchPct, hofPct, mortality("Embryonic Mortality"),
			cracked, dirty, small, large,
		)},
		{Key: ViewEmbrex, Title: "Embrex Data", Columns: withLeft(totalEggsSet, clears, injected)},
		{Key: ViewFertility, Title: "Fertility Analysis", Columns: withLeft(
			sample, infertile, fertile, earlyDead, lateDead, fertility, mortality("Total Embryonic Mortality"),
		)},
		{Key: ViewEggPack, Title: "Egg Pack Quality", Columns: withLeft(cracked, dirty, small, large)},
		{Key: ViewHatch, Title: "Hatch Performance", Columns: withLeft(sample, hatch, hatchPct, hofPct)},
	}

	byKey := make(map[ViewKey]View, len(views))
	for _, v := range views {
		if err := validateColumns(v.Columns); err != nil {
			return nil, fmt.Errorf("view %s: %w", v.Key, err)
		}
		byKey[v.Key] = v
	}
	return byKey, nil
}
