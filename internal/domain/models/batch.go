package models

// RawBatch mirrors one row of the batches query joined with its unit, flock,
// egg pack quality and fertility analysis collections.
type RawBatch struct {
	ID             RecordID            `json:"id" bson:"id"`
	BatchNumber    string              `json:"batch_number" bson:"batch_number"`
	TotalEggsSet   *int                `json:"total_eggs_set" bson:"total_eggs_set"`
	EggsCleared    *int                `json:"eggs_cleared" bson:"eggs_cleared"`
	EggsInjected   *int                `json:"eggs_injected" bson:"eggs_injected"`
	SetDate        string              `json:"set_date" bson:"set_date"`
	Status         string              `json:"status" bson:"status"`
	Unit           *RawUnit            `json:"units" bson:"units"`
	Flock          *RawFlock           `json:"flocks" bson:"flocks"`
	EggPackQuality []RawEggPackQuality `json:"egg_pack_quality" bson:"egg_pack_quality"`
	Fertility      []RawFertility      `json:"fertility" bson:"fertility"`
}

// RawUnit is the embedded hatchery unit of a batch.
type RawUnit struct {
	Name *string `json:"name" bson:"name"`
}

// RawFlock is the embedded source flock of a batch.
type RawFlock struct {
	FlockNumber *int   `json:"flock_number" bson:"flock_number"`
	FlockName   string `json:"flock_name" bson:"flock_name"`
	AgeWeeks    *int   `json:"age_weeks" bson:"age_weeks"`
}

// RawEggPackQuality is one egg pack inspection of a batch.
type RawEggPackQuality struct {
	ID      RecordID `json:"id" bson:"id"`
	Cracked *int     `json:"cracked" bson:"cracked"`
	Dirty   *int     `json:"dirty" bson:"dirty"`
	Small   *int     `json:"small" bson:"small"`
	Large   *int     `json:"large" bson:"large"`
}

// RawFertility is one fertility analysis sample of a batch.
type RawFertility struct {
	ID               RecordID `json:"id" bson:"id"`
	SampleSize       *int     `json:"sample_size" bson:"sample_size"`
	FertileEggs      *int     `json:"fertile_eggs" bson:"fertile_eggs"`
	InfertileEggs    *int     `json:"infertile_eggs" bson:"infertile_eggs"`
	EarlyDead        *int     `json:"early_dead" bson:"early_dead"`
	LateDead         *int     `json:"late_dead" bson:"late_dead"`
	FertilityPercent *float64 `json:"fertility_percent" bson:"fertility_percent"`
}

// BatchRecord is the flat, per-batch row shown on the complete data sheet.
// A nil pointer means the value has not been recorded yet.
type BatchRecord struct {
	BatchID     string  `json:"batch_id"`
	BatchNumber string  `json:"batch_number"`
	FlockNumber *int    `json:"flock_number"`
	FlockName   string  `json:"flock_name"`
	AgeWeeks    *int    `json:"age_weeks"`
	SetDate     string  `json:"set_date"`
	Status      string  `json:"status"`
	UnitName    *string `json:"unit_name"`

	TotalEggsSet *int `json:"total_eggs_set"`
	EggsCleared  *int `json:"eggs_cleared"`
	EggsInjected *int `json:"eggs_injected"`

	SampleSize       *int     `json:"sample_size"`
	FertileEggs      *int     `json:"fertile_eggs"`
	InfertileEggs    *int     `json:"infertile_eggs"`
	EarlyDead        *int     `json:"early_dead"`
	LateDead         *int     `json:"late_dead"`
	FertilityPercent *float64 `json:"fertility_percent"`

	Cracked *int `json:"cracked"`
	Dirty   *int `json:"dirty"`
	Small   *int `json:"small"`
	Large   *int `json:"large"`
}
