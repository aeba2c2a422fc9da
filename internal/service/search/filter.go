package search

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Filter keeps the records whose flock name, batch number, flock number or
// unit name contains the query, ignoring case. A blank query returns records
// as is.
func Filter(records []models.BatchRecord, query string) []models.BatchRecord {
	if strings.TrimSpace(query) == "" {
		return records
	}

	needle := strings.ToLower(query)
	filtered := make([]models.BatchRecord, 0, len(records))
	for _, r := range records {
		if Matches(r, needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Matches reports whether a record matches an already lower-cased query.
func Matches(r models.BatchRecord, needle string) bool {
	if strings.Contains(strings.ToLower(r.FlockName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.BatchNumber), needle) {
		return true
	}
	if r.FlockNumber != nil && strings.Contains(strconv.Itoa(*r.FlockNumber), needle) {
		return true
	}
	if r.UnitName != nil && strings.Contains(strings.ToLower(*r.UnitName), needle) {
		return true
	}
	return false
}
