package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/averyhm/photowellbackend/models"
)

// periodForTime derives the date-period key for a capture timestamp. A nil
// timestamp, or one whose year falls outside the configured bounds, maps to
// the undated period.
func periodForTime(takenAt *int64, minYear int) string {
	if takenAt == nil {
		return models.UndatedPeriod
	}
	t := time.Unix(*takenAt, 0).Local()
	if t.Year() < minYear || t.Year() > time.Now().Year()+1 {
		return models.UndatedPeriod
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// validatePeriod checks the "YYYY-MM"/"undated" grammar, the month range and
// the configured year bounds.
func validatePeriod(period string, minYear int) error {
	if period == models.UndatedPeriod {
		return nil
	}
	if len(period) != 7 || period[4] != '-' {
		return fmt.Errorf("date period %q does not match YYYY-MM", period)
	}
	// strconv would accept signs and spaces; the key must be digits only so
	// equal periods compare equal as strings
	for i, c := range period {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return fmt.Errorf("date period %q does not match YYYY-MM", period)
		}
	}
	year, _ := strconv.Atoi(period[:4])
	month, _ := strconv.Atoi(period[5:])
	if month < 1 || month > 12 {
		return fmt.Errorf("date period %q has month %d outside 1-12", period, month)
	}
	maxYear := time.Now().Year() + 1
	if year < minYear || year > maxYear {
		return fmt.Errorf("date period %q has year %d outside %d-%d", period, year, minYear, maxYear)
	}
	return nil
}

// periodBefore orders two dated periods; the YYYY-MM layout makes plain
// string comparison chronological.
func periodBefore(a, b string) bool {
	return a < b
}

// periodDisplayName generates the human-readable album name for a period,
// e.g. "August 2025". The undated name comes from the caller since it is a
// user preference.
func periodDisplayName(period, undatedName string) string {
	if period == models.UndatedPeriod {
		return undatedName
	}
	year, _ := strconv.Atoi(period[:4])
	month, _ := strconv.Atoi(period[5:])
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}
