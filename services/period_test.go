package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/averyhm/photowellbackend/models"
)

func unixTS(year int, month time.Month, day int) *int64 {
	ts := time.Date(year, month, day, 12, 0, 0, 0, time.Local).Unix()
	return &ts
}

func TestPeriodForTime(t *testing.T) {
	a := assert.New(t)

	a.Equal("2025-08", periodForTime(unixTS(2025, time.August, 15), 1900))
	a.Equal("2024-01", periodForTime(unixTS(2024, time.January, 1), 1900))
	a.Equal(models.UndatedPeriod, periodForTime(nil, 1900))

	t.Run("out of range years map to undated", func(t *testing.T) {
		a.Equal(models.UndatedPeriod, periodForTime(unixTS(1850, time.March, 1), 1900))
		a.Equal(models.UndatedPeriod, periodForTime(unixTS(time.Now().Year()+5, time.March, 1), 1900))
	})
}

func TestValidatePeriod(t *testing.T) {
	a := assert.New(t)

	valid := []string{"undated", "2025-01", "2025-12", "1900-06", fmt.Sprintf("%d-01", time.Now().Year()+1)}
	for _, p := range valid {
		a.NoError(validatePeriod(p, 1900), "period %s should be valid", p)
	}

	invalid := []string{
		"", "2025", "2025-1", "2025-001", "2025/08", "august 2025",
		"2025-00", "2025-13", "1899-05", "9999-01", "abcd-01", "2025-xy",
		"2025-+1", "+025-01", "2025- 1", "20 5-01",
	}
	for _, p := range invalid {
		a.Error(validatePeriod(p, 1900), "period %s should be invalid", p)
	}
}

func TestPeriodDisplayName(t *testing.T) {
	a := assert.New(t)

	a.Equal("August 2025", periodDisplayName("2025-08", DefaultUndatedAlbumName))
	a.Equal("January 1999", periodDisplayName("1999-01", DefaultUndatedAlbumName))
	a.Equal("Undated Photos", periodDisplayName(models.UndatedPeriod, DefaultUndatedAlbumName))
	a.Equal("No Date", periodDisplayName(models.UndatedPeriod, "No Date"))
}

func TestPeriodBefore(t *testing.T) {
	a := assert.New(t)

	a.True(periodBefore("2025-07", "2025-08"))
	a.True(periodBefore("2024-12", "2025-01"))
	a.False(periodBefore("2025-08", "2025-08"))
	a.False(periodBefore("2025-09", "2025-08"))
}
