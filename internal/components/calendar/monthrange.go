package calendar

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

const (
	minYear = 1000
	maxYear = 9999
)

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
}

// Contains reports whether d lies in [From, To].
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// ResolveMonth returns the first and last day of a 1-indexed month. The last day is day zero of the
// following month, which rolls December into January of the next year.
func ResolveMonth(year, month int) (DateRange, error) {
	if err := validateYearMonth(year, month); err != nil {
		return DateRange{}, err
	}

	// UTC only normalizes the day arithmetic; no instant is ever compared.
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return DateRange{
		From: civil.Date{Year: year, Month: time.Month(month), Day: 1},
		To:   civil.DateOf(last),
	}, nil
}

func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

func PrevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ParseYearMonth parses path parameters such as "2025" and "07".
func ParseYearMonth(yearStr, monthStr string) (int, int, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, apperr.Validation("year must be numeric, got %q", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, apperr.Validation("month must be numeric, got %q", monthStr)
	}
	if err := validateYearMonth(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func validateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return apperr.Validation("month must be between 1 and 12, got %d", month)
	}
	if year < minYear || year > maxYear {
		return apperr.Validation("year must have four digits, got %d", year)
	}
	return nil
}
