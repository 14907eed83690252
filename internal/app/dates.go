package app

import (
	"fmt"
	"time"

	"hotelconnect/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseDate accepts calendar dates in YYYY-MM-DD form only.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format %q, use YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string { return t.Format(dateLayout) }
