package store

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	// ErrBadDate marks a date string not in YYYY-MM-DD form.
	ErrBadDate = errors.New("invalid date, want YYYY-MM-DD")

	// ErrFutureDate marks an attempt to write day history for a date
	// after the current local date.
	ErrFutureDate = errors.New("date is in the future")
)

// CurrentDate returns the current local calendar date as YYYY-MM-DD.
func CurrentDate() string {
	return time.Now().Format(dateLayout)
}

// ValidateDate checks that date is a well-formed calendar date.
func ValidateDate(date string) error {
	if !dateRe.MatchString(date) {
		return fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	if _, err := time.ParseInLocation(dateLayout, date, time.Local); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	return nil
}

// validateTarget rejects malformed dates and dates strictly after the
// current local date. YYYY-MM-DD strings compare correctly as strings.
func validateTarget(date string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	if date > CurrentDate() {
		return fmt.Errorf("%w: %q", ErrFutureDate, date)
	}
	return nil
}
