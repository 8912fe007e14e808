package shared

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date into midnight UTC. field names the
// offending input in the validation error.
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return d, nil
}

// ParseOptionalDate is ParseDate for optional inputs; an empty value yields nil.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
