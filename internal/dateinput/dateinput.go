// Package dateinput parses user-entered dates. Day-first (dd/mm/yyyy) is the
// primary format, ISO (yyyy-mm-dd) the fallback.
package dateinput

import (
	"time"

	"hivebooks-backend/internal/httperr"
)

const (
	dayFirst = "02/01/2006"
	iso      = "2006-01-02"
)

// Parse parses value in dd/mm/yyyy format, then yyyy-mm-dd. Empty input is
// valid and yields nil; callers that require the date check for nil
// themselves. The field name is used in the validation message.
func Parse(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(dayFirst, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(iso, value); err == nil {
		return &t, nil
	}
	return nil, httperr.Validationf(field, "invalid date %q, expected dd/mm/yyyy", value)
}
