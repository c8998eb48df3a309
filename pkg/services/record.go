package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIncompleteRecord is returned when the extractor produced a payload with
// missing or empty required fields. Nothing is persisted in that case.
var ErrIncompleteRecord = errors.New("incomplete expense record")

// Record represents a single extracted expense. Amount is in PLN without a
// currency symbol, Date is always DD.MM.YYYY.
type Record struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Place  string  `json:"place"`
}

// Validate checks that all three fields are populated. A record is either
// fully populated or it does not exist.
func (r Record) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("%w: missing or zero amount", ErrIncompleteRecord)
	}
	if strings.TrimSpace(r.Date) == "" {
		return fmt.Errorf("%w: missing date", ErrIncompleteRecord)
	}
	if strings.TrimSpace(r.Place) == "" {
		return fmt.Errorf("%w: missing place", ErrIncompleteRecord)
	}
	return nil
}

// Normalize returns a copy with internal whitespace runs in Place collapsed
// to single spaces and leading/trailing whitespace removed. Amount and Date
// pass through unchanged. Normalize is pure and idempotent.
func (r Record) Normalize() Record {
	r.Place = strings.Join(strings.Fields(r.Place), " ")
	return r
}

// Row returns the ordered triple [amount, date, place] matching the ledger's
// three-column layout.
func (r Record) Row() []any {
	return []any{r.Amount, r.Date, r.Place}
}

// FormatAmount formats the amount without a trailing .00 for whole numbers.
func (r Record) FormatAmount() string {
	if r.Amount == float64(int64(r.Amount)) {
		return strconv.FormatFloat(r.Amount, 'f', 0, 64)
	}
	return strconv.FormatFloat(r.Amount, 'f', 2, 64)
}

// String formats the record for user confirmation messages.
func (r Record) String() string {
	return fmt.Sprintf("%s zł, %s, %s", r.FormatAmount(), r.Date, r.Place)
}
