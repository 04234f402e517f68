package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type (
	// Record is one month's donation summary.
	Record struct {
		Label  string          // Month abbreviation, unique within a dataset
		Amount decimal.Decimal // Total donated in the period
		Donors int             // Number of donation events in the period
	}

	// Dataset is a validated, chronologically ordered sequence of records.
	// It is never mutated after construction.
	Dataset struct {
		records []Record
	}
)

var (
	ErrEmptyLabel     = errors.New("empty label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrNegativeAmount = errors.New("negative amount")
	ErrNegativeDonors = errors.New("negative donor count")
	ErrLabelTooLong   = errors.New("label too long (max 32 characters)")
)

func (r Record) Validate() error {
	label := strings.TrimSpace(r.Label)
	if label == "" {
		return ErrEmptyLabel
	}
	if utf8.RuneCountInString(label) > 32 {
		return ErrLabelTooLong
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if r.Donors < 0 {
		return ErrNegativeDonors
	}
	return nil
}

// NewDataset validates records and returns an immutable dataset holding a copy of them.
func NewDataset(records []Record) (Dataset, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return Dataset{}, fmt.Errorf("record %d (%q): %w", i, r.Label, err)
		}
		key := strings.TrimSpace(r.Label)
		if _, dup := seen[key]; dup {
			return Dataset{}, fmt.Errorf("record %d (%q): %w", i, r.Label, ErrDuplicateLabel)
		}
		seen[key] = struct{}{}
		out[i] = r
	}
	return Dataset{records: out}, nil
}

// Records returns a copy of the dataset in chronological order.
func (d Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.records)
}
