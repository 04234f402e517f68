package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func rec(label string, amount int64, donors int) Record {
	return Record{Label: label, Amount: decimal.NewFromInt(amount), Donors: donors}
}

// sampleYear mirrors the demo dataset shipped with the dashboard.
func sampleYear() []Record {
	return []Record{
		rec("Jan", 5000, 12),
		rec("Feb", 4200, 9),
		rec("Mar", 7200, 18),
		rec("Apr", 8800, 22),
		rec("May", 6500, 15),
		rec("Jun", 9400, 25),
		rec("Jul", 11000, 28),
		rec("Aug", 7600, 16),
		rec("Sep", 8200, 19),
		rec("Oct", 10200, 24),
		rec("Nov", 9000, 20),
		rec("Dec", 12500, 30),
	}
}

func TestRecordValidate(t *testing.T) {
	cases := []struct {
		r   Record
		err error
	}{
		{rec("Jan", 5000, 12), nil},
		{rec("Jan", 0, 0), nil},
		{rec("", 1, 1), ErrEmptyLabel},
		{rec("   ", 1, 1), ErrEmptyLabel},
		{rec("Jan", -1, 1), ErrNegativeAmount},
		{rec("Jan", 1, -1), ErrNegativeDonors},
		{rec("A very long month label that keeps going", 1, 1), ErrLabelTooLong},
		{rec(strings.Repeat("é", 32), 1, 1), nil},
		{rec(strings.Repeat("é", 33), 1, 1), ErrLabelTooLong},
	}
	for i, tc := range cases {
		err := tc.r.Validate()
		if !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestNewDataset(t *testing.T) {
	ds, err := NewDataset(sampleYear())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if ds.Len() != 12 {
		t.Fatalf("expected 12 records, got %d", ds.Len())
	}

	if _, err := NewDataset([]Record{rec("Jan", 1, 1), rec("Jan", 2, 2)}); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate label error, got %v", err)
	}
	if _, err := NewDataset([]Record{rec("Jan", 1, 1), rec(" Jan ", 2, 2)}); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("labels differing only by surrounding space are duplicates, got %v", err)
	}
	if _, err := NewDataset([]Record{rec("Jan", 1, 1), rec("Feb", -2, 2)}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}

	empty, err := NewDataset(nil)
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty dataset should be valid: len=%d err=%v", empty.Len(), err)
	}
}

func TestDatasetIsImmutable(t *testing.T) {
	src := sampleYear()
	ds, err := NewDataset(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src[0].Label = "changed"
	got := ds.Records()
	if got[0].Label != "Jan" {
		t.Fatalf("dataset must copy its input, got %q", got[0].Label)
	}

	got[1].Label = "changed too"
	if ds.Records()[1].Label != "Feb" {
		t.Fatalf("Records must return a copy")
	}
}
