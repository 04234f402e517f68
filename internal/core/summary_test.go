package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeSampleYear(t *testing.T) {
	s := Summarize(sampleYear())

	if !s.TotalAmount.Equal(decimal.NewFromInt(99600)) {
		t.Fatalf("total amount = %s, want 99600", s.TotalAmount)
	}
	if s.TotalDonors != 238 {
		t.Fatalf("total donors = %d, want 238", s.TotalDonors)
	}

	want := 99600.0 / 238.0
	got := s.AverageDonation.InexactFloat64()
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("average = %v, want %v", got, want)
	}
	// Stored value stays unrounded.
	if s.AverageDonation.Equal(s.AverageDonation.Round(0)) {
		t.Fatalf("average should not be rounded, got %s", s.AverageDonation)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	forward := sampleYear()
	reversed := make([]Record, len(forward))
	for i, r := range forward {
		reversed[len(forward)-1-i] = r
	}

	a, b := Summarize(forward), Summarize(reversed)
	if !a.TotalAmount.Equal(b.TotalAmount) || a.TotalDonors != b.TotalDonors {
		t.Fatalf("totals differ under reordering: %+v vs %+v", a, b)
	}
}

func TestSummarizeFractionalAmounts(t *testing.T) {
	records := []Record{
		{Label: "a", Amount: decimal.RequireFromString("0.1"), Donors: 1},
		{Label: "b", Amount: decimal.RequireFromString("0.2"), Donors: 1},
	}
	s := Summarize(records)
	if !s.TotalAmount.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected exact 0.3, got %s", s.TotalAmount)
	}
	if !s.AverageDonation.Equal(decimal.RequireFromString("0.15")) {
		t.Fatalf("expected 0.15, got %s", s.AverageDonation)
	}
}

func TestSummarizeZeroDonorsFallsBackToTotal(t *testing.T) {
	cases := []struct {
		name    string
		records []Record
		total   int64
	}{
		{"empty", nil, 0},
		{"no donors", []Record{rec("Jan", 500, 0), rec("Feb", 250, 0)}, 750},
	}
	for _, tc := range cases {
		s := Summarize(tc.records)
		if s.TotalDonors != 0 {
			t.Fatalf("%s: expected zero donors, got %d", tc.name, s.TotalDonors)
		}
		if !s.AverageDonation.Equal(decimal.NewFromInt(tc.total)) {
			t.Fatalf("%s: average = %s, want %d", tc.name, s.AverageDonation, tc.total)
		}
	}
}
