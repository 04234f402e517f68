package core

import "github.com/shopspring/decimal"

// Summary holds the headline statistics shown on the dashboard cards.
type Summary struct {
	TotalAmount     decimal.Decimal
	TotalDonors     int64
	AverageDonation decimal.Decimal
}

// Summarize aggregates totals over all records.
//
// The average is TotalAmount / TotalDonors. When there are no donors the
// divisor is treated as 1, so AverageDonation equals TotalAmount. Values are
// kept unrounded; rounding belongs to presentation.
func Summarize(records []Record) Summary {
	total := decimal.Zero
	var donors int64
	for _, r := range records {
		total = total.Add(r.Amount)
		donors += int64(r.Donors)
	}

	divisor := donors
	if divisor == 0 {
		divisor = 1
	}

	return Summary{
		TotalAmount:     total,
		TotalDonors:     donors,
		AverageDonation: total.Div(decimal.NewFromInt(divisor)),
	}
}
