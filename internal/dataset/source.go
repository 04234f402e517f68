// Package dataset loads the monthly donation records the dashboard displays.
//
// Sources only decode records; validation against the record invariants
// happens once in Open via core.NewDataset.
package dataset

import (
	"context"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"donations/internal/core"
)

//go:embed seed/donations.yaml
var seedFS embed.FS

// Source produces records in chronological order.
type Source interface {
	Load(ctx context.Context) ([]core.Record, error)
}

// Open loads records from src and validates them into a dataset.
func Open(ctx context.Context, src Source) (core.Dataset, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load records: %w", err)
	}
	ds, err := core.NewDataset(records)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("validate records: %w", err)
	}
	return ds, nil
}

type embedded struct{}

// Embedded returns the built-in demo year.
func Embedded() Source {
	return embedded{}
}

func (embedded) Load(_ context.Context) ([]core.Record, error) {
	data, err := seedFS.ReadFile("seed/donations.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded seed: %w", err)
	}
	return decodeYAML(data)
}

// yamlFile is the on-disk shape shared by the embedded seed and YAML/JSON files.
type yamlFile struct {
	Months []yamlRecord `yaml:"months"`
}

type yamlRecord struct {
	Month  string `yaml:"month"`
	Amount string `yaml:"amount"`
	Donors int    `yaml:"donors"`
}

func decodeYAML(data []byte) ([]core.Record, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	records := make([]core.Record, 0, len(f.Months))
	for i, m := range f.Months {
		amount, err := parseAmount(m.Amount)
		if err != nil {
			return nil, fmt.Errorf("month %d (%q): %w", i, m.Month, err)
		}
		records = append(records, core.Record{Label: m.Month, Amount: amount, Donors: m.Donors})
	}
	return records, nil
}

// parseRows decodes tabular rows whose first row is the Month,Amount,Donors header.
func parseRows(rows [][]string) ([]core.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]core.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", line, len(row))
		}
		amount, err := parseAmount(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		donors, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid donors %q", line, row[2])
		}
		records = append(records, core.Record{Label: strings.TrimSpace(row[0]), Amount: amount, Donors: donors})
	}
	return records, nil
}

func checkHeader(row []string) error {
	want := []string{"month", "amount", "donors"}
	if len(row) < len(want) {
		return fmt.Errorf("invalid header %v: expected Month,Amount,Donors", row)
	}
	for i, w := range want {
		if strings.ToLower(strings.TrimSpace(row[i])) != w {
			return fmt.Errorf("invalid header %v: expected Month,Amount,Donors", row)
		}
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
