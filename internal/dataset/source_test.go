package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"donations/internal/core"
	"donations/internal/export"
)

func mustWrite(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestEmbeddedSeed(t *testing.T) {
	ds, err := Open(context.Background(), Embedded())
	if err != nil {
		t.Fatalf("open embedded: %v", err)
	}
	records := ds.Records()
	if len(records) != 12 {
		t.Fatalf("expected 12 months, got %d", len(records))
	}
	if records[0].Label != "Jan" || records[11].Label != "Dec" {
		t.Fatalf("unexpected order: first=%q last=%q", records[0].Label, records[11].Label)
	}
	if !records[11].Amount.Equal(decimal.NewFromInt(12500)) || records[11].Donors != 30 {
		t.Fatalf("unexpected Dec record: %+v", records[11])
	}
}

func TestFileYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := mustWrite(t, dir, "data.yaml", "months:\n  - month: Jan\n    amount: 10.5\n    donors: 2\n  - month: Feb\n    amount: 0\n    donors: 0\n")
	jsonPath := mustWrite(t, dir, "data.json", `{"months":[{"month":"Jan","amount":10.5,"donors":2},{"month":"Feb","amount":"0","donors":0}]}`)

	for _, path := range []string{yamlPath, jsonPath} {
		ds, err := Open(context.Background(), File(path))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		got := ds.Records()
		if len(got) != 2 || got[0].Label != "Jan" || !got[0].Amount.Equal(decimal.RequireFromString("10.5")) {
			t.Fatalf("%s: unexpected records %+v", path, got)
		}
	}
}

func TestFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := mustWrite(t, dir, "data.csv", "Month,Amount,Donors\nOct,10200,24\n\nNov,9000,20\n")

	ds, err := Open(context.Background(), File(path))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	got := ds.Records()
	if len(got) != 2 || got[1].Label != "Nov" || got[1].Donors != 20 {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestFileRoundTripsExports(t *testing.T) {
	ctx := context.Background()
	want, err := Open(ctx, Embedded())
	if err != nil {
		t.Fatalf("open embedded: %v", err)
	}
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(csvPath, export.CSV(want.Records()).Content, 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	doc, err := export.XLSX(want.Records())
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	xlsxPath := filepath.Join(dir, "export.xlsx")
	if err := os.WriteFile(xlsxPath, doc.Content, 0o644); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	for _, path := range []string{csvPath, xlsxPath} {
		got, err := Open(ctx, File(path))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !sameRecords(got.Records(), want.Records()) {
			t.Fatalf("%s: round trip mismatch:\n got %+v\nwant %+v", path, got.Records(), want.Records())
		}
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad header":   mustWrite(t, dir, "header.csv", "Label,Total\nJan,1\n"),
		"bad amount":   mustWrite(t, dir, "amount.csv", "Month,Amount,Donors\nJan,lots,1\n"),
		"bad donors":   mustWrite(t, dir, "donors.csv", "Month,Amount,Donors\nJan,1,many\n"),
		"short row":    mustWrite(t, dir, "short.csv", "Month,Amount,Donors\nJan,1\n"),
		"bad yaml":     mustWrite(t, dir, "broken.yaml", "months: [\n"),
		"unsupported":  mustWrite(t, dir, "data.txt", "Jan 1 1"),
		"missing file": filepath.Join(dir, "absent.csv"),
	}
	for name, path := range cases {
		if _, err := Open(context.Background(), File(path)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOpenValidates(t *testing.T) {
	dir := t.TempDir()
	path := mustWrite(t, dir, "dup.csv", "Month,Amount,Donors\nJan,1,1\nJan,2,2\n")
	if _, err := Open(context.Background(), File(path)); !errors.Is(err, core.ErrDuplicateLabel) {
		t.Fatalf("expected duplicate label error, got %v", err)
	}

	path = mustWrite(t, dir, "neg.csv", "Month,Amount,Donors\nJan,-1,1\n")
	if _, err := Open(context.Background(), File(path)); !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
}

func sameRecords(a, b []core.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Donors != b[i].Donors || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}

func TestSupportedExtensions(t *testing.T) {
	want := []string{".yaml", ".yml", ".json", ".csv", ".xlsx"}
	if !reflect.DeepEqual(SupportedExtensions(), want) {
		t.Fatalf("unexpected extensions %v", SupportedExtensions())
	}
}
