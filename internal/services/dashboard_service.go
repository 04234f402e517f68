package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"donations/internal/core"
	"donations/internal/export"
	applog "donations/internal/log"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// DashboardService answers every dashboard question from one immutable
// dataset. Summary and peak cover the whole dataset and are computed once.
type DashboardService struct {
	dataset  core.Dataset
	summary  core.Summary
	peak     core.Record
	hasPeak  bool
	filename string
	exports  *applog.StructuredLogger
}

// NewDashboardService precomputes the aggregates. filename is the CSV
// download name; the spreadsheet export swaps its extension for .xlsx.
func NewDashboardService(dataset core.Dataset, filename string, logger *applog.Logger) *DashboardService {
	if strings.TrimSpace(filename) == "" {
		filename = export.DefaultCSVFilename
	}
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}

	records := dataset.Records()
	peak, ok := core.Peak(records)
	return &DashboardService{
		dataset:  dataset,
		summary:  core.Summarize(records),
		peak:     peak,
		hasPeak:  ok,
		filename: filename,
		exports:  applog.NewStructuredLogger(logger.WithComponent(applog.ComponentExport)),
	}
}

// Summary returns the totals over the full dataset.
func (s *DashboardService) Summary() core.Summary {
	return s.summary
}

// Peak returns the highest-amount month of the full dataset. It ignores the
// current window and filter.
func (s *DashboardService) Peak() (core.Record, bool) {
	return s.peak, s.hasPeak
}

// View returns the displayed rows for a window and filter.
func (s *DashboardService) View(view core.ViewState) []core.Record {
	return core.SelectView(s.dataset.Records(), view)
}

// Export serializes exactly the rows View would display.
func (s *DashboardService) Export(ctx context.Context, view core.ViewState, format export.Format) (export.Document, error) {
	rows := s.View(view)

	var (
		doc export.Document
		err error
	)
	switch format {
	case export.FormatCSV:
		doc = export.CSVNamed(rows, s.filename)
	case export.FormatXLSX:
		doc, err = export.XLSX(rows)
		if err != nil {
			s.exports.LogError(ctx, "Spreadsheet export failed", err, applog.OpExport,
				applog.NewFields().WithView(int(view.Window), view.Filter))
			return export.Document{}, fmt.Errorf("export xlsx: %w", err)
		}
		doc.Filename = xlsxName(s.filename)
	default:
		return export.Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	s.exports.LogExport(ctx, string(format), doc.Filename, len(rows))
	return doc, nil
}

func xlsxName(csvName string) string {
	return strings.TrimSuffix(csvName, filepath.Ext(csvName)) + ".xlsx"
}
