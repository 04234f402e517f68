package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"donations/internal/core"
)

// FileSource reads records from a local file. The format follows the extension:
// .yaml, .yml and .json use the seed layout, .csv and .xlsx use the export layout.
type FileSource struct {
	Path string
}

// File returns a source reading path.
func File(path string) FileSource {
	return FileSource{Path: path}
}

// SupportedExtensions lists the file extensions File understands.
func SupportedExtensions() []string {
	return []string{".yaml", ".yml", ".json", ".csv", ".xlsx"}
}

func (f FileSource) Load(_ context.Context) ([]core.Record, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}
		return decodeYAML(data)
	case ".csv":
		return f.loadCSV()
	case ".xlsx":
		return f.loadXLSX()
	default:
		return nil, fmt.Errorf("unsupported dataset file extension %q", ext)
	}
}

func (f FileSource) loadCSV() ([]core.Record, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", f.Path, err)
	}
	return parseRows(rows)
}

func (f FileSource) loadXLSX() ([]core.Record, error) {
	xl, err := excelize.OpenFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", f.Path, err)
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", f.Path)
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}
