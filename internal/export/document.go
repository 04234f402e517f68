// Package export serializes the displayed donation rows into downloadable documents.
//
// Exporters only build bytes and a suggested filename; presenting the
// document to the user is left to the caller.
package export

// Header is the column row shared by every export format.
var Header = []string{"Month", "Amount", "Donors"}

const (
	DefaultCSVFilename  = "donations.csv"
	DefaultXLSXFilename = "donations.xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatXLSX:
		return true
	default:
		return false
	}
}

// Document is a finished export ready to hand to a download collaborator.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
