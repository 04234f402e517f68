package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"donations/internal/core"
)

// CSV renders records as comma separated rows under the Month,Amount,Donors
// header. Rows are joined by "\n" with no trailing newline. Labels holding a
// comma, quote or line break are quoted.
func CSV(records []core.Record) Document {
	return CSVNamed(records, DefaultCSVFilename)
}

// CSVNamed is CSV with a caller chosen filename.
func CSVNamed(records []core.Record, filename string) Document {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Writes to a bytes.Buffer cannot fail.
	_ = w.Write(Header)
	for _, r := range records {
		_ = w.Write(row(r))
	}
	w.Flush()

	return Document{
		Filename:    filename,
		ContentType: ContentTypeCSV,
		Content:     bytes.TrimSuffix(buf.Bytes(), []byte("\n")),
	}
}

func row(r core.Record) []string {
	return []string{r.Label, r.Amount.String(), strconv.Itoa(r.Donors)}
}
