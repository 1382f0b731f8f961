package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
)

// utf8BOM makes spreadsheet tools detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter streams a BOM-prefixed CSV document.
type CSVWriter struct {
	w       *csv.Writer
	started bool
	dst     io.Writer
}

// NewCSVWriter wraps dst. The BOM is emitted before the first row.
func NewCSVWriter(dst io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(dst), dst: dst}
}

// Write appends one record.
func (c *CSVWriter) Write(record []string) error {
	if !c.started {
		if _, err := c.dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("writing bom: %w", err)
		}
		c.started = true
	}
	return c.w.Write(record)
}

// Flush drains buffered rows and reports any deferred write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// SetDownloadHeaders marks the response as a CSV attachment.
func SetDownloadHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
