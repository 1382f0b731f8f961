package export

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriterEmitsBOMOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.Write([]string{"Station Name", "Network"}))
	require.NoError(t, w.Write([]string{"Green Charge Hub", "Tata Power"}))
	require.NoError(t, w.Flush())

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, 1, bytes.Count(out, utf8BOM))

	body := string(out[len(utf8BOM):])
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Station Name,Network", lines[0])
}

func TestCSVWriterQuotesEmbeddedCommas(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.Write([]string{"Plot 4, Sector 21", "₹18/kWh"}))
	require.NoError(t, w.Flush())

	assert.Contains(t, buf.String(), `"Plot 4, Sector 21"`)
	assert.Contains(t, buf.String(), "₹18/kWh")
}

func TestSetDownloadHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SetDownloadHeaders(rec, "stations.csv")

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stations.csv"`, rec.Header().Get("Content-Disposition"))
}
