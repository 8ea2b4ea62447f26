package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RecordOutput is one scraped page
type RecordOutput struct {
	URL     string        `json:"url"`
	Changed []string      `json:"changed,omitempty"`
	Record  *field.Record `json:"record"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time      `json:"checked_at"`
	Records   []RecordOutput `json:"records"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRows writes a single table
func WriteRows(w io.Writer, rows []*table.Row, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatText:
		writeTable(w, rows)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs records as "field: value" lines with tables rendered below their name
func writeText(w io.Writer, result *OutputResult) error {
	for i, out := range result.Records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, out.URL)
		for _, key := range out.Record.Keys() {
			v, _ := out.Record.Get(key)
			if rows, ok := v.([]*table.Row); ok {
				fmt.Fprintf(w, "  %s: %d rows\n", key, len(rows))
				if len(rows) > 0 {
					writeTable(w, rows)
				}
				continue
			}
			fmt.Fprintf(w, "  %s: %s\n", key, formatValue(v))
		}
		if len(out.Changed) > 0 {
			fmt.Fprintf(w, "  changed since last snapshot: %s\n", strings.Join(out.Changed, ", "))
		}
	}
	return nil
}

// writeTable renders rows with the first row's fields as header
func writeTable(w io.Writer, rows []*table.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No rows found.")
		return
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(w)

	keys := rows[0].Keys()
	header := make(prettytable.Row, len(keys))
	for i, k := range keys {
		header[i] = k
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(prettytable.Row, len(keys))
		for i, k := range keys {
			v, _ := row.Get(k)
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}

	t.SetStyle(prettytable.StyleRounded)
	t.Render()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
