package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats for Listing.Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Listing is the result of listing one table.
type Listing struct {
	Table   Table
	Columns []string
	Rows    [][]string
	Records any
}

// Len is the number of rows listed.
func (l Listing) Len() int { return len(l.Rows) }

// Write renders the listing as an aligned table, JSON or YAML.
func (l Listing) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		if len(l.Rows) == 0 {
			_, err := fmt.Fprintf(w, "No rows in %s.\n", l.Table)
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(l.Columns, "\t"))
		for _, r := range l.Rows {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
		return tw.Flush()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l.Records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l.Records); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
