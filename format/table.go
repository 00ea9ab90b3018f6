// ABOUTME: HTML table formatter with Bulma classes and colspan on the last cell of short rows.
// ABOUTME: Rows are any slice or array of cell sequences; anything else is a MalformedTableError.
package format

import (
	"fmt"
	"html"
	"reflect"
	"strconv"
	"strings"
)

// TableOption configures Table.
type TableOption func(*tableOptions)

type tableOptions struct {
	header []string
	escape bool
}

// WithHeader sets the header row.
func WithHeader(header ...string) TableOption {
	return func(o *tableOptions) {
		o.header = header
	}
}

// WithTableEscape controls HTML escaping of header and cell values (default true).
func WithTableEscape(escape bool) TableOption {
	return func(o *tableOptions) {
		o.escape = escape
	}
}

// Table renders rows as a Bulma-styled HTML table and enqueues it.
//
// rows must be a slice or array whose elements are slices or arrays of cells,
// e.g. [][]any or [][]string. Cells are stringified with fmt.Sprint. When a
// row has fewer cells than the header, its last cell spans the remaining
// columns.
func (p *Printer) Table(rows any, opts ...TableOption) error {
	o := tableOptions{escape: true}
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := tableCells(rows)
	if err != nil {
		return err
	}
	return p.buf.Enqueue(tableFragment(grid, o))
}

func tableFragment(grid [][]string, o tableOptions) string {
	cell := func(s string) string {
		if o.escape {
			return html.EscapeString(s)
		}
		return s
	}

	var b strings.Builder
	b.WriteString("<table class=\"table is-bordered is-striped\">\n")

	if len(o.header) > 0 {
		b.WriteString("  <thead><tr>\n")
		for _, h := range o.header {
			b.WriteString("    <th>" + cell(h) + "</th>\n")
		}
		b.WriteString("  </tr></thead>\n")
	}

	b.WriteString("  <tbody>\n")
	for _, row := range grid {
		short := len(o.header) > len(row)
		b.WriteString("    <tr>\n")
		for i, v := range row {
			if short && i == len(row)-1 {
				span := len(o.header) - len(row) + 1
				b.WriteString("      <td colspan=\"" + strconv.Itoa(span) + "\">" + cell(v) + "</td>\n")
				continue
			}
			b.WriteString("      <td>" + cell(v) + "</td>\n")
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n")
	b.WriteString("</table>\n")
	return b.String()
}

// tableCells flattens rows into strings, rejecting anything that is not a
// sequence of sequences. Strings are not accepted as rows.
func tableCells(rows any) ([][]string, error) {
	if rows == nil {
		return nil, nil
	}
	if grid, ok := rows.([][]string); ok {
		return grid, nil
	}

	rv := reflect.ValueOf(rows)
	if !isSequence(rv) {
		return nil, &MalformedTableError{Row: -1, Kind: rv.Kind().String()}
	}

	grid := make([][]string, rv.Len())
	for i := range grid {
		row := rv.Index(i)
		for row.Kind() == reflect.Interface && !row.IsNil() {
			row = row.Elem()
		}
		if !isSequence(row) {
			return nil, &MalformedTableError{Row: i, Kind: row.Kind().String()}
		}
		cells := make([]string, row.Len())
		for j := range cells {
			cells[j] = fmt.Sprint(row.Index(j).Interface())
		}
		grid[i] = cells
	}
	return grid, nil
}

func isSequence(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}
