package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iancoleman/orderedmap"
)

/**
 * Convert a struct to an ordered map keyed by its json tags
 * @param {any} v - Struct value with json tags
 * @returns {*orderedmap.OrderedMap} Fields in declaration order
 * @returns {error} Marshal error
 */
func StructToOrderedMap(v any) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

/**
 * Print rows as an aligned table
 * @param {io.Writer} w - Output writer
 * @param {[]*orderedmap.OrderedMap} rows - Rows sharing the same keys
 * @description
 * - Column headers are the upper-cased keys of the first row
 * - Empty values are printed as "-"
 */
func PrintFormat(w io.Writer, rows []*orderedmap.OrderedMap) error {
	if len(rows) == 0 {
		return nil
	}
	keys := rows[0].Keys()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = strings.ToUpper(k)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(keys))
		for i, k := range keys {
			v, _ := row.Get(k)
			cells[i] = cell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, cell(p))
		}
		if len(parts) == 0 {
			return "-"
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
