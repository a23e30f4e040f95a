package tabular

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/datareef/reef/errors"
)

// ContainerKey is the recognized wrapper key for the wrapped-object shape:
// {"data": [...]} parses the inner sequence.
const ContainerKey = "data"

// Parse converts an input value of unknown shape into a Table. Accepted
// shapes, in precedence order:
//
//  1. text starting with '[' or '{' — decoded as JSON, then shape 3/4
//  2. other text — naive comma-delimited CSV, first line headers
//  3. a sequence of objects — one row per element, columns are the union
//     of keys in first-seen order
//  4. an object — {"data": [...]} parses the inner sequence, anything else
//     becomes a single-row table
//
// Anything else fails with ErrParse.
//
// CSV splitting is naive on purpose: no quoted-field escaping, no embedded
// newlines. Blobs written by earlier versions of the system were stored
// with exactly this dialect and must keep parsing the same way.
func Parse(input interface{}) (*Table, error) {
	switch v := input.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			var decoded interface{}
			if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
				return nil, errors.Wrapf(errors.ErrParse, "invalid JSON text: %s", err.Error())
			}
			return Parse(decoded)
		}
		return parseCSV(trimmed, false)

	case []byte:
		return Parse(string(v))

	case []interface{}:
		return fromSequence(v)

	case []map[string]interface{}:
		seq := make([]interface{}, len(v))
		for i := range v {
			seq[i] = v[i]
		}
		return fromSequence(seq)

	case map[string]interface{}:
		if inner, ok := v[ContainerKey]; ok {
			seq, ok := inner.([]interface{})
			if !ok {
				return nil, errors.Wrapf(errors.ErrParse, "%q key must hold a sequence, got %T", ContainerKey, inner)
			}
			return fromSequence(seq)
		}
		// Bare mapping becomes a single-row table
		return fromSequence([]interface{}{v})

	default:
		return nil, errors.Wrapf(errors.ErrParse, "unsupported data format: %T", input)
	}
}

// ParseCSV parses delimited text strictly: a header line plus at least one
// data row is required. Used by callers that accept only CSV.
func ParseCSV(text string) (*Table, error) {
	return parseCSV(strings.TrimSpace(text), true)
}

func parseCSV(text string, strict bool) (*Table, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if strict && len(lines) < 2 {
		return nil, errors.Wrap(errors.ErrParse, "CSV must have at least header + 1 data row")
	}
	if len(lines) == 0 {
		return nil, errors.Wrap(errors.ErrParse, "empty input")
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([][]interface{}, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make([]interface{}, len(headers))
		for j := range headers {
			// A short line yields missing trailing values, not an error
			if j < len(values) {
				if v := strings.TrimSpace(values[j]); v != "" {
					row[j] = v
				}
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: headers, Rows: rows}, nil
}

// fromSequence builds a table from a sequence of objects. Column order is
// the first-seen order of keys across all elements.
func fromSequence(seq []interface{}) (*Table, error) {
	var columns []string
	seen := make(map[string]int)

	records := make([]map[string]interface{}, 0, len(seq))
	for _, elem := range seq {
		rec, ok := elem.(map[string]interface{})
		if !ok {
			return nil, errors.Wrapf(errors.ErrParse, "sequence element must be an object, got %T", elem)
		}
		records = append(records, rec)

		// json.Unmarshal loses object key order, so recover a stable
		// first-seen order by sorting keys within each new element
		for _, key := range sortedKeys(rec) {
			if _, dup := seen[key]; !dup {
				seen[key] = len(columns)
				columns = append(columns, key)
			}
		}
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(columns))
		for key, val := range rec {
			row[seen[key]] = val
		}
		rows[i] = row
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
