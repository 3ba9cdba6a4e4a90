package fetch

import (
	"encoding/json"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

// Table is the concatenation of every fetched page of one resource, in the
// order the API returned it.
type Table struct {
	Resource string
	Records  []json.RawMessage
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasField reports whether any record carries the named top-level field,
// the way a column exists in a frame built from heterogeneous rows.
func (t *Table) HasField(name string) bool {
	if t == nil {
		return false
	}
	for _, raw := range t.Records {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		if _, ok := fields[name]; ok {
			return true
		}
	}
	return false
}

// Decode converts the raw records into typed rows, preserving order.
func Decode[T any](t *Table) ([]T, error) {
	if t == nil {
		return nil, nil
	}
	rows := make([]T, 0, len(t.Records))
	for i, raw := range t.Records {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+t.Resource+" record").
				WithDetails(map[string]any{"resource": t.Resource, "index": i})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
