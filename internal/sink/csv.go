package sink

import (
	"encoding/csv"
	"io"
	"sort"

	"housemembers/internal/models"
)

// Columns returns the canonical fields followed by the sorted union of
// optional fields present in any member.
func Columns(members []models.Member) []string {
	extra := map[string]struct{}{}

	for _, m := range members {
		for k := range m.Extra {
			extra[k] = struct{}{}
		}
	}

	canonical := make(map[string]struct{}, len(models.CanonicalFields))
	for _, f := range models.CanonicalFields {
		canonical[f] = struct{}{}
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, clash := canonical[k]; !clash {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	columns := make([]string, 0, len(models.CanonicalFields)+len(keys))
	columns = append(columns, models.CanonicalFields...)

	return append(columns, keys...)
}

// WriteCSV writes a header row and one row per member. Fields a member
// does not carry are written empty.
func WriteCSV(w io.Writer, members []models.Member) error {
	cw := csv.NewWriter(w)
	columns := Columns(members)

	if err := cw.Write(columns); err != nil {
		return err
	}

	row := make([]string, len(columns))

	for _, m := range members {
		for i, col := range columns {
			row[i] = m.Get(col)
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
