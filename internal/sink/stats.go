package sink

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"housemembers/internal/models"
)

// Count is one bucket of a breakdown.
type Count struct {
	Key   string
	Count int
}

// Summary aggregates the final member list.
type Summary struct {
	Total    int
	ByParty  []Count
	BySource []Count
	ByState  []Count
	Sample   []models.Member
}

// States returns the number of distinct known states represented.
func (s Summary) States() int {
	n := 0

	for _, c := range s.ByState {
		if c.Key != models.Unknown {
			n++
		}
	}

	return n
}

// Summarize counts members by party, source and state. Buckets are sorted
// by count, largest first, then by key. Sample holds the first sampleSize members.
func Summarize(members []models.Member, sampleSize int) Summary {
	party := map[string]int{}
	source := map[string]int{}
	state := map[string]int{}

	for _, m := range members {
		party[string(m.Party)]++
		source[m.Source]++
		state[m.State]++
	}

	if sampleSize > len(members) {
		sampleSize = len(members)
	}

	if sampleSize < 0 {
		sampleSize = 0
	}

	return Summary{
		Total:    len(members),
		ByParty:  buckets(party),
		BySource: buckets(source),
		ByState:  buckets(state),
		Sample:   members[:sampleSize:sampleSize],
	}
}

func buckets(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Key < out[j].Key
	})

	return out
}

// RenderTables prints the breakdowns and the sample as console tables.
func RenderTables(w io.Writer, s Summary) {
	renderCounts(w, "By party", "Party", "Total", s.ByParty, s.Total)
	renderCounts(w, "By source", "Source", "Total", s.BySource, s.Total)
	// go-pretty wraps titles wider than the columns, so the state count goes in the footer.
	renderCounts(w, "By state", "State", fmt.Sprintf("Total (%d states)", s.States()), s.ByState, s.Total)

	if len(s.Sample) == 0 {
		return
	}

	t := newTable(w)
	t.SetTitle("Sample")
	t.AppendHeader(table.Row{"#", "Name", "Party", "State", "District", "Source"})

	for i, m := range s.Sample {
		t.AppendRow(table.Row{i + 1, m.Name, m.Party, m.State, m.District, m.Source})
	}

	t.Render()
}

func renderCounts(w io.Writer, title, keyHeader, footer string, counts []Count, total int) {
	t := newTable(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{keyHeader, "Members"})

	for _, c := range counts {
		t.AppendRow(table.Row{c.Key, c.Count})
	}

	t.AppendFooter(table.Row{footer, total})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	return t
}
