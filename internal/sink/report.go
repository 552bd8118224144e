package sink

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"housemembers/internal/formatter"
)

// WriteReport writes the summary as a markdown document with aligned tables.
func WriteReport(w io.Writer, s Summary) error {
	var b strings.Builder

	b.WriteString("# House Members Summary\n\n")
	fmt.Fprintf(&b, "- Total members: %d\n", s.Total)
	fmt.Fprintf(&b, "- States represented: %d\n", s.States())
	fmt.Fprintf(&b, "- Sources: %d\n", len(s.BySource))

	section := func(title, keyHeader string, counts []Count) {
		fmt.Fprintf(&b, "\n## %s\n\n", title)

		t := formatter.NewTable(keyHeader, "Members")
		for _, c := range counts {
			t.Append(c.Key, strconv.Itoa(c.Count))
		}

		b.WriteString(t.String())
	}

	section("By Party", "Party", s.ByParty)
	section("By Source", "Source", s.BySource)
	section("By State", "State", s.ByState)

	if len(s.Sample) > 0 {
		b.WriteString("\n## Sample\n\n")

		t := formatter.NewTable("#", "Name", "Party", "State", "District", "Source")
		for i, m := range s.Sample {
			t.Append(strconv.Itoa(i+1), m.Name, string(m.Party), m.State, m.District, m.Source)
		}

		b.WriteString(t.String())
	}

	_, err := io.WriteString(w, b.String())

	return err
}
