package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/boost/pkg/entry"
)

func TestEntriesTable(t *testing.T) {
	color.NoColor = true
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	pp := &PrettyPrint{ShowID: true, Out: &buf, Now: func() time.Time { return now }}

	pp.Entries(
		entry.Entry{ID: "e2", Content: "Shipped it", Created: entry.Timestamp{Time: now.Add(-2 * time.Hour)}},
		entry.Entry{ID: "e1", Content: "Went for a run", Created: entry.Timestamp{Time: now.Add(-48 * time.Hour)},
			Updated: entry.Timestamp{Time: now.Add(-time.Hour)}},
	)

	out := buf.String()
	for _, want := range []string{"e2", "Shipped it", "2h ago", "e1", "Went for a run", "(edited)", "2d ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "e2") > strings.Index(out, "e1") {
		t.Fatalf("order not preserved:\n%s", out)
	}
}

func TestEntriesEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Entries()
	if !strings.Contains(buf.String(), "none yet") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestMonthCalendar(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	may := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	(&PrettyPrint{Out: &buf}).Month(may, entry.Entry{Created: entry.Timestamp{Time: may}})

	out := buf.String()
	if !strings.Contains(out, "May") || !strings.Contains(out, "31") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	if DaysIn(may) != 31 {
		t.Fatalf("DaysIn(May) = %d", DaysIn(may))
	}
	if StartDay(may) != time.Wednesday {
		t.Fatalf("StartDay(May 2024) = %v", StartDay(may))
	}
}
