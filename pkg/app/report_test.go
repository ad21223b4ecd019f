package app

import (
	"testing"
	"time"

	"tableflip.dev/boost/pkg/entry"
)

func TestReportGroupsByDay(t *testing.T) {
	at := func(s string) entry.Timestamp {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return entry.Timestamp{Time: ts}
	}
	list := []entry.Entry{
		{ID: "e4", Content: "D", Created: at("2024-05-03T18:00:00Z")},
		{ID: "e3", Content: "C", Created: at("2024-05-03T08:00:00Z")},
		{ID: "e2", Content: "B", Created: at("2024-05-02T12:00:00Z")},
		{ID: "e1", Content: "A", Created: at("2024-04-20T12:00:00Z")},
	}
	until := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	since := until.Add(-7 * 24 * time.Hour)

	got := Report(list, since, until, time.UTC)
	if got.Total != 3 {
		t.Fatalf("Total = %d, want 3", got.Total)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("len(Sections) = %d, want 2", len(got.Sections))
	}
	if day := got.Sections[0].Day.Format("2006-01-02"); day != "2024-05-03" {
		t.Fatalf("first section day = %s", day)
	}
	if ids := []string{got.Sections[0].Entries[0].ID, got.Sections[0].Entries[1].ID}; ids[0] != "e4" || ids[1] != "e3" {
		t.Fatalf("first section order = %v", ids)
	}
	if got.Sections[1].Entries[0].ID != "e2" {
		t.Fatalf("second section = %+v", got.Sections[1])
	}
}

func TestReportSwapsInvertedWindow(t *testing.T) {
	now := time.Now()
	got := Report(nil, now, now.Add(-time.Hour), nil)
	if !got.Since.Before(got.Until) {
		t.Fatalf("window not normalised: %v .. %v", got.Since, got.Until)
	}
	if got.Total != 0 || len(got.Sections) != 0 {
		t.Fatalf("unexpected result %+v", got)
	}
}
