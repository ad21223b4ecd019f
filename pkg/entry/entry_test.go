package entry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeServerEntry(t *testing.T) {
	raw := `{"_id":"e1","content":"Finished my report","user":"u1","isPrivate":false,"createdAt":"2024-01-01T10:00:00.000Z"}`
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "e1" || e.Content != "Finished my report" || e.Owner != "u1" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	want := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	if !e.Created.Equal(want) {
		t.Fatalf("expected created %v, got %v", want, e.Created.Time)
	}
	if !e.Updated.IsZero() {
		t.Fatalf("expected zero updated, got %v", e.Updated.Time)
	}
	if e.Edited() {
		t.Fatalf("fresh entry should not report edited")
	}
}

func TestTimestampNullAndEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if !ts.IsZero() {
			t.Fatalf("%s: expected zero timestamp", raw)
		}
	}
}

func TestEditedAfterUpdate(t *testing.T) {
	created := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	e := Entry{
		ID:      "e1",
		Created: Timestamp{Time: created},
		Updated: Timestamp{Time: created.Add(time.Hour)},
	}
	if !e.Edited() {
		t.Fatalf("expected entry to report edited")
	}
}

func TestDedupeKeepsFirst(t *testing.T) {
	list := []Entry{
		{ID: "a", Content: "first"},
		{ID: "b", Content: "second"},
		{ID: "a", Content: "stale"},
	}
	got := Dedupe(list)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Content != "first" || got[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if IndexOf(got, "b") != 1 {
		t.Fatalf("expected b at index 1")
	}
	if IndexOf(got, "missing") != -1 {
		t.Fatalf("expected -1 for missing id")
	}
}
