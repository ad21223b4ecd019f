// Package entry is the journal entry as the remote API stores it.
package entry

import (
	"fmt"
)

// Entry is a single positive statement as returned by the remote API.
type Entry struct {
	ID      string    `json:"_id"`
	Content string    `json:"content"`
	Owner   string    `json:"user,omitempty"`
	Private bool      `json:"isPrivate"`
	Created Timestamp `json:"createdAt"`
	Updated Timestamp `json:"updatedAt,omitempty"`
}

// Edited reports whether the entry changed after creation.
func (e *Entry) Edited() bool {
	return !e.Updated.IsZero() && e.Updated.After(e.Created.Time)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s  %s", e.Created.Short(), e.Content)
}

// IndexOf returns the position of the entry with the given id, or -1.
func IndexOf(list []Entry, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// Dedupe drops later entries that repeat an id already seen, preserving order.
func Dedupe(list []Entry) []Entry {
	if len(list) == 0 {
		return []Entry{}
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]Entry, 0, len(list))
	for _, e := range list {
		if e.ID != "" {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}
