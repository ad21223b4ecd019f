package app

import (
	"time"

	"tableflip.dev/boost/pkg/entry"
)

// ReportSection groups the entries written on one calendar day.
type ReportSection struct {
	Day     time.Time
	Entries []entry.Entry
}

// ReportResult is a recap of the entries created within a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report groups the loaded entries created between since and until by day in
// loc. Sections and the entries within them keep the server's newest first
// order.
func (c *Controller) Report(since, until time.Time, loc *time.Location) ReportResult {
	return Report(c.Entries.Entries(), since, until, loc)
}

// Report is the store-free form of Controller.Report.
func Report(list []entry.Entry, since, until time.Time, loc *time.Location) ReportResult {
	if since.After(until) {
		since, until = until, since
	}
	if loc == nil {
		loc = time.Local
	}

	result := ReportResult{Since: since, Until: until}
	index := make(map[string]int)
	for _, e := range list {
		created := e.Created.Time
		if created.IsZero() || created.Before(since) || created.After(until) {
			continue
		}
		local := created.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := day.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(result.Sections)
			index[key] = i
			result.Sections = append(result.Sections, ReportSection{Day: day})
		}
		result.Sections[i].Entries = append(result.Sections[i].Entries, e)
		result.Total++
	}
	return result
}
