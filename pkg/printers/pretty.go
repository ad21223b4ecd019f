package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
	// Now anchors relative times; defaults to time.Now.
	Now func() time.Time
}

const idWidth = len("665f1c2b9d3e4a0012345678")

var spacing = strings.Repeat(" ", idWidth+2)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now != nil {
		return pp.Now()
	}
	return time.Now()
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entries writes entries as an aligned table in the order given.
func (pp *PrettyPrint) Entries(entries ...entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none yet, add one with `boost add`\n\n")
		return
	}

	faint := color.New(color.Faint)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72

	now := pp.now()
	for _, e := range entries {
		text := e.Content
		if e.Edited() {
			text += faint.Sprint(" (edited)")
		}
		when := timeutil.Ago(e.Created.Time, now)
		if when == "" {
			when = "-"
		}
		if pp.ShowID {
			tbl.AddRow(id.Sprint(e.ID), faint.Sprint(when), text)
			continue
		}
		tbl.AddRow(faint.Sprint(when), text)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Entry writes a single entry with its full timestamps.
func (pp *PrettyPrint) Entry(e entry.Entry) {
	faint := color.New(color.Faint)
	if pp.ShowID {
		_, _ = color.New(color.FgHiYellow, color.Italic).Fprintln(pp.out(), e.ID)
	}
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(e.Content, 72))
	_, _ = faint.Fprintf(pp.out(), "written %s", e.Created.Short())
	if e.Edited() {
		_, _ = faint.Fprintf(pp.out(), ", edited %s", e.Updated.Short())
	}
	pp.NewLine()
}

// Reminder writes an entry the way the ambient surface shows it.
func (pp *PrettyPrint) Reminder(content string, created time.Time) {
	box := color.New(color.FgHiMagenta, color.Bold)
	for _, line := range strings.Split(wordwrap.String(content, 40), "\n") {
		_, _ = box.Fprintf(pp.out(), "  %s\n", line)
	}
	if ago := timeutil.Ago(created, pp.now()); ago != "" {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), "  %s\n", ago)
	}
}
