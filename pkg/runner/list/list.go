package list

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/printers"
)

type List struct {
	Controller *app.Controller
	ShowID     bool
	JSON       bool
	Out        io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if err := n.Controller.Refresh(ctx); err != nil {
		return err
	}
	all := n.Controller.View().Entries
	if n.JSON {
		return json.NewEncoder(writer(n.Out)).Encode(all)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount("Your boosts", len(all))
	pp.Entries(all...)
	return nil
}

// Recap prints the entries written within a trailing window, grouped by day,
// followed by a calendar of the current month.
type Recap struct {
	Controller *app.Controller
	Window     time.Duration
	Label      string
	ShowID     bool
	Out        io.Writer
}

func (n *Recap) Do(ctx context.Context) error {
	if err := n.Controller.Refresh(ctx); err != nil {
		return err
	}
	until := time.Now()
	result := n.Controller.Report(until.Add(-n.Window), until, time.Local)

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.TitleWithCount("Recap, last "+n.Label, result.Total)
	pp.NewLine()
	if result.Total == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(writer(n.Out), "  Nothing logged in this window yet.")
		pp.NewLine()
	}
	for _, section := range result.Sections {
		pp.Title(section.Day.Format("Monday, January 2"))
		pp.Entries(section.Entries...)
	}
	pp.Month(until, n.Controller.View().Entries...)
	return nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
