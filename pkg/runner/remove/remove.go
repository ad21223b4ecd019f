package remove

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/printers"
	"tableflip.dev/boost/pkg/prompt"
)

// Remove deletes an entry after a confirmation prompt unless Yes is set.
type Remove struct {
	Controller *app.Controller
	ID         string
	Yes        bool
	In         io.Reader
	Out        io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	in := n.In
	if in == nil {
		in = os.Stdin
	}

	if err := n.Controller.Refresh(ctx); err != nil {
		return err
	}
	if err := n.Controller.RequestDelete(n.ID); err != nil {
		return err
	}

	if !n.Yes {
		pending := n.Controller.View().UI.PendingDelete
		e, _ := n.Controller.Entries.Get(pending.EntryID)
		pp := printers.PrettyPrint{Out: out}
		pp.Reminder(pending.Content, e.Created.Time)
		ok, err := prompt.Confirm(bufio.NewReader(in), out, "Delete this boost?")
		if err != nil {
			n.Controller.CancelDelete()
			return err
		}
		if !ok {
			n.Controller.CancelDelete()
			_, _ = fmt.Fprintln(out, "Kept it.")
			return nil
		}
	}

	if err := n.Controller.ConfirmDelete(ctx); err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Fprintln(out, "Deleted.")
	return nil
}
