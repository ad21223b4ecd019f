package edit

import (
	"context"
	"io"
	"strings"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/printers"
)

type Edit struct {
	Controller *app.Controller
	ID         string
	Message    string
	ShowID     bool
	Out        io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if strings.TrimSpace(n.Message) == "" {
		return failure.Validation("entry content cannot be empty")
	}
	if err := n.Controller.Refresh(ctx); err != nil {
		return err
	}
	if err := n.Controller.BeginEdit(n.ID); err != nil {
		return err
	}
	n.Controller.SetEditDraft(n.Message)
	if err := n.Controller.SaveEdit(ctx); err != nil {
		return err
	}

	all := n.Controller.View().Entries
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Title("Updated")
	if i := entry.IndexOf(all, n.ID); i >= 0 {
		pp.Entry(all[i])
	}
	return nil
}
