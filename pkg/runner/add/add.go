package add

import (
	"context"
	"io"
	"strings"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/printers"
)

type Add struct {
	Controller *app.Controller
	Message    string
	ShowID     bool
	Out        io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	n.Controller.SetDraft(strings.TrimSpace(n.Message))
	if err := n.Controller.Add(ctx); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.Title("Saved")
	pp.Entry(n.Controller.View().Entries[0])
	return nil
}
