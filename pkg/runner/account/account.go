// Package account shows the logged in user and their statistics.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/failure"
)

type Whoami struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

func (n *Whoami) Do(ctx context.Context) error {
	if !n.Controller.Session.Authenticated() {
		return failure.ErrNoCredential
	}
	if err := n.Controller.Session.RefreshProfile(ctx); err != nil {
		return err
	}
	id := n.Controller.View().Session.Identity
	out := writer(n.Out)
	if n.JSON {
		return json.NewEncoder(out).Encode(id)
	}
	tbl := uitable.New()
	tbl.AddRow("username:", id.Username)
	tbl.AddRow("email:", id.Email)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

type Stats struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	stats, err := n.Controller.Session.RefreshStats(ctx)
	if err != nil {
		return err
	}
	out := writer(n.Out)
	if n.JSON {
		return json.NewEncoder(out).Encode(stats)
	}
	c := color.New(color.Bold)
	_, _ = c.Fprintf(out, "%d", stats.TotalEntries)
	switch stats.TotalEntries {
	case 1:
		_, _ = fmt.Fprintln(out, " boost logged so far.")
	default:
		_, _ = fmt.Fprintln(out, " boosts logged so far.")
	}
	return nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
