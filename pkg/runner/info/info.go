package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/store"
	"tableflip.dev/boost/pkg/timeutil"
)

type Info struct {
	Config     store.Config
	Controller *app.Controller
	Out        io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("BOOST_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "BOOST_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "BOOST_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	cad := n.Config.Cadence()

	tbl := uitable.New()
	tbl.AddRow("Config.path:", n.Config.BasePath())
	tbl.AddRow("Config.api:", n.Config.APIBase())
	tbl.AddRow("Config.log:", n.Config.LogPath())
	tbl.AddRow("Config.interval:", timeutil.FormatDuration(cad.Interval))
	tbl.AddRow("Config.reveal:", timeutil.FormatDuration(cad.Reveal))
	tbl.AddRow("Config.lifetime:", timeutil.FormatDuration(cad.Lifetime))
	_, _ = fmt.Fprintln(out, tbl)

	if n.Controller == nil {
		return fmt.Errorf("failed to open the local store")
	}
	st := n.Controller.View().Session
	if st.Authenticated {
		_, _ = fmt.Fprintf(out, "Session: logged in as %s <%s>\n", st.Username(), st.Identity.Email)
	} else {
		_, _ = fmt.Fprintln(out, "Session: logged out")
	}

	_, _ = fmt.Fprintln(out, "Records:")
	found := 0
	if p := n.Controller.Persistence; p != nil {
		for _, k := range p.Keys(ctx) {
			_, _ = fmt.Fprintf(out, "  %s\n", k)
			found++
		}
	}
	if found == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no records")
	}
	return nil
}
