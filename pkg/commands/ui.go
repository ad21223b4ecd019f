package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the journal with ambient reminders.",
		Example: `
boost ui
BOOST_INTERVAL=10s boost ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return err
			}
			defer e.Close()
			i := ui.UI{
				Controller: e.ctl,
				Cadence:    e.cfg.Cadence(),
				Logger:     e.log,
			}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
