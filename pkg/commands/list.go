package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "List your boosts, newest first.",
		Example: `
boost list
boost list --show-id
boost list --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := list.List{
				Controller: e.ctl,
				ShowID:     io.ShowID,
				JSON:       oo.JSON,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addRecap(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:     "recap",
		Aliases: []string{"report"},
		Short:   "Recap the boosts written recently, grouped by day.",
		Example: `
boost recap
boost recap --last 30d
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			window, label, err := wo.GetWindow()
			if err != nil {
				return err
			}
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := list.Recap{
				Controller: e.ctl,
				Window:     window,
				Label:      label,
				ShowID:     io.ShowID,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddWindowArgs(cmd, wo)

	topLevel.AddCommand(cmd)
}
