package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <entry id>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a boost.",
		Example: `
boost delete 6d1f2c
boost rm 6d1f2c --yes
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one entry id")
			}
			io.ID = args[0]
			return nil
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return entryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := remove.Remove{
				Controller: e.ctl,
				ID:         io.ID,
				Yes:        co.Yes,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
