package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var message string

	cmd := &cobra.Command{
		Use:   "edit <entry id> <new content>",
		Short: "Replace the content of a boost.",
		Example: `
boost edit 6d1f2c shipped the release, on time
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires an entry id and the new content")
			}
			io.ID = args[0]
			message = strings.Join(args[1:], " ")
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
			s := edit.Edit{
				Controller: e.ctl,
				ID:         io.ID,
				Message:    message,
				ShowID:     io.ShowID,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
