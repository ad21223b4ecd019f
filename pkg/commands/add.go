package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var message string

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"new", "boost"},
		Short:   "Write down something positive.",
		Example: `
boost add finally fixed the flaky test
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires something to write down")
			}
			message = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := add.Add{
				Controller: e.ctl,
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
