// Package options defines shared flag helpers for boost commands.
package options

import (
	"github.com/spf13/cobra"
)

// GlobalOptions are persistent flags understood by every command.
type GlobalOptions struct {
	Debug     bool
	Ephemeral bool
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false,
		"Log at debug level and echo records to stderr.")
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		"Keep the session in memory only; nothing is read from or written to disk.")
}
