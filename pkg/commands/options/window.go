package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/timeutil"
)

const defaultWindow = 7 * 24 * time.Hour

// WindowOptions select a trailing time window, like --last=7d or --last=36h.
type WindowOptions struct {
	Last string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", "7d",
		`Window to recap, example: --last=7d or --last="1d12h".`)
}

// GetWindow returns the window and its normalised label.
func (o *WindowOptions) GetWindow() (time.Duration, string, error) {
	return timeutil.ParseCadence(o.Last, defaultWindow)
}
