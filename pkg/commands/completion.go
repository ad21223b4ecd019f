package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(boost completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(boost completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			switch shell {
			case "bash":
				return topLevel.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return topLevel.GenZshCompletion(os.Stdout)
			case "fish":
				return topLevel.GenFishCompletion(os.Stdout, true)
			}
			return fmt.Errorf("unsupported shell %q", shell)
		},
	}

	topLevel.AddCommand(cmd)
}

// entryCompletions offers the ids of the logged in user's entries, with the
// content as the description. Completion must stay quiet, so every failure
// yields no suggestions.
func entryCompletions(toComplete string) []string {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil
	}
	log, err := logging.New(cfg.LogPath(), false)
	if err != nil {
		return nil
	}
	defer func() { _ = log.Sync() }()

	ctl, err := app.Open(cfg, app.Options{Logger: log})
	if err != nil || !ctl.Session.Authenticated() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := ctl.Entries.FetchAll(ctx); err != nil {
		return nil
	}

	var ids []string
	for _, e := range ctl.Entries.Entries() {
		if !strings.HasPrefix(e.ID, toComplete) {
			continue
		}
		ids = append(ids, e.ID+"\t"+completionHint(e.Content))
	}
	return ids
}

func completionHint(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if r := []rune(content); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return content
}
