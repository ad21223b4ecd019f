package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/commands/options"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/store"
)

var (
	oo     = &base.OutputOptions{}
	global = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "boost",
		Short: base.Wrap80("A journal of positive moments, with reminders that drift by while you work."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddGlobalArgs(cmd, global)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addLogin(topLevel)
	addRegister(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addStats(topLevel)
	addList(topLevel)
	addRecap(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addUI(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}

// env is what a command needs to run against the stores.
type env struct {
	cfg store.Config
	log *zap.Logger
	ctl *app.Controller
}

// open loads the config, builds the logger and restores the session.
func open() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}

	opts := app.Options{}
	logPath := cfg.LogPath()
	if global.Ephemeral {
		opts.Persistence = store.Memory()
		logPath = ""
	}
	log, err := logging.New(logPath, global.Debug)
	if err != nil {
		return nil, err
	}
	opts.Logger = log

	ctl, err := app.Open(cfg, opts)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &env{cfg: cfg, log: log, ctl: ctl}, nil
}

func (e *env) Close() {
	_ = e.log.Sync()
}
