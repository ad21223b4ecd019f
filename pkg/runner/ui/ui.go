package ui

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/ambient"
	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/store"
	"tableflip.dev/boost/pkg/tui"
)

// ErrNotTerminal is returned when stdout is not a terminal.
var ErrNotTerminal = errors.New("ui: stdout is not a terminal, try `boost list`")

type UI struct {
	Controller *app.Controller
	Cadence    store.Cadence
	Logger     *zap.Logger
}

func (d *UI) Do(ctx context.Context) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}
	log := logging.OrNop(d.Logger).Named("ui")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := tui.New(ctx, d.Controller, tui.Options{
		Ambient: ambient.Options{
			Interval:    d.Cadence.Interval,
			RevealDelay: d.Cadence.Reveal,
			Lifetime:    d.Cadence.Lifetime,
			Logger:      log,
		},
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Attach(p)
	defer d.Controller.StopAmbient()

	if d.Controller.Persistence != nil && d.Controller.Persistence.BasePath() != "" {
		if err := d.Controller.Follow(ctx, func() { p.Send(tui.SessionMsg{}) }); err != nil {
			log.Warn("not following session changes", zap.Error(err))
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
