package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the soundboard",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, _ []string) error {
	keys, err := appCfg.KeyTable()
	if err != nil {
		return err
	}

	st, err := openStack(appCfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	core.SetCrashRestore(screen.Fini)

	driver := st.sim.Driver()
	driver.OnChange(func(on bool) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(on))
	})

	app := ui.New(screen, st.Board(), ui.Options{
		Keys:    keys,
		Sim:     driver,
		Metrics: st.metrics,
		Silent:  st.audio.IsSilent(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)
	g.Go(func() error {
		defer uiDone()
		defer core.Recover()
		return app.Run(uiCtx)
	})
	g.Go(func() error {
		// Simulation stops with the UI
		<-uiCtx.Done()
		driver.SetEnabled(false)
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	slog.Info("board closed", "counters", st.metrics.Snapshot())
	return err
}
