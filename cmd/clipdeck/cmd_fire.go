package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/clipdeck/board"
	"github.com/lixenwraith/clipdeck/core"
	"github.com/lixenwraith/clipdeck/trigger"
)

var fireCmd = &cobra.Command{
	Use:   "fire <trigger>",
	Short: "Fire a trigger and wait for its clip to finish",
	Long:  "Fire resolves a trigger such as b1-short the same way a button press does.\nPlayback runs until the clip ends or the command is interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFire,
}

func runFire(cmd *cobra.Command, args []string) (err error) {
	t, err := trigger.Parse(args[0])
	if err != nil {
		return err
	}

	st, err := openStack(appCfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.close(); err == nil {
			err = cerr
		}
	}()
	b := st.Board()

	var (
		armed    atomic.Bool
		doneOnce sync.Once
		done     = make(chan struct{})
	)
	finish := func() { doneOnce.Do(func() { close(done) }) }
	cancel := b.Subscribe(func(s board.Snapshot) {
		if armed.Load() && s.Playback == nil {
			finish()
		}
	})
	defer cancel()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := b.FireTrigger(t.Key(), core.OriginUser)
	fmt.Fprintln(cmd.OutOrStdout(), b.Snapshot().Status)
	if outcome != board.OutcomePlayed {
		if outcome == board.OutcomeFailed {
			return fmt.Errorf("fire %s: %s", t.Key(), outcome)
		}
		return nil
	}
	armed.Store(true)
	if b.Snapshot().Playback == nil {
		finish()
	}

	select {
	case <-done:
	case <-ctx.Done():
		b.Stop()
	}
	return nil
}
