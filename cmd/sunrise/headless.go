package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/sandeepkv93/sunrise/internal/logging"
	"github.com/sandeepkv93/sunrise/internal/timer"
	"github.com/sandeepkv93/sunrise/internal/update"
)

// chimeState reports whether the completion chime is still repeating.
type chimeState interface {
	Running() bool
}

// runHeadless starts the countdown and prints one line per progress change.
// After completion it keeps dispatching fires so the chime repeats, until ctx
// is cancelled. With no chime running it returns at completion.
func runHeadless(ctx context.Context, fires update.FireSource, engine *timer.Engine, chime chimeState, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	completed := false
	engine.OnProgressChange(func(p float64) {
		st := engine.State()
		fmt.Fprintf(out, "%s  %3d%%  %s\n", timer.Format(st.RemainingSeconds), int(math.Floor(p*100)), st.Status)
	})
	engine.OnSessionCompleted(func(n int) {
		fmt.Fprintf(out, "session %d complete\n", n)
		logger.Info("session completed", "sessions", n)
		completed = true
	})

	engine.Start()
	if engine.State().Status != timer.StatusRunning {
		return fmt.Errorf("timer did not start")
	}
	announced := false
	for {
		if completed {
			if chime == nil || !chime.Running() {
				return nil
			}
			if !announced {
				fmt.Fprintln(out, "press ctrl+c to stop the chime")
				announced = true
			}
		}
		select {
		case <-ctx.Done():
			if completed {
				logger.Info("chime acknowledged")
				fmt.Fprintln(out, "chime stopped")
				return nil
			}
			st := engine.State()
			logger.Info("interrupted", "remaining_sec", st.RemainingSeconds)
			fmt.Fprintf(out, "interrupted at %s\n", timer.Format(st.RemainingSeconds))
			return nil
		case f, ok := <-fires.C():
			if !ok {
				return fmt.Errorf("scheduler stopped")
			}
			fires.Dispatch(f)
		}
	}
}
