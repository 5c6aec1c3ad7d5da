// sunrise is a terminal focus timer. While a session counts down, the sky
// above the timer brightens from night to morning; when it ends a chime
// repeats until the timer is reset or restarted.
//
// Usage:
//
//	sunrise [flags]
//
// Flags:
//
//	-config string   Path to configuration file (default: $XDG_CONFIG_HOME/sunrise/config.toml)
//	-minutes int     Session length in minutes, overriding the config
//	-headless        Print progress lines instead of drawing the TUI
//	-log string      Log file, overriding the config
//	-version         Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/sandeepkv93/sunrise/internal/alert"
	"github.com/sandeepkv93/sunrise/internal/config"
	"github.com/sandeepkv93/sunrise/internal/logging"
	"github.com/sandeepkv93/sunrise/internal/scheduler"
	"github.com/sandeepkv93/sunrise/internal/storage"
	"github.com/sandeepkv93/sunrise/internal/timer"
	"github.com/sandeepkv93/sunrise/internal/update"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// fireBuffer lets the scheduler run ahead of a busy UI without blocking.
const fireBuffer = 16

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		minutes     = flag.Int("minutes", 0, "Session length in minutes (overrides config)")
		headless    = flag.Bool("headless", false, "Print progress lines instead of drawing the TUI")
		logFile     = flag.String("log", "", "Log file (overrides config)")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sunrise %s (%s)\n", version, commit)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sunrise: %v\n", err)
		os.Exit(1)
	}
	if *minutes != 0 {
		cfg.DurationMinutes = *minutes
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sunrise: %v\n", err)
		os.Exit(2)
	}

	interactive := !*headless && term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(cfg, interactive); err != nil {
		fmt.Fprintf(os.Stderr, "sunrise failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.RuntimeConfig, interactive bool) error {
	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger.Info("starting", "version", version, "interactive", interactive, "minutes", cfg.DurationMinutes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewEngine(fireBuffer)
	sched.Start()
	defer sched.Stop()

	opener := alert.Opener(alert.Disabled)
	if cfg.Audio {
		opener = alert.OpenSpeaker(cfg.Volume)
	}
	chime := alert.New(sched, opener,
		alert.WithInterval(cfg.ChimeInterval.Duration),
		alert.WithLogger(logger.With("component", "alert")),
	)
	engine := timer.New(sched, chime,
		timer.WithDurationSeconds(cfg.DurationMinutes*60),
		timer.WithLogger(logger.With("component", "timer")),
	)
	defer engine.Close()

	var journal storage.Repository
	repo, err := storage.OpenSQLite(storage.MemoryDSN)
	if err != nil {
		logger.Warn("session journal unavailable", "err", err)
	} else {
		defer repo.Close()
		journal = repo
	}

	if !interactive {
		return runHeadless(ctx, sched, engine, chime, os.Stdout, logger)
	}

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	model := update.NewModel(update.Deps{
		Timer:    engine,
		Alert:    chime,
		Fires:    sched,
		Journal:  journal,
		Notifier: notifier,
		Config:   cfg,
		Logger:   logger.With("component", "ui"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
