package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ystepanoff/morsechat"
	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/capture"
	"github.com/ystepanoff/morsechat/config"
	"github.com/ystepanoff/morsechat/display"
	"github.com/ystepanoff/morsechat/input"
	"github.com/ystepanoff/morsechat/logging"
	"github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
	"github.com/ystepanoff/morsechat/tui"
)

const defaultTUILog = "morsechat.log"

// errQuit ends the group when the user leaves the terminal UI.
var errQuit = errors.New("quit")

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !headless && cfg.Log.File == "" {
		// stderr would draw over the alternate screen
		cfg.Log.File = defaultTUILog
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	id := protocol.DeviceID(cfg.DeviceID)
	if id == 0 {
		id = protocol.NewDeviceID()
	}

	link, closeLink, err := openLink(id, cfg, log)
	if err != nil {
		return err
	}
	defer closeLink()

	var script *input.Script
	if scriptPath != "" {
		if script, err = input.LoadScript(scriptPath, log); err != nil {
			return err
		}
		script.Short = cfg.Input.ShortPress.Duration
		script.Long = cfg.Input.LongPress.Duration
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	frames := make(chan transport.Inbound, 16)
	events := make(chan input.Event, tui.QueueSize)

	g.Go(func() error { return link.Listen(ctx, frames) })

	if script != nil {
		g.Go(func() error {
			if err := script.Run(ctx, events); err != nil {
				return err
			}
			log.Info("script finished", zap.String("script", script.Name))
			return nil
		})
	}

	var (
		disp     app.Display
		notifier app.Notifier
	)
	if headless {
		disp = display.NewGrid(display.LogPresenter(log.Named("screen")))
		notifier = app.NotifierFunc(func() { log.Info("new message") })
	} else {
		ui := tui.New(events, tui.Presses{
			Short:    cfg.Input.ShortPress.Duration,
			Long:     cfg.Input.LongPress.Duration,
			Tap:      tui.DefaultPresses().Tap,
			Recovery: cfg.Input.RecoveryHold.Duration,
		}, log, tea.WithAltScreen(), tea.WithContext(ctx))
		disp = display.NewGrid(ui.Present)
		notifier = ui

		g.Go(func() error {
			if err := ui.Run(); err != nil && ctx.Err() == nil {
				return err
			}
			return errQuit
		})
	}

	a, err := app.New(app.Config{
		Transport:    link,
		Display:      disp,
		Notifier:     notifier,
		Recovery:     morsechat.NewRecovery(log),
		Logger:       log,
		TypingWindow: cfg.App.TypingWindow.Duration,
		RecoveryHold: cfg.Input.RecoveryHold.Duration,
		Quiet:        !cfg.App.Announce,
	})
	if err != nil {
		return err
	}
	g.Go(func() error { return a.Run(ctx, events, frames) })

	log.Info("morsechat started",
		zap.Uint32("id", uint32(id)),
		zap.String("driver", cfg.Radio.Driver),
		zap.Uint8("channel", cfg.Radio.Channel),
		zap.Bool("headless", headless))

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		if !errors.Is(err, app.ErrRecoveryEntered) {
			log.Error("stopped", zap.Error(err))
		}
		return err
	}
	return nil
}

// openLink builds the driver chain (driver, optional capture tap) and tunes
// it. The returned func releases whatever was opened.
func openLink(id protocol.DeviceID, cfg *config.Config, log *zap.Logger) (*transport.Link, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Warn("close", zap.Error(err))
			}
		}
	}

	driver, err := morsechat.NewDriver(morsechat.DriverOptions{
		Kind:      cfg.Radio.Driver,
		Group:     cfg.Radio.Group,
		Interface: cfg.Radio.Interface,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := driver.(io.Closer); ok {
		closers = append(closers, c)
	}

	if cfg.Capture.Path != "" {
		tap, err := capture.Create(cfg.Capture.Path, driver, log)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		tap.SkipEchoes(id)
		closers = append(closers, tap)
		driver = tap
		log.Info("capturing frames", zap.String("path", cfg.Capture.Path))
	}

	link := transport.NewLinkWithDriver(id, driver, log)
	link.SetRxTimeout(cfg.Radio.RxTimeout.Duration)
	if err := link.Initialise(cfg.Radio.Channel); err != nil {
		closeAll()
		return nil, nil, err
	}
	return link, closeAll, nil
}
