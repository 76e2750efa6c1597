package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/control"
	"mindfulbreak/internal/core/clock"
	"mindfulbreak/internal/core/content"
	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
	"mindfulbreak/internal/logger"
	"mindfulbreak/internal/platform"
	"mindfulbreak/internal/storage"
	"mindfulbreak/internal/ui/breakwindow"
	"mindfulbreak/internal/ui/preferences"
	"mindfulbreak/internal/ui/prompt"
	"mindfulbreak/internal/ui/tray"
	"mindfulbreak/resources"
)

const statusInterval = time.Second

// services holds the components shared by the desktop and headless modes.
type services struct {
	config   model.Config
	logger   *logrus.Logger
	guard    *platform.InstanceGuard
	clock    *clock.Real
	random   *content.Random
	client   *http.Client
	provider *content.Provider
	store    *storage.PreferenceStore
}

func run(ctx context.Context, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	config, configErr := loadConfig(opts)
	log := logger.New(config.LogLevel, config.LogFormat)
	if configErr != nil {
		log.WithError(configErr).Warn("config file partly unusable, using defaults where needed")
	}

	guard, err := platform.AcquireSingleInstance(storage.AppName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			log.WithError(err).Info("another instance is already running")
			return nil
		}
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			log.WithError(err).Warn("release instance lock")
		}
	}()

	wall := clock.NewReal(log)
	defer wall.Close()

	random := content.NewRandom(0)
	client := &http.Client{}
	provider := content.NewProvider(content.Options{
		Fetchers: content.NewFetchers(client, content.DefaultEndpoints(), random),
		Random:   random,
		Logger:   log,
	})
	defer provider.Close()

	store, err := openPreferences(opts.preferencesPath, log)
	if err != nil {
		log.WithError(err).Warn("preferences unavailable, using the default")
	}

	rt := &services{
		config:   config,
		logger:   log,
		guard:    guard,
		clock:    wall,
		random:   random,
		client:   client,
		provider: provider,
		store:    store,
	}
	if opts.headless {
		return rt.runHeadless(ctx)
	}
	return rt.runDesktop(ctx)
}

func loadConfig(opts options) (model.Config, error) {
	path, err := storage.ResolveConfigPath(opts.configPath)
	if err != nil {
		return model.DefaultConfig(), err
	}
	config, err := storage.LoadConfig(path)
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		config.LogLevel = level
	}
	if address := strings.TrimSpace(opts.controlAddress); address != "" {
		config.ControlAddress = address
	}
	return config, err
}

func openPreferences(path string, log logrus.FieldLogger) (*storage.PreferenceStore, error) {
	if path == "" {
		resolved, err := storage.DefaultPreferencesPath()
		if err != nil {
			// An empty path keeps the preference in memory only.
			store, _ := storage.OpenPreferenceStore("", log)
			return store, err
		}
		path = resolved
	}
	return storage.OpenPreferenceStore(path, log)
}

func (rt *services) runHeadless(ctx context.Context) error {
	if rt.config.ControlAddress == model.ControlDisabled {
		rt.logger.Warn("headless mode with the control API off: prompts can only be logged")
	}
	sched := scheduler.New(rt.config.SchedulerConfig(), scheduler.Dependencies{
		Clock:       rt.clock,
		Notifier:    control.NewLogNotifier(rt.logger),
		Content:     rt.provider,
		Preferences: rt.store,
		Logger:      rt.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErrs := rt.serveControl(ctx, sched)
	sched.Start()
	defer sched.Stop()
	rt.logger.Info("running headless")

	select {
	case <-ctx.Done():
		rt.logger.Info("shutting down")
		return nil
	case err := <-serveErrs:
		return err
	}
}

func (rt *services) runDesktop(ctx context.Context) error {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform, use --headless")
	}

	notifier := prompt.New(fyneApp, rt.logger)
	breakWindow := breakwindow.New(fyneApp, breakwindow.Config{
		Clock:      rt.clock,
		Random:     rt.random,
		HTTPClient: rt.client,
		Logger:     rt.logger,
	})
	sched := scheduler.New(rt.config.SchedulerConfig(), scheduler.Dependencies{
		Clock:       rt.clock,
		Notifier:    notifier,
		Content:     rt.provider,
		Preferences: rt.store,
		Window:      breakWindow,
		Logger:      rt.logger,
	})
	notifier.Bind(sched)
	breakWindow.Bind(sched)
	breakWindow.Follow(rt.provider.Subscribe(4), sched.Subscribe(4))

	quit := func() {
		sched.Stop()
		fyneApp.Quit()
	}

	panel := preferences.New(fyneApp, rt.store, preferences.Actions{
		TakeBreak: sched.TakeBreakNow,
		Quit:      quit,
	}, rt.logger)
	trayManager := tray.New(desktopApp, rt.store.Preference(), tray.Callbacks{
		OnPreferences: panel.Show,
		OnTakeBreak:   sched.TakeBreakNow,
		OnEndBreak:    sched.EndBreak,
		OnPreference:  panel.Select,
		OnQuit:        quit,
	})
	panel.OnChange(trayManager.SetPreference)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErrs := rt.serveControl(ctx, sched)
	go func() {
		select {
		case <-ctx.Done():
		case err := <-serveErrs:
			if err != nil {
				rt.logger.WithError(err).Error("control API stopped")
			}
		}
	}()
	go rt.followStatus(ctx, sched, func(snapshot scheduler.Snapshot, text string) {
		fyne.Do(func() {
			trayManager.SetState(snapshot.State)
			trayManager.SetStatus(text)
			panel.SetStatus(text)
		})
	})

	fyneApp.Lifecycle().SetOnStarted(func() {
		sched.Start()
		rt.logger.WithField("work_interval", rt.config.WorkDuration).Info("mindful break started")
	})
	fyneApp.Run()
	sched.Stop()
	return nil
}

// serveControl starts the control API. The returned channel yields at most
// one error when the server stops.
func (rt *services) serveControl(ctx context.Context, sched *scheduler.Scheduler) <-chan error {
	errs := make(chan error, 1)
	address := rt.config.ControlAddress
	if address == model.ControlDisabled {
		return errs
	}

	server := control.NewServer(sched, rt.provider, rt.store, rt.logger)
	go func() {
		var err error
		if address == "" {
			err = server.Serve(ctx, rt.guard.Listener())
		} else {
			err = server.ListenAndServe(ctx, address)
		}
		if err != nil {
			errs <- fmt.Errorf("control API: %w", err)
		}
	}()
	return errs
}

// followStatus reports the scheduler status every second and on every
// scheduler event until ctx ends.
func (rt *services) followStatus(ctx context.Context, sched *scheduler.Scheduler, report func(scheduler.Snapshot, string)) {
	events := sched.Subscribe(8)
	defer sched.Unsubscribe(events)
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		snapshot := sched.Snapshot()
		report(snapshot, preferences.StatusText(snapshot, rt.clock.Now()))
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-ticker.C:
		}
	}
}
