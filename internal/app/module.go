// Package app wires svyazukha together with fx.
package app

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/matheus3301/svyazukha/internal/config"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/lock"
	"github.com/matheus3301/svyazukha/internal/logging"
	"github.com/matheus3301/svyazukha/internal/roster"
	"github.com/matheus3301/svyazukha/internal/session"
	"github.com/matheus3301/svyazukha/internal/settings"
	"github.com/matheus3301/svyazukha/internal/tui"
	"github.com/matheus3301/svyazukha/internal/tui/model"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Params holds the resolved session configuration passed to the fx modules.
type Params struct {
	SessionName string
	ConfigPath  string // optional override; empty = ~/.svyazukha/config.toml
	LogPath     string // optional override; empty = session log file
	SessionDir  string // optional override for the lock; empty = session dir
	Debug       bool
}

func (p Params) configPath() string {
	if p.ConfigPath != "" {
		return p.ConfigPath
	}
	return session.ConfigPath()
}

func (p Params) logPath() string {
	if p.LogPath != "" {
		return p.LogPath
	}
	return session.LogPath(p.SessionName)
}

func (p Params) sessionDir() string {
	if p.SessionDir != "" {
		return p.SessionDir
	}
	return session.Dir(p.SessionName)
}

// Core provides the domain: config, logger, bus, clock, settings, roster and
// the conversation store.
func Core(p Params) fx.Option {
	return fx.Module("core",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideClock,
			provideSettings,
			provideRoster,
			provideStore,
		),
		fx.Invoke(registerStoreLifecycle),
	)
}

// Module returns the full interactive program: Core plus the session lock
// and the TUI.
func Module(p Params) fx.Option {
	return fx.Options(
		Core(p),
		fx.Module("tui",
			fx.Provide(
				provideLock,
				provideFlash,
				provideViewModel,
				provideApp,
			),
			fx.Invoke(registerTUILifecycle),
		),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	return config.LoadOrDefault(p.configPath())
}

func provideLogger(p Params) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if p.Debug {
		level = zapcore.DebugLevel
	}
	return logging.New(p.logPath(), p.SessionName, level)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func provideSettings(cfg *config.Config, b *bus.Bus) (*settings.Settings, error) {
	return settings.New(cfg.Settings, b)
}

func provideRoster() *roster.Roster {
	return roster.New(roster.Seed())
}

func provideStore(clock clockwork.Clock, st *settings.Settings, b *bus.Bus, logger *zap.Logger) *conversation.Store {
	store := conversation.NewStore(conversation.Seed(), clock, st, b, logger)
	logger.Info("conversation store ready", zap.Int("conversations", len(store.Conversations())))
	return store
}

func registerStoreLifecycle(lc fx.Lifecycle, store *conversation.Store, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			store.Close()
			logger.Info("conversation store closed")
			_ = logger.Sync()
			return nil
		},
	})
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if p.SessionDir == "" {
		if err := session.EnsureDir(p.SessionName); err != nil {
			return nil, err
		}
	}
	l, err := lock.Acquire(p.sessionDir(), p.SessionName)
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideFlash(clock clockwork.Clock) *ui.FlashModel {
	return ui.NewFlashModel(clock)
}

func provideViewModel(cfg *config.Config, store *conversation.Store, st *settings.Settings, r *roster.Roster, b *bus.Bus, flash *ui.FlashModel, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(model.Deps{
		Store:    store,
		Settings: st,
		Roster:   r,
		Profile:  cfg.Profile,
		Bus:      b,
		Flash:    flash,
		Logger:   logger.Named("tui"),
	})
}

func provideApp(p Params, vm *model.ViewModel, logger *zap.Logger) *tui.App {
	return tui.NewApp(vm, p.SessionName, logger.Named("tui"))
}

func registerTUILifecycle(lc fx.Lifecycle, sd fx.Shutdowner, app *tui.App, lk *lock.Lock, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := app.Run(ctx); err != nil {
					logger.Error("tui exited with error", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			app.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			return nil
		},
	})
}
