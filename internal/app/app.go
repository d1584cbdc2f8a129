// Package app wires the editor together: configuration, logging, the
// terminal backend, the session with its documents and the script
// runtime. Run drives the UI loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/config/watcher"
	luaplug "github.com/dshills/quill/internal/plugin/lua"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/statusline"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the default
	// location, where a missing file is not an error.
	ConfigPath string

	// LogFile and LogLevel override the [log] section when set.
	LogFile  string
	LogLevel string

	ReadOnly bool
	Files    []string

	// Backend is the terminal. Nil opens the real one.
	Backend backend.Backend

	// StatePath is the cursor memory file. Empty uses the default
	// location; "-" disables it.
	StatePath string

	// WatchConfig reloads the configuration when its file changes.
	WatchConfig bool

	// LookupEnv reads environment overrides. Nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// reload is a configuration read by the watcher goroutine.
type reload struct {
	cfg *config.Config
	err error
}

// App is the running editor.
type App struct {
	opts       Options
	configPath string
	cfg        *config.Config
	themes     *highlight.ThemeRegistry

	log       zerolog.Logger
	logCloser io.Closer

	backend backend.Backend
	session *Session
	script  *luaplug.State
	watcher *watcher.Watcher
	reloads chan reload
	metrics *Metrics
	closed  bool
}

// New loads the configuration and builds the application. Nothing touches
// the terminal until Run.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	a := &App{
		opts:    opts,
		themes:  highlight.NewThemeRegistry(),
		reloads: make(chan reload, 1),
		metrics: NewMetrics(),
	}

	a.configPath = opts.ConfigPath
	if a.configPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			a.configPath = p
		}
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	a.log, a.logCloser, err = NewLogger(LoggerConfig{File: cfg.Log.File, Level: level})
	if err != nil {
		return nil, err
	}

	theme, err := cfg.Theme(a.themes)
	if err != nil {
		a.closeLog()
		return nil, NewOperationError("theme", "config", err)
	}

	a.backend = opts.Backend
	if a.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			a.closeLog()
			return nil, NewOperationError("init", "terminal", err)
		}
		a.backend = term
	}

	state, err := a.openState()
	if err != nil {
		a.log.Warn().Err(err).Msg("cursor memory disabled")
	}

	a.session, err = NewSession(ctx, SessionOptions{
		Config:   cfg,
		Theme:    theme,
		State:    state,
		ReadOnly: opts.ReadOnly,
		Logger:   a.log,
		Post:     a.backend.PostEvent,
	})
	if err != nil {
		a.closeLog()
		return nil, err
	}

	a.script = luaplug.NewState()
	luaplug.InstallEditor(a.script, a.session.Editor, a.session)
	return a, nil
}

// loadConfig reads the configuration file and applies the environment and
// command line overrides. A missing file is only an error when it was
// named explicitly. It runs on the watcher goroutine too.
func (a *App) loadConfig() (*config.Config, error) {
	path := a.configPath
	explicit := a.opts.ConfigPath != ""

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		switch {
		case errors.Is(err, config.ErrFileNotFound) && !explicit:
		case err != nil:
			return nil, err
		default:
			cfg = loaded
		}
	}
	if err := config.ApplyEnv(cfg, a.opts.LookupEnv); err != nil {
		return nil, err
	}
	if a.opts.LogFile != "" {
		cfg.Log.File = a.opts.LogFile
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) openState() (*StateStore, error) {
	path := a.opts.StatePath
	if path == "-" {
		return nil, nil
	}
	if path == "" {
		p, err := DefaultStatePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return OpenStateStore(path)
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Session returns the editing session.
func (a *App) Session() *Session {
	return a.session
}

// Metrics returns the UI loop metrics.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Run takes over the terminal and processes events until the last
// document is quit or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.backend.Init(); err != nil {
		return NewOperationError("init", "terminal", err)
	}
	defer a.backend.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.session.Resize(a.backend.Size())
	a.openFiles()
	a.runInit()
	if a.opts.WatchConfig {
		a.startWatcher(ctx)
	}

	events := make(chan backend.Event)
	go a.poll(ctx, events)

	a.draw()
	for !a.session.Done() {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("interrupted")
			return ctx.Err()

		case ev := <-events:
			if ev.Type == backend.EventClosed {
				return nil
			}
			start := time.Now()
			redraw := a.session.HandleKey(ev)
			a.metrics.RecordInput(time.Since(start))
			if redraw {
				a.draw()
			}

		case r := <-a.reloads:
			a.applyReload(r)
			a.draw()
		}
	}
	return nil
}

// poll forwards backend events until the terminal closes or ctx ends.
func (a *App) poll(ctx context.Context, out chan<- backend.Event) {
	for {
		ev := a.backend.PollEvent()
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
		if ev.Type == backend.EventClosed {
			return
		}
	}
}

func (a *App) draw() {
	start := time.Now()
	cmds := a.session.Frame()
	a.metrics.RecordFrame(time.Since(start), len(cmds))
	if len(cmds) > 0 {
		a.backend.Apply(cmds)
	}
}

func (a *App) openFiles() {
	var errs ErrorList
	for _, f := range a.opts.Files {
		if _, err := a.session.Open(f); err != nil {
			a.log.Error().Err(err).Str("path", f).Msg("open failed")
			errs.Add(err)
		}
	}
	if a.session.Active() == nil {
		a.session.New()
	}
	if err := errs.AsError(); err != nil {
		a.session.fail("open", err)
	}
}

// runInit runs the configured init script. Failures are reported on the
// feedback line.
func (a *App) runInit() {
	path := a.cfg.Script.Init
	if path == "" {
		return
	}
	if err := a.script.DoFile(path); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("init script failed")
		a.session.fail("init", NewOperationError("init", "script", err).WithTarget(path))
		return
	}
	a.log.Info().Str("path", path).Msg("init script loaded")
}

func (a *App) startWatcher(ctx context.Context) {
	if a.configPath == "" {
		return
	}
	w, err := watcher.New(watcher.WithLogger(component(a.log, "config")))
	if err == nil {
		err = w.Watch(a.configPath)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("config reload disabled")
		if w != nil {
			_ = w.Close()
		}
		return
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		cfg, err := a.loadConfig()
		r := reload{cfg: cfg, err: err}
		// Keep only the newest reload.
		select {
		case <-a.reloads:
		default:
		}
		a.reloads <- r
	})
	w.Start(ctx)
	a.watcher = w
}

// applyReload switches to a reloaded configuration on the UI goroutine.
func (a *App) applyReload(r reload) {
	log := component(a.log, "config")
	if r.err != nil {
		log.Warn().Err(r.err).Msg("reload rejected")
		a.session.setMessage(statusline.MessageError, "config: %v", r.err)
		return
	}
	theme, err := r.cfg.Theme(a.themes)
	if err == nil {
		err = a.session.ApplyConfig(r.cfg, theme)
	}
	if err != nil {
		log.Warn().Err(err).Msg("reload rejected")
		a.session.setMessage(statusline.MessageError, "config: %v", err)
		return
	}
	a.cfg = r.cfg
	log.Info().Msg("configuration reloaded")
	a.session.setMessage(statusline.MessageInfo, "configuration reloaded")
}

// Close releases everything New and Run acquired.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var errs ErrorList
	if a.watcher != nil {
		errs.Add(a.watcher.Close())
	}
	errs.Add(a.session.Close())
	errs.Add(a.script.Close())
	a.metrics.Snapshot().Log(a.log.Debug())
	a.closeLog()
	return errs.AsError()
}

func (a *App) closeLog() {
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "quill: close log: %v\n", err)
		}
		a.logCloser = nil
	}
}
