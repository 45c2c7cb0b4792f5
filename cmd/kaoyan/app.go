package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/config"
	"github.com/fwojciec/kaoyan/gemini"
	kaoyanjson "github.com/fwojciec/kaoyan/json"
	"github.com/fwojciec/kaoyan/logger"
	"github.com/fwojciec/kaoyan/separator"
	"github.com/fwojciec/kaoyan/sqlite"
	"github.com/fwojciec/kaoyan/zhipu"
)

// env carries everything main reads from the process, so commands never
// touch os directly.
type env struct {
	lookup config.LookupFunc
	home   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	width  int // terminal width of stdout; 0 when not a terminal
}

// app holds the collaborators shared by all commands. It is built once per
// invocation from the global flags.
type app struct {
	env    env
	cfg    config.Config
	logger *slog.Logger
	store  store
	prefs  *kaoyan.Preferences

	logFile io.Closer // nil unless [log] file is set

	// providerFlag is a one-off override of the stored preference.
	providerFlag string
}

// store is a kaoyan.Store that owns a resource.
type store interface {
	kaoyan.Store
	io.Closer
}

func newApp(e env, configPath, providerFlag string, debug bool) (*app, error) {
	if configPath == "" {
		configPath = config.DefaultPath(e.home)
	}
	cfg, err := config.Load(configPath, config.DefaultDataDir(e.home), e.lookup)
	if err != nil {
		return nil, err
	}
	if providerFlag != "" {
		if _, err := kaoyan.ParseProviderName(providerFlag); err != nil {
			return nil, err
		}
	}

	debug = debug || cfg.Log.Debug
	log := logger.New(
		logger.WithWriter(e.stderr),
		logger.WithDebug(debug),
		logger.WithJSON(cfg.Log.JSON),
	)
	var logFile *os.File
	if cfg.Log.File != "" {
		logFile, err = openLogFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		log = logger.Multi(log, logger.New(
			logger.WithWriter(logFile),
			logger.WithDebug(debug),
			logger.WithJSON(true),
		))
	}

	s, err := openStore(cfg.Storage)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	log.Debug("store opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	a := &app{
		env:          e,
		cfg:          cfg,
		logger:       log,
		store:        s,
		prefs:        kaoyan.NewPreferences(s),
		providerFlag: providerFlag,
	}
	if logFile != nil {
		a.logFile = logFile
	}
	return a, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	return f, nil
}

func openStore(s config.Storage) (store, error) {
	switch s.Driver {
	case config.DriverJSON:
		st, err := kaoyanjson.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(s.Path), err)
		}
		return st, nil
	default:
		st, err := sqlite.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(s.Path), err)
		}
		return st, nil
	}
}

// width is the wrap width of rendered markdown.
func (a *app) width() int {
	if a.env.width <= 0 {
		return defaultWidth
	}
	return min(a.env.width, maxWidth)
}

// Close releases the store and the log file. It is safe to call on an app
// that was never built.
func (a *app) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

// providerConfig resolves the provider for one generation: the --provider
// flag, then the config file or environment, then the stored preference.
func (a *app) providerConfig(ctx context.Context) kaoyan.ProviderConfig {
	name := kaoyan.ProviderName(a.providerFlag)
	if name == "" {
		name = kaoyan.ProviderName(a.cfg.Provider)
	}
	if name == "" {
		stored, err := a.prefs.Provider(ctx)
		if err != nil {
			a.logger.Warn("reading provider preference", "error", err)
		}
		name = stored
	}
	return kaoyan.ProviderConfig{Provider: name}
}

// clientOptions tunes the Client built by newClient.
type clientOptions struct {
	onFrame func(line string)
}

// newClient builds a Client over every provider with a usable credential.
// Providers without one are left out, so selecting them fails with
// ErrConfig at call time.
func (a *app) newClient(ctx context.Context, opts clientOptions) (*kaoyan.Client, error) {
	providers, err := buildProviders(ctx, a.cfg, a.logger, opts)
	if err != nil {
		return nil, err
	}
	return kaoyan.NewClient(providers,
		kaoyan.WithLogger(a.logger),
		kaoyan.WithDefaultTimeout(a.cfg.Timeout.Duration),
	), nil
}

// buildProviders constructs the configured providers. All credentials come
// from cfg, which main has already merged with the environment.
func buildProviders(ctx context.Context, cfg config.Config, log *slog.Logger, opts clientOptions) (map[kaoyan.ProviderName]kaoyan.Provider, error) {
	providers := make(map[kaoyan.ProviderName]kaoyan.Provider)
	for _, name := range kaoyan.ProviderNames() {
		ps := cfg.Settings(name)
		key, err := ps.APIKey.Key()
		if err != nil {
			log.Debug("provider not configured", "provider", name, "error", err)
			continue
		}
		p, err := newProvider(ctx, name, key, ps, log, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		providers[name] = p
	}
	return providers, nil
}

func newProvider(ctx context.Context, name kaoyan.ProviderName, key string, ps config.ProviderSettings, log *slog.Logger, opts clientOptions) (kaoyan.Provider, error) {
	switch name {
	case kaoyan.ProviderGemini:
		var gopts []gemini.Option
		if ps.Model != "" {
			gopts = append(gopts, gemini.WithModel(ps.Model))
		}
		if ps.BaseURL != "" {
			gopts = append(gopts, gemini.WithBaseURL(ps.BaseURL))
		}
		c, err := gemini.New(ctx, key, gopts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		zopts := []zhipu.Option{zhipu.WithLogger(log)}
		if ps.BaseURL != "" {
			zopts = append(zopts, zhipu.WithBaseURL(ps.BaseURL))
		}
		if ps.Model != "" {
			zopts = append(zopts, zhipu.WithModel(ps.Model))
		}
		if opts.onFrame != nil {
			zopts = append(zopts, zhipu.WithFrameHandler(opts.onFrame))
		}
		return zhipu.New(key, zopts...), nil
	}
}

// services wires the domain services over the store. client may be nil for
// commands that only read or write stored data.
func (a *app) services(client *kaoyan.Client) services {
	return services{
		briefing:   kaoyan.NewBriefingService(client, a.store, separator.NewSectionParser),
		question:   kaoyan.NewQuestionService(client, a.store, separator.NewSectionParser),
		journal:    kaoyan.NewJournal(client, a.store, separator.NewSectionParser),
		brainstorm: kaoyan.NewBrainstormService(client, a.store),
	}
}

type services struct {
	briefing   *kaoyan.BriefingService
	question   *kaoyan.QuestionService
	journal    *kaoyan.Journal
	brainstorm *kaoyan.BrainstormService
}
