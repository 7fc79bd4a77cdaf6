package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/fmt-playground/assets"
	"github.com/wippyai/fmt-playground/builtin"
	"github.com/wippyai/fmt-playground/config"
	"github.com/wippyai/fmt-playground/engine"
	"github.com/wippyai/fmt-playground/registry"
)

type rootOptions struct {
	assets   string
	logLevel string
	logFile  string
}

// app is the configuration and logging shared by every command.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// newApp loads configuration and applies flag overrides. Logs go to the
// configured file, or to stderr when the command does not own the terminal.
func newApp(cmd *cobra.Command, opts *rootOptions, stderr bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("assets") {
		cfg.Assets.URL = opts.assets
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger.Named("engine"))
	registry.SetLogger(logger.Named("registry"))

	return &app{cfg: cfg, logger: logger}, nil
}

func buildLogger(cfg config.LogConfig, stderr bool) (*zap.Logger, error) {
	switch {
	case cfg.File != "":
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(cfg.ZapLevel())
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
		return zc.Build()
	case stderr:
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), cfg.ZapLevel())
		return zap.New(core), nil
	default:
		return zap.NewNop(), nil
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// assetSet is the engine registry and sample store of one command run, plus
// the raw source behind them.
type assetSet struct {
	registry *registry.Registry
	samples  *registry.Samples
	source   registry.Source
}

func (a *app) openAssets() (*assetSet, error) {
	if a.cfg.Assets.URL == "" {
		catalog := builtin.NewCatalog()
		src, err := assets.NewBuiltinSource(catalog)
		if err != nil {
			return nil, err
		}
		return &assetSet{
			registry: registry.New(catalog, catalog),
			samples:  registry.NewSamples(src),
			source:   src,
		}, nil
	}

	src, err := registry.OpenSource(a.cfg.Assets.URL, registry.S3Config{
		Region:   a.cfg.Assets.S3Region,
		Endpoint: a.cfg.Assets.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	loader, err := registry.NewModuleLoader(src, a.cfg.Cache.Modules, nil)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using asset root", zap.String("url", a.cfg.Assets.URL))
	return &assetSet{
		registry: registry.New(registry.NewManifest(src), loader),
		samples:  registry.NewSamples(src),
		source:   src,
	}, nil
}

// loadVersion loads version, or the default version when it is empty.
func (s *assetSet) loadVersion(ctx context.Context, version string) error {
	if version == "" {
		versions, err := s.registry.Versions(ctx)
		if err != nil {
			return err
		}
		version = versions[0]
	}
	return s.registry.Load(ctx, version)
}
