package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/adapter"
	"github.com/klauern/skillhub/internal/config"
	"github.com/klauern/skillhub/internal/hub"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/progress"
	"github.com/klauern/skillhub/internal/sync"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the config loaded by the root command, loading the
// default one if the root Before hook did not run.
func configFrom(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return config.Load()
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.Load()
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, err
	}
	return cfg, nil
}

// app bundles what a command needs: config, hub store and sync engine.
type app struct {
	cfg    *config.Config
	store  *hub.Store
	engine *sync.Engine
}

type appOptions struct {
	// detectedOnly restricts the engine to tools detected on this machine.
	detectedOnly bool
	// progress draws a progress bar for batch operations.
	progress bool
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := hub.New(cfg.HubRoot())
	if err != nil {
		return nil, err
	}

	registry := adapter.Default(cfg)
	if opts.detectedOnly {
		registry = detected(registry)
	}

	engineOpts := []sync.Option{
		sync.WithRegistry(registry),
		sync.WithCollectRecords(cfg.Sync.CollectRecords),
	}
	if cfg.Sync.PersistState {
		engineOpts = append(engineOpts, sync.WithStateFile(cfg.StatePath()))
	}
	if opts.progress {
		engineOpts = append(engineOpts, sync.WithProgress(progress.NewTracker(progress.Options{}).Func()))
	}

	engine, err := sync.New(store, engineOpts...)
	if err != nil {
		return nil, err
	}
	logging.Debug("engine ready", logging.Path(store.Root()), logging.Count(registry.Len()))
	return &app{cfg: cfg, store: store, engine: engine}, nil
}

func detected(reg *adapter.Registry) *adapter.Registry {
	out := adapter.NewRegistry()
	for _, a := range reg.All() {
		if a.Detect() {
			out.Register(a)
		}
	}
	return out
}

// resolveTools parses --tools, defaulting to every detected tool.
func (a *app) resolveTools(raw string) ([]model.Tool, error) {
	if raw != "" {
		return model.ParseTools(raw)
	}
	var tools []model.Tool
	for _, p := range a.engine.DetectTools() {
		if p.Detected {
			tools = append(tools, p.Tool)
		}
	}
	if len(tools) == 0 {
		return nil, errors.New("no tools detected; pass --tools")
	}
	return tools, nil
}

// resolveStrategy parses --strategy. An empty value means each tool uses
// its configured strategy.
func resolveStrategy(raw string) (model.Strategy, bool, error) {
	if raw == "" {
		return "", false, nil
	}
	s, err := model.ParseStrategy(raw)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// strategyResolver returns the per-tool resolver for batch operations,
// honoring an explicit --strategy.
func (a *app) strategyResolver(raw string) (sync.StrategyResolver, error) {
	s, explicit, err := resolveStrategy(raw)
	if err != nil {
		return nil, err
	}
	if explicit {
		return sync.Uniform(s), nil
	}
	return a.cfg.StrategyFor, nil
}

// applyStrategies fills each planned action with its tool's strategy.
func applyStrategies(plan *sync.Plan, resolve sync.StrategyResolver) {
	for _, group := range [][]sync.PlannedAction{plan.Add, plan.Update, plan.Repair} {
		for i := range group {
			group[i].Strategy = resolve(group[i].Tool)
		}
	}
}
