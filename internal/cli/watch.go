package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/ui"
	"github.com/klauern/skillhub/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the hub and tool directories and report drift as it happens",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "repair",
				Aliases: []string{"r"},
				Usage:   "Re-project drifted skills automatically (default: watch.repair)",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a drift check (default: watch.debounce)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}

			cfg := watch.Config{
				Debounce: a.cfg.Watch.Debounce,
				Repair:   a.cfg.Watch.Repair || cmd.Bool("repair"),
				Strategy: a.cfg.StrategyFor,
			}
			if cmd.IsSet("debounce") {
				cfg.Debounce = cmd.Duration("debounce")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Watching %d director(ies); press Ctrl+C to stop\n", len(a.engine.WatchDirs()))
			return watch.New(a.engine, cfg, printReport).Run(ctx)
		},
	}
}

func printReport(r watch.Report) {
	fmt.Printf("%s %s\n", ui.Dim(time.Now().Format("15:04:05")), ui.Info(r.Trigger.Path))
	for _, d := range r.Drift {
		fmt.Println(ui.StatusWarning(fmt.Sprintf("%s in %s: %s", d.SkillID, d.Tool, ui.DriftLabel(d.Drift.Kind))))
	}
	if r.Repaired == nil {
		return
	}
	for _, it := range r.Repaired.Items {
		if it.Success() {
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("repaired %s in %s", it.SkillID, it.Tool)))
		} else {
			fmt.Println(ui.StatusError(fmt.Sprintf("repair of %s in %s failed: %v", it.SkillID, it.Tool, it.Err)))
		}
	}
}
