package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/sync"
	"github.com/klauern/skillhub/internal/ui"
	"github.com/klauern/skillhub/internal/ui/tui"
)

func allToolsFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "all-tools",
		Usage: "Include tools that are not detected on this machine",
	}
}

// openReconcileApp opens an app restricted to detected tools unless
// --all-tools is set.
func openReconcileApp(ctx context.Context, cmd *cli.Command, showProgress bool) (*app, error) {
	return openApp(ctx, appOptions{
		detectedOnly: !cmd.Bool("all-tools"),
		progress:     showProgress,
	})
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List skills found in every tool's skills directories",
		Flags: []cli.Flag{allToolsFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openReconcileApp(ctx, cmd, false)
			if err != nil {
				return err
			}
			scanned := a.engine.ScanAllTools()
			if wantJSON(cmd, a.cfg) {
				if scanned == nil {
					scanned = []model.ScannedSkill{}
				}
				return printJSON(scanned)
			}
			if len(scanned) == 0 {
				fmt.Println("No skills found in any tool.")
				return nil
			}

			rows := make([][]string, 0, len(scanned))
			for _, s := range scanned {
				kind := "dir"
				if s.IsLink {
					kind = "link"
				}
				hubMark := ui.Warning("no")
				if s.InHub {
					hubMark = ui.Success("yes")
				}
				rows = append(rows, []string{s.ID, s.Tool.String(), kind, hubMark, s.Path})
			}
			fmt.Println(ui.Table([]string{"Skill", "Tool", "Type", "In Hub", "Path"}, rows))
			return nil
		},
	}
}

func collectCommand() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Copy skills found in tools into the hub",
		Flags: []cli.Flag{allToolsFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openReconcileApp(ctx, cmd, false)
			if err != nil {
				return err
			}
			collected, collectErr := a.engine.CollectToHub()

			if wantJSON(cmd, a.cfg) {
				if collected == nil {
					collected = []string{}
				}
				if err := printJSON(map[string]any{"collected": collected}); err != nil {
					return err
				}
				return collectErr
			}

			if len(collected) == 0 {
				fmt.Println(ui.StatusSkipped("Nothing new to collect"))
			} else {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("Collected %d skill(s): %s", len(collected), strings.Join(collected, ", "))))
			}
			return collectErr
		},
	}
}

func distributeCommand() *cli.Command {
	return &cli.Command{
		Name:  "distribute",
		Usage: "Project every hub skill into tools that lack it",
		Flags: []cli.Flag{allToolsFlag(), strategyFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openReconcileApp(ctx, cmd, !wantJSONFlag(cmd))
			if err != nil {
				return err
			}
			resolve, err := a.strategyResolver(cmd.String("strategy"))
			if err != nil {
				return err
			}
			dists, err := a.engine.DistributeFromHub(resolve)
			if err != nil {
				return err
			}

			if wantJSON(cmd, a.cfg) {
				if dists == nil {
					dists = []sync.Distribution{}
				}
				return printJSON(dists)
			}
			printDistributions(dists)
			if failed := countFailed(dists); failed > 0 {
				return fmt.Errorf("%d distribution(s) failed", failed)
			}
			return nil
		},
	}
}

func fullSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "full-sync",
		Usage: "Collect skills into the hub, then distribute them to every tool",
		Flags: []cli.Flag{allToolsFlag(), strategyFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openReconcileApp(ctx, cmd, !wantJSONFlag(cmd))
			if err != nil {
				return err
			}
			resolve, err := a.strategyResolver(cmd.String("strategy"))
			if err != nil {
				return err
			}
			result, syncErr := a.engine.FullSync(resolve)
			if result == nil {
				return syncErr
			}

			if wantJSON(cmd, a.cfg) {
				if err := printJSON(result); err != nil {
					return err
				}
				return syncErr
			}

			fmt.Printf("Collected:   %d\n", result.CollectedCount())
			fmt.Printf("Distributed: %d\n", result.DistributedCount())
			if n := result.FailedCount(); n > 0 {
				fmt.Println(ui.StatusError(fmt.Sprintf("Failed:      %d", n)))
			}
			if syncErr != nil {
				return syncErr
			}
			if result.FailedCount() > 0 {
				return fmt.Errorf("%d distribution(s) failed", result.FailedCount())
			}
			return nil
		},
	}
}

func printDistributions(dists []sync.Distribution) {
	if len(dists) == 0 {
		fmt.Println(ui.StatusSkipped("Every tool already has every hub skill"))
		return
	}
	for _, d := range dists {
		if d.Success {
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s -> %s", d.SkillID, d.Tool)))
		} else {
			fmt.Println(ui.StatusError(fmt.Sprintf("%s -> %s", d.SkillID, d.Tool)))
		}
	}
}

func countFailed(dists []sync.Distribution) int {
	n := 0
	for _, d := range dists {
		if !d.Success {
			n++
		}
	}
	return n
}

// wantJSONFlag checks only the flag; progress bars are decided before the
// config is available.
func wantJSONFlag(cmd *cli.Command) bool {
	return cmd.Bool("json")
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which tools hold each hub skill",
		Flags: []cli.Flag{
			allToolsFlag(),
			jsonFlag(),
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Open an interactive dashboard",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openReconcileApp(ctx, cmd, false)
			if err != nil {
				return err
			}
			if cmd.Bool("interactive") {
				return tui.RunDashboard(a.engine.HubStatus)
			}

			statuses, err := a.engine.HubStatus()
			if err != nil {
				return err
			}
			if wantJSON(cmd, a.cfg) {
				return printJSON(statuses)
			}
			if len(statuses) == 0 {
				fmt.Println("The hub is empty.")
				return nil
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				missing := toolList(s.MissingIn)
				if len(s.MissingIn) > 0 {
					missing = ui.Warning(missing)
				}
				rows = append(rows, []string{s.SkillID, toolList(s.SyncedTo), missing})
			}
			fmt.Println(ui.Table([]string{"Skill", "Synced To", "Missing In"}, rows))
			return nil
		},
	}
}

func toolList(tools []model.Tool) string {
	if len(tools) == 0 {
		return "-"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
