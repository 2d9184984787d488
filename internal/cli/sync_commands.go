package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/sync"
	"github.com/klauern/skillhub/internal/ui"
)

// urfave/cli flags hold parsed state and must not be shared between
// commands, so shared flags are constructors.

func toolsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "tools",
		Aliases: []string{"t"},
		Usage:   "Comma-separated tool ids (default: every detected tool)",
	}
}

func strategyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "Projection strategy: auto, link or copy (default: per-tool config)",
	}
}

func skillFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "skill",
		Usage: "Skill id (alternative to the positional argument)",
	}
}

// skillArg returns the skill id from the first argument or --skill.
func skillArg(cmd *cli.Command) string {
	if id := cmd.String("skill"); id != "" {
		return id
	}
	return cmd.Args().First()
}

type itemJSON struct {
	SkillID string     `json:"skill_id"`
	Tool    model.Tool `json:"tool"`
	Action  string     `json:"action"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}

func resultJSON(r *sync.Result) []itemJSON {
	items := make([]itemJSON, 0, len(r.Items))
	for _, it := range r.Items {
		j := itemJSON{SkillID: it.SkillID, Tool: it.Tool, Action: string(it.Action), Success: it.Success()}
		if it.Err != nil {
			j.Error = it.Err.Error()
		}
		items = append(items, j)
	}
	return items
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Project hub skills into tools",
		UsageText: "skillhub sync [options] [skill]",
		Flags: []cli.Flag{
			skillFlag(),
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Sync every installed skill",
			},
			toolsFlag(),
			strategyFlag(),
			&cli.BoolFlag{
				Name:  "reconcile",
				Usage: "Check drift first so drifted targets are repaired",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Show the plan without changing anything",
			},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, appOptions{progress: !cmd.Bool("dry-run")})
			if err != nil {
				return err
			}

			ids, err := syncTargets(a, cmd)
			if err != nil {
				return err
			}
			tools, err := a.resolveTools(cmd.String("tools"))
			if err != nil {
				return err
			}
			resolve, err := a.strategyResolver(cmd.String("strategy"))
			if err != nil {
				return err
			}

			if cmd.Bool("reconcile") {
				if reports := a.engine.CheckDrift(); len(reports) > 0 {
					fmt.Printf("Found %d drifted projection(s)\n", len(reports))
				}
			}

			plan, err := buildPlan(a, ids, tools, resolve)
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				if wantJSON(cmd, a.cfg) {
					return printJSON(plan)
				}
				printPlan(plan)
				return nil
			}

			result := a.engine.ExecutePlan(plan)
			if wantJSON(cmd, a.cfg) {
				if err := printJSON(resultJSON(result)); err != nil {
					return err
				}
			} else {
				fmt.Print(result.Summary())
			}
			if !result.Success() {
				return fmt.Errorf("%d action(s) failed", len(result.Failed()))
			}
			return nil
		},
	}
}

func syncTargets(a *app, cmd *cli.Command) ([]string, error) {
	if cmd.Bool("all") {
		var ids []string
		for _, r := range a.store.ListInstalled() {
			ids = append(ids, r.SkillID)
		}
		if len(ids) == 0 {
			return nil, errors.New("no skills installed")
		}
		return ids, nil
	}
	id := skillArg(cmd)
	if id == "" {
		return nil, errors.New("specify a skill or pass --all")
	}
	return []string{id}, nil
}

// buildPlan merges per-skill plans into one and assigns strategies.
func buildPlan(a *app, ids []string, tools []model.Tool, resolve sync.StrategyResolver) (*sync.Plan, error) {
	merged := &sync.Plan{}
	for _, id := range ids {
		plan, err := a.engine.PlanSync(id, tools, model.StrategyAuto)
		if err != nil {
			return nil, err
		}
		merged.Add = append(merged.Add, plan.Add...)
		merged.Update = append(merged.Update, plan.Update...)
		merged.Repair = append(merged.Repair, plan.Repair...)
	}
	applyStrategies(merged, resolve)
	return merged, nil
}

func printPlan(plan *sync.Plan) {
	if plan.IsEmpty() {
		fmt.Println(ui.StatusSkipped("Nothing to do - everything is in sync"))
		return
	}
	rows := make([][]string, 0, plan.Len())
	for _, act := range plan.Actions() {
		rows = append(rows, []string{
			ui.Title(string(act.Type)),
			act.SkillID,
			act.Tool.String(),
			ui.StrategyLabel(act.Strategy),
		})
	}
	fmt.Println(ui.Table([]string{"Action", "Skill", "Tool", "Strategy"}, rows))
	fmt.Printf("%d action(s) planned\n", plan.Len())
}

func unsyncCommand() *cli.Command {
	return &cli.Command{
		Name:      "unsync",
		Usage:     "Remove a skill's projection from tools",
		UsageText: "skillhub unsync [options] <skill>",
		Flags:     []cli.Flag{skillFlag(), toolsFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := skillArg(cmd)
			if id == "" {
				return errors.New("unsync requires a skill")
			}
			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}

			var tools []model.Tool
			if raw := cmd.String("tools"); raw != "" {
				if tools, err = model.ParseTools(raw); err != nil {
					return err
				}
			}
			result := a.engine.ExecutePlan(a.engine.PlanRemoval(id, tools))
			if len(result.Items) == 0 {
				fmt.Println(ui.StatusSkipped(fmt.Sprintf("%s is not synced to any tool", id)))
				return nil
			}
			for _, it := range result.Items {
				if it.Success() {
					fmt.Println(ui.StatusSuccess(fmt.Sprintf("Removed %s from %s", it.SkillID, it.Tool)))
				} else {
					fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", it.Tool, it.Err)))
				}
			}
			if !result.Success() {
				return fmt.Errorf("%d removal(s) failed", len(result.Failed()))
			}
			return nil
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Show what syncing a skill would do",
		UsageText: "skillhub plan [options] <skill>",
		Flags:     []cli.Flag{skillFlag(), toolsFlag(), strategyFlag(), jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := skillArg(cmd)
			if id == "" {
				return errors.New("plan requires a skill")
			}
			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			tools, err := a.resolveTools(cmd.String("tools"))
			if err != nil {
				return err
			}
			resolve, err := a.strategyResolver(cmd.String("strategy"))
			if err != nil {
				return err
			}
			plan, err := buildPlan(a, []string{id}, tools, resolve)
			if err != nil {
				return err
			}
			if wantJSON(cmd, a.cfg) {
				return printJSON(plan)
			}
			printPlan(plan)
			return nil
		},
	}
}

func driftCommand() *cli.Command {
	return &cli.Command{
		Name:  "drift",
		Usage: "Check tracked projections against the filesystem",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "repair",
				Aliases: []string{"r"},
				Usage:   "Re-project every drifted skill",
			},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			reports := a.engine.CheckDrift()

			var repaired *sync.Result
			if cmd.Bool("repair") && len(reports) > 0 {
				repaired = a.engine.Repair(reports, a.cfg.StrategyFor)
			}

			if wantJSON(cmd, a.cfg) {
				out := struct {
					Drift    []sync.DriftReport `json:"drift"`
					Repaired []itemJSON         `json:"repaired,omitempty"`
				}{Drift: reports}
				if out.Drift == nil {
					out.Drift = []sync.DriftReport{}
				}
				if repaired != nil {
					out.Repaired = resultJSON(repaired)
				}
				return printJSON(out)
			}

			if len(reports) == 0 {
				fmt.Println(ui.StatusSuccess("No drift detected"))
				return nil
			}
			printDrift(reports)
			if repaired != nil {
				fmt.Print(repaired.Summary())
				if !repaired.Success() {
					return fmt.Errorf("%d repair(s) failed", len(repaired.Failed()))
				}
			}
			return nil
		},
	}
}

func printDrift(reports []sync.DriftReport) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.SkillID,
			r.Tool.String(),
			ui.DriftLabel(r.Drift.Kind),
			r.Drift.Description,
		})
	}
	fmt.Println(ui.Table([]string{"Skill", "Tool", "Drift", "Details"}, rows))
}
