package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/ui"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Copy a local skill directory into the hub",
		UsageText: "skillhub install [options] <dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Skill id (default: the directory name)",
			},
			&cli.StringFlag{
				Name:  "label",
				Value: "local",
				Usage: "Version label recorded for the skill",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("install requires exactly 1 argument: <dir>")
			}
			src, err := filepath.Abs(cmd.Args().First())
			if err != nil {
				return err
			}
			info, err := os.Stat(src)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", src, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", src)
			}

			id := cmd.String("id")
			if id == "" {
				id = filepath.Base(src)
			}

			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			rec, err := a.store.Import(id, src, cmd.String("label"), model.SkillSource{
				Kind:     model.SourceLocal,
				Location: src,
			})
			if err != nil {
				return err
			}
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Installed %s (%s, %s)", ui.Bold(id), rec.Version.Version, rec.Version.ShortHash())))
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a skill from every tool and from the hub",
		UsageText: "skillhub remove <skill>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("remove requires exactly 1 argument: <skill>")
			}
			id := cmd.Args().First()

			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			if !a.store.IsInstalled(id) && !a.store.HasSkill(id) {
				return fmt.Errorf("skill %q is not in the hub", id)
			}

			result := a.engine.ExecutePlan(a.engine.PlanRemoval(id, nil))
			if !result.Success() {
				fmt.Print(result.Summary())
				return errors.New("failed to remove skill from some tools; hub copy kept")
			}
			if err := a.store.Remove(id); err != nil {
				return err
			}
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Removed %s from %d tool(s) and the hub", ui.Bold(id), len(result.Items))))
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List skills installed in the hub",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			records := a.store.ListInstalled()
			if wantJSON(cmd, a.cfg) {
				return printJSON(records)
			}
			if len(records) == 0 {
				fmt.Println("No skills installed.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				tools := strings.Join(r.ProjectedTools, ", ")
				if tools == "" {
					tools = "-"
				}
				rows = append(rows, []string{
					r.SkillID,
					r.Version.Version,
					r.Version.ShortHash(),
					r.Source.Display(),
					tools,
					r.InstalledAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Println(ui.Table([]string{"Skill", "Version", "Hash", "Source", "Tools", "Installed"}, rows))
			return nil
		},
	}
}
