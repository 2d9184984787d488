package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/ui"
)

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "Show the agent tools skillhub knows about",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every registered tool with its skills directories",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runTools(ctx, cmd, false)
				},
			},
			{
				Name:  "detect",
				Usage: "List only the tools installed on this machine",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runTools(ctx, cmd, true)
				},
			},
		},
	}
}

func runTools(ctx context.Context, cmd *cli.Command, detectedOnly bool) error {
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}

	var profiles []model.ToolProfile
	for _, p := range a.engine.DetectTools() {
		if detectedOnly && !p.Detected {
			continue
		}
		profiles = append(profiles, p)
	}

	if wantJSON(cmd, a.cfg) {
		if profiles == nil {
			profiles = []model.ToolProfile{}
		}
		return printJSON(profiles)
	}

	if len(profiles) == 0 {
		fmt.Println("No tools detected.")
		return nil
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		dir := p.SkillsDir
		if dir == "" {
			dir = ui.Dim("(project only)")
		}
		extra := ""
		if len(p.Dirs) > 1 {
			extra = strings.Join(p.Dirs[1:], "\n")
		}
		rows = append(rows, []string{
			p.Tool.String(),
			p.Tool.DisplayName(),
			ui.DetectedLabel(p.Detected),
			a.cfg.StrategyFor(p.Tool).String(),
			dir,
			extra,
		})
	}
	fmt.Println(ui.Table([]string{"Tool", "Name", "Status", "Strategy", "Skills Dir", "Also Scanned"}, rows))
	return nil
}
