package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillhub/internal/config"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output in JSON format for scripting",
	}
}

// wantJSON reports whether a command should print JSON, either from --json
// or from output.format in the config.
func wantJSON(cmd *cli.Command, cfg *config.Config) bool {
	if cmd.Bool("json") {
		return true
	}
	return cfg != nil && cfg.Output.Format == "json"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
