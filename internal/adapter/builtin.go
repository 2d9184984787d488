package adapter

import (
	"path/filepath"

	"github.com/klauern/skillhub/internal/config"
	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/util"
)

// globalDirs maps each built-in tool to its skills directory relative to
// the home directory.
var globalDirs = map[model.Tool]string{
	model.Amp:         ".config/agents/skills",
	model.Antigravity: ".gemini/antigravity/skills",
	model.Claude:      ".claude/skills",
	model.CodeBuddy:   ".codebuddy/skills",
	model.Codex:       ".codex/skills",
	model.Copilot:     ".copilot/skills",
	model.Cursor:      ".cursor/skills",
	model.Factory:     ".factory/skills",
	model.Gemini:      ".gemini/skills",
	model.Goose:       ".config/goose/skills",
	model.KiloCode:    ".kilocode/skills",
	model.Kimi:        ".kimi/skills",
	model.OpenClaw:    ".openclaw/workspace/skills",
	model.OpenCode:    ".config/opencode/skills",
	model.Qwen:        ".qwen/skills",
	model.RooCode:     ".roo/skills",
	model.Windsurf:    ".codeium/windsurf/skills",
}

// BuiltinProfiles returns the profile of every built-in tool. home is the
// user's home directory; workDir is where project-local markers are
// looked up.
func BuiltinProfiles(home, workDir string) []Profile {
	profiles := make([]Profile, 0, len(model.BuiltinTools()))
	for _, tool := range model.BuiltinTools() {
		p := Profile{Tool: tool}
		if rel, ok := globalDirs[tool]; ok {
			p.PrimaryDir = filepath.Join(home, filepath.FromSlash(rel))
		}

		switch tool {
		case model.Claude:
			p.DetectPaths = []string{filepath.Join(home, ".claude")}
		case model.Antigravity:
			p.DetectPaths = []string{filepath.Join(home, ".gemini", "antigravity")}
		case model.Windsurf:
			p.DetectPaths = []string{filepath.Join(home, ".codeium", "windsurf")}
		case model.OpenClaw:
			p.DetectPaths = []string{filepath.Join(home, ".openclaw")}
			p.DetectBinary = "openclaw"
			p.InstallSkillsDir = "lib/node_modules/openclaw/skills"
		case model.Trae:
			// Trae only has project-local skills.
			if workDir != "" {
				p.DetectPaths = []string{filepath.Join(workDir, ".trae")}
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// FromConfig builds a registry of the built-in tools plus any custom tools
// in cfg, applying per-tool enablement and path overrides. Relative paths
// resolve against workDir.
func FromConfig(cfg *config.Config, home, workDir string) *Registry {
	reg := NewRegistry()

	builtin := make(map[model.Tool]bool)
	for _, p := range BuiltinProfiles(home, workDir) {
		builtin[p.Tool] = true
		tc := cfg.Tool(p.Tool)
		if !tc.IsEnabled() {
			continue
		}
		reg.Register(New(applyPaths(p, tc, workDir)))
	}

	for id, tc := range cfg.Tools {
		tool := model.Tool(id)
		if builtin[tool] || !tc.IsEnabled() || len(tc.SkillsPaths) == 0 {
			continue
		}
		reg.Register(New(applyPaths(Profile{Tool: tool}, tc, workDir)))
	}
	return reg
}

// applyPaths replaces a profile's directories with configured ones. The
// first configured path becomes primary and also marks the tool detected.
func applyPaths(p Profile, tc config.ToolConfig, workDir string) Profile {
	paths := tc.ExpandedSkillsPaths(workDir)
	if len(paths) == 0 {
		return p
	}
	p.PrimaryDir = paths[0]
	p.ExtraDirs = paths[1:]
	p.DetectPaths = append([]string{paths[0]}, p.DetectPaths...)
	return p
}

// Default builds the registry for the current user from cfg.
func Default(cfg *config.Config) *Registry {
	workDir, _ := filepath.Abs(".")
	return FromConfig(cfg, util.HomeDir(), workDir)
}
