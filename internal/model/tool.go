// Package model provides data types for skillhub.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Tool identifies an agent tool that keeps its own skills directory.
type Tool string

// Built-in tools.
const (
	Amp         Tool = "amp"
	Antigravity Tool = "antigravity"
	Claude      Tool = "claude"
	CodeBuddy   Tool = "codebuddy"
	Codex       Tool = "codex"
	Copilot     Tool = "copilot"
	Cursor      Tool = "cursor"
	Factory     Tool = "factory"
	Gemini      Tool = "gemini"
	Goose       Tool = "goose"
	KiloCode    Tool = "kilocode"
	Kimi        Tool = "kimi"
	OpenClaw    Tool = "openclaw"
	OpenCode    Tool = "opencode"
	Qwen        Tool = "qwen"
	RooCode     Tool = "roocode"
	Trae        Tool = "trae"
	Windsurf    Tool = "windsurf"
)

var displayNames = map[Tool]string{
	Amp:         "Amp",
	Antigravity: "Antigravity",
	Claude:      "Claude Code",
	CodeBuddy:   "CodeBuddy",
	Codex:       "Codex",
	Copilot:     "GitHub Copilot",
	Cursor:      "Cursor",
	Factory:     "Droid/Factory",
	Gemini:      "Gemini CLI",
	Goose:       "Goose",
	KiloCode:    "Kilo Code",
	Kimi:        "Kimi CLI",
	OpenClaw:    "OpenClaw",
	OpenCode:    "OpenCode",
	Qwen:        "Qwen Code",
	RooCode:     "Roo Code",
	Trae:        "Trae",
	Windsurf:    "Windsurf",
}

// aliases maps alternate spellings accepted on the command line.
var aliases = map[string]Tool{
	"claude-code": Claude,
	"claudecode":  Claude,
	"droid":       Factory,
	"kilo":        KiloCode,
	"roo":         RooCode,
	"github":      Copilot,
}

// IsBuiltin returns true if the tool is one of the built-in tools.
func (t Tool) IsBuiltin() bool {
	_, ok := displayNames[t]
	return ok
}

// DisplayName returns the human-readable tool name.
// Custom tools display as their identifier.
func (t Tool) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// String returns the tool identifier.
func (t Tool) String() string {
	return string(t)
}

// BuiltinTools returns all built-in tools sorted by identifier.
func BuiltinTools() []Tool {
	tools := make([]Tool, 0, len(displayNames))
	for t := range displayNames {
		tools = append(tools, t)
	}
	SortTools(tools)
	return tools
}

// SortTools sorts tools by identifier in place.
func SortTools(tools []Tool) {
	sort.Slice(tools, func(i, j int) bool { return tools[i] < tools[j] })
}

// ParseTool parses a tool identifier. Unknown identifiers are accepted as
// custom tools as long as they are non-empty and contain no path separators.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("tool cannot be empty")
	}
	if t, ok := aliases[s]; ok {
		return t, nil
	}
	if strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("invalid tool identifier %q", s)
	}
	return Tool(s), nil
}

// ParseTools parses a comma-separated list of tools.
func ParseTools(s string) ([]Tool, error) {
	var tools []Tool
	seen := make(map[Tool]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTool(part)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tools = append(tools, t)
	}
	return tools, nil
}
