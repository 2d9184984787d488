package model

import (
	"fmt"
	"strings"
)

// Strategy governs how a hub skill is projected into a tool directory.
type Strategy string

const (
	// StrategyAuto tries a symlink first and falls back to a full copy.
	StrategyAuto Strategy = "auto"

	// StrategyLink only creates a symlink to the hub path.
	StrategyLink Strategy = "link"

	// StrategyCopy only performs a full recursive copy.
	StrategyCopy Strategy = "copy"
)

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAuto, StrategyLink, StrategyCopy:
		return true
	default:
		return false
	}
}

// IsConcrete returns true for strategies that describe an actual projection.
// Only concrete strategies are ever recorded in sync state.
func (s Strategy) IsConcrete() bool {
	return s == StrategyLink || s == StrategyCopy
}

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyAuto:
		return "Symlink to the hub, falling back to a copy"
	case StrategyLink:
		return "Always symlink to the hub"
	case StrategyCopy:
		return "Always copy hub content"
	default:
		return "Unknown strategy"
	}
}

// AllStrategies returns all supported strategies.
func AllStrategies() []Strategy {
	return []Strategy{StrategyAuto, StrategyLink, StrategyCopy}
}

// ParseStrategy parses a strategy name. An empty string yields StrategyAuto.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StrategyAuto, nil
	}
	strategy := Strategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("unknown strategy %q (valid: auto, link, copy)", s)
	}
	return strategy, nil
}
