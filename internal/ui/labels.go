package ui

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/skillhub/internal/model"
)

var titleCaser = cases.Title(language.English)

// Title returns s in title case.
func Title(s string) string {
	return titleCaser.String(s)
}

// DriftLabel renders a drift kind as a colored, title-cased label.
func DriftLabel(kind model.DriftKind) string {
	label := Title(kind.Label())
	switch kind {
	case model.DriftMissing, model.DriftBrokenLink:
		return Error(label)
	default:
		return Warning(label)
	}
}

// StrategyLabel renders a strategy as a title-cased label.
func StrategyLabel(s model.Strategy) string {
	return Title(s.String())
}

// DetectedLabel renders a tool detection flag.
func DetectedLabel(detected bool) string {
	if detected {
		return StatusSuccess("detected")
	}
	return StatusSkipped("not found")
}
