package tui

import (
	"strings"

	"github.com/klauern/skillhub/internal/model"
)

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) <= width {
		return text
	}
	if width <= 3 {
		return text[:width]
	}
	return text[:width-3] + "..."
}

func joinTools(tools []model.Tool) string {
	if len(tools) == 0 {
		return "-"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
