// Package adapter resolves where each agent tool keeps its skills.
//
// Adapters are pure directory resolvers: the sync engine asks an adapter
// for its identity, whether the tool is present, and which directories
// hold its skills. Nothing here reads tool-specific configuration files.
package adapter

import (
	"errors"

	"github.com/klauern/skillhub/internal/model"
)

// ErrNoSkillsDir is returned when a tool has no resolvable skills directory.
var ErrNoSkillsDir = errors.New("no skills directory")

// Adapter is the capability set the sync engine consumes.
type Adapter interface {
	// Tool returns the tool identity.
	Tool() model.Tool
	// Detect reports whether the tool appears to be installed.
	Detect() bool
	// SkillsDir resolves the primary skills directory, creating it if
	// absent. Sync always writes here.
	SkillsDir() (string, error)
	// SkillsDirs returns every candidate directory that currently exists,
	// primary first. Scans read all of them.
	SkillsDirs() []string
}
