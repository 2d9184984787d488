package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides the hub root directory.
const HomeEnv = "SKILLHUB_HOME"

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// SkillhubHome returns the hub root: $SKILLHUB_HOME when set, otherwise
// ~/.skillhub.
func SkillhubHome() string {
	if env := os.Getenv(HomeEnv); env != "" {
		return ExpandPath(env, "")
	}
	return filepath.Join(HomeDir(), ".skillhub")
}

// ConfigPath returns the default config file location inside the hub root.
func ConfigPath() string {
	return filepath.Join(SkillhubHome(), "config.yaml")
}

// ExpandPath expands a leading ~ and environment variables, then resolves
// relative paths against baseDir. An empty baseDir leaves relative paths
// relative.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	switch {
	case path == "~":
		path = HomeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return filepath.Clean(path)
}

// ExpandPaths applies ExpandPath to every non-empty entry.
func ExpandPaths(paths []string, baseDir string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, ExpandPath(p, baseDir))
	}
	return out
}
