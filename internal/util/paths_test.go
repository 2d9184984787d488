package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestSkillhubHome(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(HomeEnv, "")
		want := filepath.Join(HomeDir(), ".skillhub")
		if got := SkillhubHome(); got != want {
			t.Errorf("SkillhubHome() = %q, want %q", got, want)
		}
	})

	t.Run("override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(HomeEnv, dir)
		if got := SkillhubHome(); got != dir {
			t.Errorf("SkillhubHome() = %q, want %q", got, dir)
		}
		if got := ConfigPath(); got != filepath.Join(dir, "config.yaml") {
			t.Errorf("ConfigPath() = %q", got)
		}
	})
}

func TestExpandPath(t *testing.T) {
	home := HomeDir()
	t.Setenv("SKILLHUB_TEST_DIR", "/opt/skills")

	tests := map[string]struct {
		path    string
		baseDir string
		want    string
	}{
		"empty":          {path: "", want: ""},
		"tilde":          {path: "~", want: home},
		"tilde prefix":   {path: "~/.cursor/skills", want: filepath.Join(home, ".cursor", "skills")},
		"env var":        {path: "$SKILLHUB_TEST_DIR/a", want: "/opt/skills/a"},
		"absolute":       {path: "/x/y/../z", baseDir: "/base", want: "/x/z"},
		"relative base":  {path: "skills", baseDir: "/base", want: "/base/skills"},
		"relative plain": {path: "skills/./a", want: "skills/a"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandPath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ExpandPath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestExpandPaths(t *testing.T) {
	got := ExpandPaths([]string{"a", " ", "/b"}, "/base")
	if len(got) != 2 || got[0] != "/base/a" || got[1] != "/b" {
		t.Errorf("ExpandPaths() = %v", got)
	}
}
