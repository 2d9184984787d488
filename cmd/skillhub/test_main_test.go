package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "skillhub-cmd-test-")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = os.RemoveAll(tempHome)
	}()

	setEnvOrPanic := func(key, value string) {
		if err := os.Setenv(key, value); err != nil {
			panic(err)
		}
	}

	setEnvOrPanic("HOME", tempHome)

	claudePath := filepath.Join(tempHome, ".claude", "skills")
	cursorPath := filepath.Join(tempHome, ".cursor", "skills")
	codexPath := filepath.Join(tempHome, ".codex", "skills")

	_ = os.MkdirAll(claudePath, 0o750)
	_ = os.MkdirAll(cursorPath, 0o750)
	_ = os.MkdirAll(codexPath, 0o750)

	setEnvOrPanic("SKILLHUB_HOME", filepath.Join(tempHome, ".skillhub"))
	setEnvOrPanic("SKILLHUB_CLAUDE_SKILLS_PATHS", claudePath)
	setEnvOrPanic("SKILLHUB_CURSOR_SKILLS_PATHS", cursorPath)
	setEnvOrPanic("SKILLHUB_CODEX_SKILLS_PATHS", codexPath)

	os.Exit(m.Run())
}
