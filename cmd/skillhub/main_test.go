package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := cli.Run(context.Background(), append([]string{"skillhub"}, args...))

	require.NoError(t, w.Close())
	os.Stdout = old
	return <-done, runErr
}

func TestEntryPoint(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
		want    []string
	}{
		"help lists every command": {
			args: []string{"--help"},
			want: []string{
				"install", "sync", "unsync", "drift", "collect", "distribute",
				"full-sync", "status", "watch", "tools", "config", "version",
			},
		},
		"version flag": {
			args: []string{"--version"},
			want: []string{"skillhub version"},
		},
		"logging flags combine": {
			args: []string{"--verbose", "--debug", "--log-json", "--no-color", "version"},
			want: []string{"skillhub version"},
		},
		"status on an empty hub": {
			args: []string{"status"},
			want: []string{"The hub is empty."},
		},
		"missing config file": {
			args:    []string{"--config", filepath.Join(os.TempDir(), "skillhub-absent.yaml"), "version"},
			wantErr: true,
		},
		"unknown tool": {
			args:    []string{"sync", "pdf", "--tools", "notepad"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}
