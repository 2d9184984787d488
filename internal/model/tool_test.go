package model

import "testing"

func TestParseTool(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Tool
		wantErr bool
	}{
		"builtin":            {input: "claude", want: Claude},
		"uppercase trimmed":  {input: "  Cursor ", want: Cursor},
		"alias claude-code":  {input: "claude-code", want: Claude},
		"alias droid":        {input: "droid", want: Factory},
		"custom tool":        {input: "my-agent", want: Tool("my-agent")},
		"empty invalid":      {input: "", wantErr: true},
		"path separator bad": {input: "a/b", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseTool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTool(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTools(t *testing.T) {
	got, err := ParseTools("claude, cursor,,claude-code,gemini")
	if err != nil {
		t.Fatalf("ParseTools() error = %v", err)
	}
	want := []Tool{Claude, Cursor, Gemini}
	if len(got) != len(want) {
		t.Fatalf("ParseTools() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseTools()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuiltinToolsSorted(t *testing.T) {
	tools := BuiltinTools()
	if len(tools) != 18 {
		t.Errorf("BuiltinTools() returned %d tools, want 18", len(tools))
	}
	for i := 1; i < len(tools); i++ {
		if tools[i-1] >= tools[i] {
			t.Errorf("BuiltinTools() not sorted: %q before %q", tools[i-1], tools[i])
		}
	}
	for _, tool := range tools {
		if !tool.IsBuiltin() {
			t.Errorf("BuiltinTools() returned non-builtin %q", tool)
		}
	}
}

func TestToolDisplayName(t *testing.T) {
	if got := Claude.DisplayName(); got != "Claude Code" {
		t.Errorf("Claude.DisplayName() = %q", got)
	}
	if got := Tool("custom").DisplayName(); got != "custom" {
		t.Errorf("custom DisplayName() = %q, want identifier", got)
	}
}
