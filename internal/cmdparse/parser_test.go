package cmdparse

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    Parsed
	}{
		{"simple", "git status", Parsed{Command: "git", Args: []string{"status"}}},
		{"quoted argument", `git commit -m "initial commit"`, Parsed{Command: "git", Args: []string{"commit", "-m", "initial commit"}}},
		{"inner quotes stripped", `git log --author="John Doe"`, Parsed{Command: "git", Args: []string{"log", "--author=John Doe"}}},
		{"empty input", "", Parsed{Command: "", Args: nil}},
		{"whitespace only", "   \t  ", Parsed{Command: "", Args: nil}},
		{"extra whitespace collapses", "echo   hi", Parsed{Command: "echo", Args: []string{"hi"}}},
		{"single token", "pwd", Parsed{Command: "pwd", Args: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.command)
			if got.Command != tt.want.Command || !reflect.DeepEqual(got.Args, tt.want.Args) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.command, got, tt.want)
			}
		})
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		executable string
		want       string
	}{
		{"rm", "rm"},
		{"RM", "rm"},
		{"/usr/bin/rm", "rm"},
		{`C:\Windows\System32\cmd.exe`, "cmd"},
		{`C:\tools\script.BAT`, "script"},
		{"node.cmd", "node"},
		{"", ""},
		{"../relative/path/tool", "tool"},
	}

	for _, tt := range tests {
		t.Run(tt.executable, func(t *testing.T) {
			got := ExtractCommandName(tt.executable)
			if got != tt.want {
				t.Errorf("ExtractCommandName(%q) = %q, want %q", tt.executable, got, tt.want)
			}
		})
	}
}
