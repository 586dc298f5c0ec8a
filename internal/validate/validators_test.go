package validate

import (
	"strings"
	"testing"

	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/shellkind"
)

func wslContext(allowed []string, blockedCommands []string, ops []string) *Context {
	return &Context{
		ShellName: "wsl",
		ShellKind: shellkind.Wsl,
		Config: &shellconfig.ResolvedShellConfig{
			ShellName: "wsl",
			Kind:      shellkind.Wsl,
			Security: shellconfig.SecurityConfig{
				MaxCommandLength:          2000,
				EnableInjectionProtection: true,
				RestrictWorkingDirectory:  true,
			},
			Restrictions: shellconfig.RestrictionsConfig{
				BlockedCommands:  blockedCommands,
				BlockedOperators: ops,
			},
			Paths: shellconfig.PathsConfig{AllowedPaths: allowed},
		},
	}
}

func windowsContext(allowed []string, blockedCommands []string) *Context {
	return &Context{
		ShellName: "cmd",
		ShellKind: shellkind.Windows,
		Config: &shellconfig.ResolvedShellConfig{
			ShellName: "cmd",
			Kind:      shellkind.Windows,
			Security: shellconfig.SecurityConfig{
				MaxCommandLength:          2000,
				EnableInjectionProtection: true,
				RestrictWorkingDirectory:  true,
			},
			Restrictions: shellconfig.RestrictionsConfig{BlockedCommands: blockedCommands},
			Paths:        shellconfig.PathsConfig{AllowedPaths: allowed},
		},
	}
}

// Scenario 1: blocked-operator injection.
func TestValidateShellOperators_BlockedOperatorInjection(t *testing.T) {
	ctx := wslContext([]string{"/tmp"}, nil, []string{"&", "|", ";", "`"})
	err := ValidateShellOperators("echo hi ; ls", ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "blocked operator for wsl: ;") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateShellOperators_DisabledProtectionIsNoop(t *testing.T) {
	ctx := wslContext([]string{"/tmp"}, nil, []string{";"})
	ctx.Config.Security.EnableInjectionProtection = false
	if err := ValidateShellOperators("echo hi ; ls", ctx); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

// ValidateShellOperators does a literal substring check, so a bare "&" in
// blockedOperators would also match inside "&&"; ValidateCommand avoids that
// by splitting the chain on "&&" before validating each step, so the
// operator check only ever sees the single-ampersand text a step still
// contains after the split.
func TestValidateCommand_ChainSeparatorNotBlockedByDefault(t *testing.T) {
	ctx := wslContext([]string{"/tmp"}, nil, []string{"&", "|", ";", "`"})
	if _, err := ValidateCommand(ctx, "cd /tmp && echo hi", "/tmp"); err != nil {
		t.Fatalf("&& must not be treated as a blocked operator unless explicitly configured: %v", err)
	}
}

// Scenario 2: chain escape.
func TestValidateCommand_ChainEscape(t *testing.T) {
	ctx := windowsContext([]string{`C:\win-cli-test`}, nil)
	_, err := ValidateCommand(ctx, `cd C:\Windows && echo hi`, `C:\win-cli-test`)
	if err == nil {
		t.Fatal("expected working-directory rejection")
	}
	if !strings.Contains(err.Error(), "allowed paths") {
		t.Errorf("unexpected message: %v", err)
	}
}

// Scenario 3: chain blocked command.
func TestValidateCommand_ChainBlockedCommand(t *testing.T) {
	ctx := windowsContext([]string{`C:\win-cli-test`}, []string{"rm"})
	_, err := ValidateCommand(ctx, `cd C:\win-cli-test && rm file.txt`, `C:\win-cli-test`)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "blocked") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateCommand_EscapeViaDotDotIsCaught(t *testing.T) {
	ctx := windowsContext([]string{`C:\win-cli-test`}, nil)
	_, err := ValidateCommand(ctx, `cd C:\win-cli-test && cd .. && dir`, `C:\win-cli-test`)
	if err == nil {
		t.Fatal("expected rejection: cd .. escapes the allowed root")
	}
}

func TestValidateCommand_RelativeCdStaysWithinAllowedPath(t *testing.T) {
	ctx := windowsContext([]string{`C:\win-cli-test`}, nil)
	final, err := ValidateCommand(ctx, `cd sub && dir`, `C:\win-cli-test`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != `C:\win-cli-test\sub` {
		t.Errorf("expected C:\\win-cli-test\\sub, got %s", final)
	}
}

func TestIsCommandBlocked_CaseInsensitive(t *testing.T) {
	ctx := windowsContext([]string{`C:\allowed`}, []string{"rm"})
	if !IsCommandBlocked("RM", ctx) {
		t.Error("expected RM to match blocked command rm case-insensitively")
	}
	if !IsCommandBlocked(`C:\tools\RM.EXE`, ctx) {
		t.Error("expected path+extension form to be blocked")
	}
}

func TestIsArgumentBlocked_ExactMatchOnly(t *testing.T) {
	ctx := windowsContext([]string{`C:\allowed`}, nil)
	ctx.Config.Restrictions.BlockedArguments = []string{"--exec"}
	if IsArgumentBlocked([]string{"--exec=foo"}, ctx) {
		t.Error("blockedArguments must be exact-equality, not prefix, per spec.md open question (a)")
	}
	if !IsArgumentBlocked([]string{"--exec"}, ctx) {
		t.Error("expected exact match to be blocked")
	}
}

func TestValidateLength_BoundaryInclusive(t *testing.T) {
	ctx := windowsContext([]string{`C:\allowed`}, nil)
	ctx.Config.Security.MaxCommandLength = 5
	if err := ValidateLength("12345", ctx); err != nil {
		t.Errorf("length == max should pass, got %v", err)
	}
	if err := ValidateLength("123456", ctx); err == nil {
		t.Error("length == max+1 should fail")
	}
}

func TestValidateWorkingDirectory_WindowsCaseInsensitive(t *testing.T) {
	ctx := windowsContext([]string{`C:\Users\test`}, nil)
	if err := ValidateWorkingDirectory(`c:\users\TEST`, ctx); err != nil {
		t.Errorf("expected case-insensitive match, got %v", err)
	}
}

func TestValidateWorkingDirectory_WslCaseSensitive(t *testing.T) {
	ctx := wslContext([]string{"/home/user"}, nil, nil)
	if err := ValidateWorkingDirectory("/HOME/user", ctx); err == nil {
		t.Error("expected case-sensitive rejection for WSL dialect")
	}
	if err := ValidateWorkingDirectory("/home/user", ctx); err != nil {
		t.Errorf("expected acceptance, got %v", err)
	}
}

func TestValidateWorkingDirectory_TrailingSlashDoesNotChangeMembership(t *testing.T) {
	ctx := windowsContext([]string{`C:\allowed\`}, nil)
	if err := ValidateWorkingDirectory(`C:\allowed`, ctx); err != nil {
		t.Errorf("trailing slash on allowed path should not affect membership: %v", err)
	}
}

func TestValidateWorkingDirectory_NoAllowedPathsConfigured(t *testing.T) {
	ctx := windowsContext(nil, nil)
	err := ValidateWorkingDirectory(`C:\anything`, ctx)
	if err == nil || !strings.Contains(err.Error(), "No allowed paths configured") {
		t.Errorf("expected 'No allowed paths configured', got %v", err)
	}
}

func TestValidateWorkingDirectory_WslRequiresAbsolutePath(t *testing.T) {
	ctx := wslContext([]string{"/tmp"}, nil, nil)
	err := ValidateWorkingDirectory("relative/dir", ctx)
	if err == nil || !strings.Contains(err.Error(), "absolute path") {
		t.Errorf("expected absolute-path error, got %v", err)
	}
}

func TestValidateWorkingDirectory_DisabledRestrictionAlwaysPasses(t *testing.T) {
	ctx := windowsContext(nil, nil)
	ctx.Config.Security.RestrictWorkingDirectory = false
	if err := ValidateWorkingDirectory("anything goes", ctx); err != nil {
		t.Errorf("expected pass when restriction disabled, got %v", err)
	}
}
