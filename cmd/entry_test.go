package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	env := &Env{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	code := Run(env, args)
	return code, stdout.String(), stderr.String()
}

func TestTokensCommand(t *testing.T) {
	code, stdout, stderr := run("tokens", "-e", "a + 1")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	want := strings.Join([]string{
		`identifier "a" 1:1`,
		`+ "+" 1:3`,
		`number "1" 1:5`,
		`end of file "<end>" 1:6`,
	}, "\n") + "\n"
	if diff := deep.Equal(stdout, want); diff != nil {
		t.Error(diff)
	}
}

func TestTokensAsJSON(t *testing.T) {
	code, stdout, _ := run("tokens", "-json", "-e", "x")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for _, part := range []string{`"kind": "identifier"`, `"lexeme": "x"`, `"kind": "end of file"`} {
		if !strings.Contains(stdout, part) {
			t.Errorf("%s not found in %s", part, stdout)
		}
	}
}

func TestParseCommand(t *testing.T) {
	code, stdout, _ := run("parse", "-e", "f(a,(b,c),d)")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if diff := deep.Equal(stdout, "f(a, (b, c), d)\n"); diff != nil {
		t.Error(diff)
	}
}

func TestCompileErrorsExitWithOne(t *testing.T) {
	tests := []struct {
		args    []string
		message string
	}{
		{[]string{"parse", "-e", "f(a,)"}, "Error: Invalid empty function argument found."},
		{[]string{"tokens", "-e", "a @"}, "Error: Unexpected character '@'"},
		{[]string{"parse", "-e", "x.end"}, "Help: code blocks in Clue are closed with '}'"},
	}

	for _, tt := range tests {
		code, stdout, stderr := run(tt.args...)
		if code != 1 {
			t.Errorf("%v: expected exit code 1, got %d", tt.args, code)
		}
		if stdout != "" {
			t.Errorf("%v: nothing should be printed on stdout, got %q", tt.args, stdout)
		}
		if !strings.Contains(stderr, tt.message) {
			t.Errorf("%v: %q not found in %q", tt.args, tt.message, stderr)
		}
		if strings.Contains(stderr, "ERROR:") {
			t.Errorf("%v: diagnostics must not be reported twice", tt.args)
		}
	}
}

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.clue")
	code, _, stderr := run("tokens", "-f", path)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(stderr, "ERROR: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"compile"},
		{"tokens"},
		{"tokens", "-e", "a", "-f", "a.clue"},
		{"parse", "-unknown"},
		{"help", "compile"},
	}

	for _, args := range tests {
		if code, _, _ := run(args...); code != 2 {
			t.Errorf("%v: expected exit code 2, got %d", args, code)
		}
	}
}

func TestHelp(t *testing.T) {
	code, stdout, _ := run("help")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for name := range commands {
		if !strings.Contains(stdout, name) {
			t.Errorf("command %s missing from help", name)
		}
	}

	_, stdout, _ = run("help", "repl")
	if !strings.Contains(stdout, "(No flags available)") {
		t.Errorf("unexpected help output %q", stdout)
	}
}

func TestReplCommandReadsStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := &Env{
		Stdin:  strings.NewReader("f(x)\n"),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	if code := Run(env, []string{"repl"}); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "f(x)\n") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}
