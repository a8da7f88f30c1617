package repl

import (
	"bufio"
	"clue/internals"
	"clue/lexer"
	"clue/parser"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	PROMPT       = `>>> `
	PROMPT_CONT  = `... `
	HISTORY_FILE = ".clue_history"
)

// Start reads one expression per line and prints its parsed form, or the
// diagnostics that stopped it.
func Start(in io.Reader, out io.Writer, colored bool) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, PROMPT)
		scanned := scanner.Scan()
		if !scanned {
			return
		}
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		eval(line, out, colored)
	}
}

// StartInteractive is Start on the terminal, with line editing and a
// history kept in the home directory. An unclosed call continues on the
// next line.
func StartInteractive(out io.Writer, colored bool) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readExpression(ln)
		if !ok {
			fmt.Fprintln(out)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		eval(code, out, colored)
	}

	f, err := os.Create(histPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = ln.WriteHistory(f)
	return err
}

// readExpression keeps prompting while the text read so far only lacks
// closing parentheses. ok is false once the input is closed.
func readExpression(ln *liner.State) (code string, ok bool) {
	var b strings.Builder
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = PROMPT_CONT
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ctrl+c drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !Incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// Incomplete reports whether code only fails because a call is still open
// when the input ends.
func Incomplete(code string) bool {
	reporter := internals.NewReporter(internals.NewStringReader(code), nil)
	tokens, err := lexer.NewLexer(code, reporter).Tokenize()
	if err != nil {
		return false
	}
	_, err = parser.NewParser(tokens, reporter).Parse()
	var d *internals.Diagnostic
	if !errors.As(err, &d) {
		return false
	}
	return d.Message == internals.NewExpectedBefore(")", "<eof>", 0, 0, internals.Span{}, "").Message
}

func eval(code string, out io.Writer, colored bool) {
	reporter := internals.NewReporter(internals.NewStringReader(code), out)
	reporter.Colored = colored

	tokens, err := lexer.NewLexer(code, reporter).Tokenize()
	if err != nil {
		return
	}
	expr, err := parser.NewParser(tokens, reporter).Parse()
	if err != nil {
		return
	}
	io.WriteString(out, expr.String())
	io.WriteString(out, "\n")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return HISTORY_FILE
	}
	return filepath.Join(home, HISTORY_FILE)
}
