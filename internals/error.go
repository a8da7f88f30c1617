package internals

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// This file handles the diagnostics shared by every compilation stage

var ErrCompilationFailed = errors.New("cannot continue compiling due to the previous error(s)")

const separator = "\n----------------------------------\n\n"

const (
	colorReset     = "\033[0m"
	colorBoldRed   = "\033[1;31m"
	colorBoldYel   = "\033[1;33m"
	colorBoldCyan  = "\033[1;36m"
	colorUnderline = "\033[4;31m"
)

var messageEscaper = strings.NewReplacer("\n", "<new line>", "\t", "<tab>")

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

func (s Severity) color() string {
	if s == SeverityWarning {
		return colorBoldYel
	}
	return colorBoldRed
}

// Span is a half-open byte range of the scanned text.
type Span struct {
	Start int
	End   int
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	Span     Span
	// empty when there is nothing to suggest
	Help string
}

func NewError(message string, line, column int, span Span, help string) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Message:  message,
		Line:     line,
		Column:   column,
		Span:     span,
		Help:     help,
	}
}

func NewWarning(message string, line, column int, span Span, help string) *Diagnostic {
	d := NewError(message, line, column, span, help)
	d.Severity = SeverityWarning
	return d
}

func NewExpected(expected, got string, line, column int, span Span, help string) *Diagnostic {
	return NewError(fmt.Sprintf("Expected '%s', got '%s'", expected, got), line, column, span, help)
}

func NewExpectedBefore(expected, before string, line, column int, span Span, help string) *Diagnostic {
	return NewError(fmt.Sprintf("Expected '%s' before '%s'", expected, before), line, column, span, help)
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%v at line %d, column %d: %s", d.Severity, d.Line, d.Column, d.Message)
}

// Messenger is the reporting capability every stage exposes. Stages get it
// by embedding a *Reporter.
type Messenger interface {
	Send(d *Diagnostic)
	Error(message string, line, column int, span Span, help string)
	Warning(message string, line, column int, span Span, help string)
	Expected(expected, got string, line, column int, span Span, help string)
	ExpectedBefore(expected, before string, line, column int, span Span, help string)
	Filename() string
	Errors() int
}

// Reporter renders diagnostics for a single run into out and keeps the
// error tally. It is not safe for concurrent use; give each run its own.
type Reporter struct {
	Colored     bool
	Diagnostics []*Diagnostic

	reader   CodeReader
	filename string
	out      io.Writer
	errors   int

	code    string
	codeErr error
	loaded  bool
}

var _ Messenger = (*Reporter)(nil)

func NewReporter(reader CodeReader, out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{
		reader:      reader,
		filename:    reader.Filename(),
		out:         out,
		Diagnostics: make([]*Diagnostic, 0),
	}
}

func (r *Reporter) Filename() string {
	return r.filename
}

func (r *Reporter) Errors() int {
	return r.errors
}

func (r *Reporter) Failed() bool {
	return r.errors > 0
}

// Finish reports the outcome of the run: nil if no error was sent.
func (r *Reporter) Finish() error {
	if r.errors == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d error(s) in %s", ErrCompilationFailed, r.errors, r.filename)
}

func (r *Reporter) Send(d *Diagnostic) {
	first := len(r.Diagnostics) == 0
	r.Diagnostics = append(r.Diagnostics, d)
	if d.Severity == SeverityError {
		r.errors++
	}

	code, err := r.source()
	fmt.Fprintln(r.out, Render(d, r.filename, code, err, first, r.Colored))
}

func (r *Reporter) Error(message string, line, column int, span Span, help string) {
	r.Send(NewError(message, line, column, span, help))
}

func (r *Reporter) Warning(message string, line, column int, span Span, help string) {
	r.Send(NewWarning(message, line, column, span, help))
}

func (r *Reporter) Expected(expected, got string, line, column int, span Span, help string) {
	r.Send(NewExpected(expected, got, line, column, span, help))
}

func (r *Reporter) ExpectedBefore(expected, before string, line, column int, span Span, help string) {
	r.Send(NewExpectedBefore(expected, before, line, column, span, help))
}

// the reader is asked only once per run
func (r *Reporter) source() (string, error) {
	if !r.loaded {
		r.code, r.codeErr = r.reader.Code()
		r.loaded = true
	}
	return r.code, r.codeErr
}

// Render formats d without a trailing newline. When codeErr is not nil the
// context line is left out.
func Render(d *Diagnostic, filename, code string, codeErr error, first, colored bool) string {
	kind := paint(d.Severity.String(), d.Severity.color(), colored)

	var b strings.Builder
	if !first {
		b.WriteString(separator)
	}
	fmt.Fprintf(&b, "%s in %s:%d:%d!", kind, filename, d.Line, d.Column)

	if codeErr == nil {
		start, end := clampSpan(d.Span, len(code))
		before := code[:start]
		if i := strings.LastIndexByte(before, '\n'); i >= 0 {
			before = before[i+1:]
		}
		after := code[end:]
		if i := strings.IndexByte(after, '\n'); i >= 0 {
			after = after[:i]
		}

		b.WriteString("\n\n")
		b.WriteString(strings.TrimLeftFunc(before, unicode.IsSpace))
		b.WriteString(paint(code[start:end], colorUnderline, colored))
		b.WriteString(strings.TrimRightFunc(after, unicode.IsSpace))
		b.WriteString("\n\n")
	} else {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s: %s", kind, messageEscaper.Replace(d.Message))
	if d.Help != "" {
		fmt.Fprintf(&b, "\n%s: %s", paint("Help", colorBoldCyan, colored), d.Help)
	}
	return b.String()
}

func clampSpan(span Span, size int) (int, int) {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if start > size {
		start = size
	}
	if end < start {
		end = start
	}
	if end > size {
		end = size
	}
	return start, end
}

func paint(text, color string, colored bool) string {
	if !colored || text == "" {
		return text
	}
	return color + text + colorReset
}
