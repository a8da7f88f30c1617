package internals

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestFirstDiagnosticHasNoSeparator(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(NewStringReader("local x = 1 + true\n"), &out)

	r.Error("Operator '+' cannot operate with booleans.", 1, 13, Span{Start: 12, End: 13}, "")

	want := "Error in <code>:1:13!\n\nlocal x = 1 + true\n\nError: Operator '+' cannot operate with booleans.\n"
	if diff := deep.Equal(out.String(), want); diff != nil {
		t.Error(diff)
	}
	if r.Errors() != 1 {
		t.Errorf("expected 1 error, got %d", r.Errors())
	}
}

func TestLaterDiagnosticsAreSeparated(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(NewStringReader("a = b\nc = d"), &out)

	r.Error("first", 1, 1, Span{Start: 0, End: 1}, "")
	out.Reset()
	r.Warning("second", 2, 5, Span{Start: 10, End: 11}, "try something else")

	want := "\n----------------------------------\n\n" +
		"Warning in <code>:2:5!\n\nc = d\n\nWarning: second\nHelp: try something else\n"
	if diff := deep.Equal(out.String(), want); diff != nil {
		t.Error(diff)
	}
	if r.Errors() != 1 {
		t.Errorf("warnings must not count as errors, got %d", r.Errors())
	}
	if len(r.Diagnostics) != 2 {
		t.Errorf("expected 2 collected diagnostics, got %d", len(r.Diagnostics))
	}
}

func TestContextIsTrimmedToTheLine(t *testing.T) {
	d := NewError("bad", 2, 7, Span{Start: 8, End: 11}, "")
	got := Render(d, "main.clue", "a\n  foo bar  \nz", nil, true, false)
	want := "Error in main.clue:2:7!\n\nfoo bar\n\nError: bad"
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestMessageControlCharactersAreEscaped(t *testing.T) {
	d := NewError("a\nb\tc", 1, 1, Span{}, "")
	got := Render(d, "<code>", "", nil, true, false)
	if !strings.HasSuffix(got, "Error: a<new line>b<tab>c") {
		t.Errorf("got %q", got)
	}
}

func TestUnreadableSourceSkipsContext(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.clue")
	r := NewReporter(NewFileReader(path), &out)

	r.Error("Unexpected character '@'", 1, 1, Span{Start: 0, End: 1}, "")

	want := "Error in " + path + ":1:1!\nError: Unexpected character '@'\n"
	if diff := deep.Equal(out.String(), want); diff != nil {
		t.Error(diff)
	}
}

func TestSpanIsClamped(t *testing.T) {
	d := NewError("end", 1, 4, Span{Start: 3, End: 40}, "")
	got := Render(d, "<code>", "abc", nil, true, false)
	want := "Error in <code>:1:4!\n\nabc\n\nError: end"
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestColoredRendering(t *testing.T) {
	d := NewWarning("careful", 1, 1, Span{Start: 0, End: 3}, "hint")
	got := Render(d, "<code>", "foo bar", nil, true, true)

	for _, part := range []string{
		colorBoldYel + "Warning" + colorReset + " in <code>:1:1!",
		colorUnderline + "foo" + colorReset + " bar",
		colorBoldCyan + "Help" + colorReset + ": hint",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("%q not found in %q", part, got)
		}
	}
}

func TestExpectedMessages(t *testing.T) {
	r := NewReporter(NewStringReader("f(a"), nil)
	r.Expected(")", "<end>", 1, 3, Span{Start: 2, End: 3}, "")
	r.ExpectedBefore(")", "<eof>", 1, 3, Span{Start: 3, End: 3}, "")

	got := []string{r.Diagnostics[0].Message, r.Diagnostics[1].Message}
	want := []string{"Expected ')', got '<end>'", "Expected ')' before '<eof>'"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestFinish(t *testing.T) {
	r := NewReporter(NewStringReader(""), nil)
	r.Warning("only a warning", 1, 1, Span{}, "")
	if err := r.Finish(); err != nil {
		t.Errorf("warnings must not fail the run: %v", err)
	}

	r.Error("now an error", 1, 1, Span{}, "")
	err := r.Finish()
	if !errors.Is(err, ErrCompilationFailed) {
		t.Errorf("expected ErrCompilationFailed, got %v", err)
	}
}

func TestDiagnosticIsAnError(t *testing.T) {
	var err error = NewError("Unexpected token 'b'.", 3, 4, Span{}, "")
	var d *Diagnostic
	if !errors.As(err, &d) || d.Line != 3 {
		t.Fatalf("expected a diagnostic, got %v", err)
	}
	if err.Error() != "Error at line 3, column 4: Unexpected token 'b'." {
		t.Errorf("got %q", err.Error())
	}
}

type countingReader struct {
	calls int
}

func (c *countingReader) Code() (string, error) {
	c.calls++
	return "x", nil
}

func (c *countingReader) Filename() string {
	return "counted"
}

func TestSourceIsReadOnce(t *testing.T) {
	reader := &countingReader{}
	r := NewReporter(reader, nil)
	for i := 0; i < 3; i++ {
		r.Error("again", 1, 1, Span{Start: 0, End: 1}, "")
	}
	if reader.calls != 1 {
		t.Errorf("expected one read, got %d", reader.calls)
	}
}

func TestFileReader(t *testing.T) {
	path := filepath.Join("..", "go.mod")
	code, err := NewFileReader(path).Code()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(code, "module clue") {
		t.Errorf("unexpected content %q", code)
	}
	if NewFileReader(path).Filename() != path {
		t.Errorf("display name should be the path")
	}
}
