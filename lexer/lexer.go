package lexer

import (
	"clue/internals"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// char is one decoded character and the position it starts at.
type char struct {
	r   rune
	pos Position
	// set on the sentinel past the last character
	end bool
}

type Lexer struct {
	*internals.Reporter

	text string
	// position of the next character to decode
	offs int
	line int
	col  int

	// decoded characters, Lexer.start and Lexer.cur index into it
	read  []char
	start int
	cur   int

	tokens Tokens
	// kind of the last emitted token, for member names that look like keywords
	last TokenKind
}

// Scan tokenizes text, sending diagnostics to out.
func Scan(text string, reader internals.CodeReader, out io.Writer) (Tokens, error) {
	return NewLexer(text, internals.NewReporter(reader, out)).Tokenize()
}

func NewLexer(text string, reporter *internals.Reporter) *Lexer {
	l := &Lexer{
		Reporter: reporter,
		text:     text,
		line:     1,
		col:      1,
		read:     make([]char, 0, len(text)+1),
		tokens:   make(Tokens, 0),
		last:     TokenEOF,
	}
	// keep two characters ahead
	l.at(1)
	return l
}

// Tokenize scans the whole text. Every error is reported before it returns;
// the tokens are only returned when there was none.
func (l *Lexer) Tokenize() (Tokens, error) {
	for !l.atEnd() && l.peek(0) != 0 {
		l.start = l.cur
		c := l.advance()
		if l.scanChar(symbols, c) {
			continue
		}
		switch {
		case unicode.IsSpace(c):
		case isDigit(c):
			l.readNumberLiteral(c)
		case isLetter(c):
			l.readIdentifier()
		default:
			l.error(fmt.Sprintf("Unexpected character '%c'", c), "")
		}
	}

	end := l.at(l.cur).pos
	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Lexeme: "<end>",
		Start:  end,
		End:    end,
	})

	if err := l.Finish(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// at decodes up to i and returns the character there.
func (l *Lexer) at(i int) char {
	for len(l.read) <= i {
		l.decode()
	}
	return l.read[i]
}

func (l *Lexer) decode() {
	pos := Position{Line: l.line, Column: l.col, Index: l.offs}
	if l.offs >= len(l.text) {
		l.read = append(l.read, char{pos: pos, end: true})
		return
	}

	r, width := utf8.DecodeRuneInString(l.text[l.offs:])
	l.offs += width
	l.read = append(l.read, char{r: r, pos: pos})

	switch {
	case r == '\n':
		l.line++
		l.col = 1
	case r == '\r' && (l.offs >= len(l.text) || l.text[l.offs] != '\n'):
		// a lone carriage return ends the line too
		l.line++
		l.col = 1
	default:
		l.col++
	}
}

func (l *Lexer) atEnd() bool {
	return l.at(l.cur).end
}

// advance consumes the current character. At the end it stays in place and
// returns 0.
func (l *Lexer) advance() rune {
	c := l.at(l.cur)
	if !c.end {
		l.cur++
	}
	l.at(l.cur + 1)
	return c.r
}

func (l *Lexer) peek(n int) rune {
	return l.at(l.cur + n).r
}

func (l *Lexer) match(expected rune) bool {
	if l.atEnd() || l.peek(0) != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) lexeme() string {
	return l.text[l.at(l.start).pos.Index:l.at(l.cur).pos.Index]
}

func (l *Lexer) addLiteralToken(kind TokenKind, literal string) {
	l.last = kind
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: literal,
		Start:  l.at(l.start).pos,
		End:    l.at(l.cur).pos,
	})
}

func (l *Lexer) addToken(kind TokenKind) {
	l.addLiteralToken(kind, l.lexeme())
}

// error reports on the text scanned since the token start. The line is the
// one of the last consumed character, the column the token's first.
func (l *Lexer) error(message, help string) {
	start := l.at(l.start).pos
	line := start.Line
	if l.cur > l.start {
		line = l.at(l.cur - 1).pos.Line
	}
	span := internals.Span{Start: start.Index, End: l.at(l.cur).pos.Index}
	l.Error(message, line, start.Column, span, help)
}

// scanChar resolves c, already consumed, against table. It reports false
// when table has no entry for c.
func (l *Lexer) scanChar(table *symbolMap, c rune) bool {
	sym := table.lookup(c)
	if sym == nil {
		return false
	}
	switch {
	case sym.scan != nil:
		return sym.scan(l)
	case sym.next != nil:
		if !l.scanNested(sym.next) {
			l.addToken(sym.kind)
		}
	default:
		l.addToken(sym.kind)
	}
	return true
}

// scanNested tries to extend the current symbol by one character, giving
// the character back when nothing in table matches.
func (l *Lexer) scanNested(table *symbolMap) bool {
	if l.atEnd() || table.lookup(l.peek(0)) == nil {
		return false
	}
	mark := l.cur
	if l.scanChar(table, l.advance()) {
		return true
	}
	l.cur = mark
	return false
}

func (l *Lexer) readNumberLiteral(first rune) {
	if first == '0' {
		switch l.peek(0) {
		case 'x', 'X':
			l.advance()
			l.readNumber(isHexDigit, false)
			return
		case 'b', 'B':
			l.advance()
			l.readNumber(isBinaryDigit, false)
			return
		}
	}
	l.readNumber(isDigit, true)
}

// readNumber reads the digits accepted by check. decimal enables the
// fraction and the exponent.
func (l *Lexer) readNumber(check func(rune) bool, decimal bool) {
	start := l.cur
	for check(l.peek(0)) {
		l.advance()
	}

	if decimal {
		if l.peek(0) == '.' && isDigit(l.peek(1)) {
			l.advance()
			for isDigit(l.peek(0)) {
				l.advance()
			}
		}
		if c := l.peek(0); c == 'e' || c == 'E' {
			if next := l.peek(1); !isDigit(next) {
				if (next == '-' || next == '+') && isDigit(l.peek(2)) {
					l.advance()
				} else {
					l.error("Malformed number", "")
				}
			}
			l.advance()
			for isDigit(l.peek(0)) {
				l.advance()
			}
		}
	} else if l.cur == start {
		l.error("Malformed number", "")
	}

	switch {
	case l.peek(0) == 'L' && l.peek(1) == 'L':
		l.advance()
		l.advance()
	case l.peek(0) == 'U' && l.peek(1) == 'L':
		if l.peek(2) == 'L' {
			l.advance()
			l.advance()
			l.advance()
		} else {
			l.error("Malformed number", "")
		}
	}

	l.addToken(TokenNumber)
}

// readStringContents stops before the closing delimiter. A backslash
// escapes whatever follows it, line breaks included.
func (l *Lexer) readStringContents(delimiter rune) bool {
	for !l.atEnd() && l.peek(0) != delimiter {
		if l.advance() == '\\' {
			l.advance()
		}
	}
	if l.atEnd() {
		l.error("Unterminated string", "")
		return false
	}
	return true
}

func (l *Lexer) readString(delimiter rune) {
	if !l.readStringContents(delimiter) {
		return
	}
	l.advance()
	literal := strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '\t':
			return -1
		}
		return r
	}, l.lexeme())
	l.addLiteralToken(TokenString, literal)
}

// readRawString turns a backtick string into a Lua long bracket string.
func (l *Lexer) readRawString() {
	if !l.readStringContents('`') {
		return
	}
	l.advance()
	raw := l.text[l.at(l.start+1).pos.Index:l.at(l.cur-1).pos.Index]
	equals := strings.Repeat("=", longBracketLevel(raw))
	l.addLiteralToken(TokenString, "["+equals+"["+strings.ReplaceAll(raw, "\\`", "`")+"]"+equals+"]")
}

// longBracketLevel is the lowest level whose closing bracket neither
// appears in s nor merges with a trailing ']' of s.
func longBracketLevel(s string) int {
	level := 0
	must := strings.HasSuffix(s, "]")
	for must || strings.Contains(s, "]"+strings.Repeat("=", level)+"]") {
		level++
		must = false
	}
	return level
}

func (l *Lexer) readIdentifier() {
	for isAlphanumeric(l.peek(0)) {
		l.advance()
	}
	ident := l.lexeme()

	kind := TokenIdentifier
	if keyword, ok := Keywords[ident]; ok {
		switch {
		case keyword.Class == KeywordLua:
			kind = keyword.Kind
		case keyword.Class == KeywordReserved:
			l.error(fmt.Sprintf("'%s' is a reserved keyword in Lua and it cannot be used as a variable", ident), keyword.Message)
		case l.last.IsMemberAccess():
			// member names may look like keywords
		case keyword.Class == KeywordClue:
			kind = keyword.Kind
		case keyword.Class == KeywordFuture:
			l.error(keyword.Message, "")
		}
	}
	l.addToken(kind)
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isAlphanumeric(c rune) bool {
	return isLetter(c) || isDigit(c)
}

func isHexDigit(c rune) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isBinaryDigit(c rune) bool {
	return c == '0' || c == '1'
}
