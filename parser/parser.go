package parser

import (
	"clue/internals"
	"clue/lexer"
	"fmt"
)

// Parser builds expressions out of a token sequence. It stops at the first
// error, which is both sent to the reporter and returned.
type Parser struct {
	*internals.Reporter

	tokens  lexer.Tokens
	current int
}

func NewParser(tokens lexer.Tokens, reporter *internals.Reporter) *Parser {
	return &Parser{
		Reporter: reporter,
		tokens:   tokens,
	}
}

// ParseExpression builds the expression held by tokens[start:end].
func ParseExpression(tokens lexer.Tokens, start, end int, reporter *internals.Reporter) (Expression, error) {
	return NewParser(tokens, reporter).ParseExpression(start, end)
}

// ParseCall builds the call of callee whose opening parenthesis is at
// tokens[cursor].
func ParseCall(tokens lexer.Tokens, callee Expression, cursor int, reporter *internals.Reporter) (*Call, error) {
	p := NewParser(tokens, reporter)
	p.current = cursor
	return p.buildCall(callee)
}

// Parse builds one expression out of every token before TokenEOF.
func (p *Parser) Parse() (Expression, error) {
	return p.ParseExpression(0, len(p.tokens)-1)
}

func (p *Parser) ParseExpression(start, end int) (Expression, error) {
	if end > len(p.tokens) {
		end = len(p.tokens)
	}
	if start < 0 {
		start = 0
	}
	return p.buildExpression(start, end)
}

func (p *Parser) ref(i int) lexer.TokenRef {
	return p.tokens.Ref(i)
}

func (p *Parser) advance() lexer.TokenRef {
	t := p.ref(p.current)
	p.current++
	return t
}

func (p *Parser) peek() lexer.TokenRef {
	return p.ref(p.current)
}

func (p *Parser) lookBack(n int) lexer.TokenRef {
	return p.ref(p.current - n - 1)
}

// line is the line of the last consumed token.
func (p *Parser) line() int {
	return p.ref(p.current - 1).Line()
}

func (p *Parser) fail(d *internals.Diagnostic) error {
	p.Send(d)
	return d
}

func (p *Parser) error(tok lexer.TokenRef, format string, args ...any) error {
	return p.fail(internals.NewError(fmt.Sprintf(format, args...), p.line(), tok.Column(), tok.Range(), ""))
}

func (p *Parser) unexpected(tok lexer.TokenRef) error {
	return p.error(tok, "Unexpected token '%s'.", tok.Lexeme())
}

func (p *Parser) expectedBefore(expected, before string, tok lexer.TokenRef) error {
	return p.fail(internals.NewExpectedBefore(expected, before, p.line(), tok.Column(), tok.Range(), ""))
}

// buildCall splits the argument list opened at p.current on the commas of
// its own nesting level. It leaves p.current past the closing parenthesis.
func (p *Parser) buildCall(callee Expression) (*Call, error) {
	args := make([]Expression, 0)
	start := p.current + 1
	depth := 0

	for {
		ended := false
	scan:
		for {
			t := p.advance()
			switch t.Kind() {
			case lexer.TokenRoundBracketOpen, lexer.TokenSafeCall:
				depth++
			case lexer.TokenRoundBracketClose:
				depth--
				if depth == 0 {
					ended = true
					p.current--
					break scan
				}
			case lexer.TokenComma:
				if depth > 1 {
					continue
				}
				p.current--
				break scan
			case lexer.TokenEOF:
				return nil, p.expectedBefore(")", "<eof>", t)
			}
		}

		if start == p.current {
			// only f() may have nothing between its parentheses
			if len(args) > 0 || !ended {
				return nil, p.error(p.peek(), "Invalid empty function argument found.")
			}
			break
		}

		arg, err := p.buildExpression(start, p.current)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if ended {
			break
		}
		p.current++
		start = p.current
	}

	// step over ')'
	p.current++
	return &Call{
		Callee: callee,
		Args:   args,
		Line:   p.line(),
	}, nil
}

// buildCalls builds the call opened at p.current and every call chained
// right after it, as in f(a)(b).
func (p *Parser) buildCalls(callee Expression, end int) (*Call, error) {
	call, err := p.buildCall(callee)
	if err != nil {
		return nil, err
	}
	for p.current < end && p.peek().Kind() == lexer.TokenRoundBracketOpen {
		call, err = p.buildCall(Expression{Tokens: []ComplexToken{call}, Line: callee.Line})
		if err != nil {
			return nil, err
		}
	}
	if p.current > end {
		return nil, p.expectedBefore(")", p.ref(end).Lexeme(), p.ref(end))
	}
	return call, nil
}

// valueEnds reports whether a value may stop here: at the end of the slice
// or right before an operator.
func (p *Parser) valueEnds(end int) bool {
	return p.current == end || p.peek().Kind().IsOperator()
}

func (p *Parser) buildExpression(start, end int) (Expression, error) {
	expr := Expression{
		Tokens: make([]ComplexToken, 0),
		Line:   p.ref(start).Line(),
	}
	p.current = start

	for p.current < end {
		t := p.advance()
		kind := t.Kind()

		switch {
		case kind == lexer.TokenIdentifier:
			value := Value{Literal: t.Lexeme(), Kind: kind, Line: p.line()}
			if p.current < end && p.peek().Kind() == lexer.TokenRoundBracketOpen {
				call, err := p.buildCalls(Expression{Tokens: []ComplexToken{value}, Line: value.Line}, end)
				if err != nil {
					return Expression{}, err
				}
				if !p.valueEnds(end) {
					return Expression{}, p.unexpected(p.peek())
				}
				expr.Tokens = append(expr.Tokens, call)
			} else if p.valueEnds(end) {
				expr.Tokens = append(expr.Tokens, value)
			} else {
				return Expression{}, p.unexpected(p.peek())
			}

		case kind == lexer.TokenRoundBracketOpen:
			p.current--
			call, err := p.buildCalls(Expression{Tokens: make([]ComplexToken, 0), Line: t.Line()}, end)
			if err != nil {
				return Expression{}, err
			}
			if !p.valueEnds(end) {
				return Expression{}, p.unexpected(p.peek())
			}
			expr.Tokens = append(expr.Tokens, call)

		case kind.IsArithmetic():
			if err := p.checkBoundaries(t, start, end); err != nil {
				return Expression{}, err
			}
			prev, next := p.lookBack(1).Kind(), p.peek().Kind()
			if isBoolean(prev) || isBoolean(next) {
				return Expression{}, p.error(t, "Operator '%s' cannot operate with booleans.", t.Lexeme())
			}
			if !isLeftOperand(prev) {
				return Expression{}, p.error(t, "Operator '%s' has invalid left hand token.", t.Lexeme())
			}
			if !isRightOperand(next) {
				return Expression{}, p.error(t, "Operator '%s' has invalid right hand token.", t.Lexeme())
			}
			expr.Tokens = append(expr.Tokens, Operator{Kind: kind, Line: p.line()})

		case kind.IsOperator():
			if err := p.checkBoundaries(t, start, end); err != nil {
				return Expression{}, err
			}
			expr.Tokens = append(expr.Tokens, Operator{Kind: kind, Line: p.line()})

		case isLiteral(kind):
			if !p.valueEnds(end) {
				return Expression{}, p.unexpected(p.peek())
			}
			expr.Tokens = append(expr.Tokens, Value{Literal: t.Lexeme(), Kind: kind, Line: p.line()})

		default:
			return Expression{}, p.unexpected(t)
		}
	}

	if len(expr.Tokens) == 0 {
		return Expression{}, p.unexpected(p.ref(end))
	}
	return expr, nil
}

// checkBoundaries rejects a binary operator that opens or closes the slice.
func (p *Parser) checkBoundaries(op lexer.TokenRef, start, end int) error {
	if p.current-1 == start {
		return p.error(op, "Operator '%s' not expected at the start of expression.", op.Lexeme())
	}
	if p.current == end {
		return p.error(op, "Operator '%s' not expected at the end of expression.", op.Lexeme())
	}
	return nil
}

func isLiteral(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenNumber, lexer.TokenString, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNil:
		return true
	}
	return false
}

func isBoolean(kind lexer.TokenKind) bool {
	return kind == lexer.TokenTrue || kind == lexer.TokenFalse
}

func isLeftOperand(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenNumber, lexer.TokenIdentifier, lexer.TokenString,
		lexer.TokenRoundBracketClose, lexer.TokenSquareBracketClose, lexer.TokenCurlyBracketClose:
		return true
	}
	return false
}

// the right hand side takes what the left one takes plus an opening bracket
func isRightOperand(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenRoundBracketOpen, lexer.TokenSquareBracketOpen, lexer.TokenCurlyBracketOpen:
		return true
	}
	return isLeftOperand(kind)
}
