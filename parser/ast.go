package parser

import (
	"clue/lexer"
	"strings"
)

// ComplexToken is one element of a flat, not yet precedence resolved,
// expression: a Value, an Operator or a Call.
type ComplexToken interface {
	complexToken()
	String() string
}

type Value struct {
	Literal string
	Kind    lexer.TokenKind
	Line    int
}

type Operator struct {
	Kind lexer.TokenKind
	Line int
}

// Call is an invocation. A parenthesized group is a Call with an empty
// Callee.
type Call struct {
	Callee Expression
	Args   []Expression
	Line   int
}

// Expression is the run of operands and operators between two argument
// separators.
type Expression struct {
	Tokens []ComplexToken
	Line   int
}

func (Value) complexToken()    {}
func (Operator) complexToken() {}
func (*Call) complexToken()    {}

func (v Value) String() string {
	return v.Literal
}

func (o Operator) String() string {
	return o.Kind.String()
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func (e Expression) String() string {
	parts := make([]string, len(e.Tokens))
	for i, tok := range e.Tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether e holds no token, as the callee of a group does.
func (e Expression) IsEmpty() bool {
	return len(e.Tokens) == 0
}
