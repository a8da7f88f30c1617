package lexer

import (
	"clue/internals"
	"fmt"
)

type TokenKind int

// The safe kinds must stay exactly safeOffset above their normal kind:
// TokenSafeCall, TokenSafeSquareBracket, TokenSafeDot, TokenSafeDoubleColon.
const safeOffset = 6

const (
	// Symbols
	TokenRoundBracketOpen TokenKind = iota
	TokenRoundBracketClose
	TokenSquareBracketOpen
	TokenSquareBracketClose
	TokenCurlyBracketOpen
	TokenCurlyBracketClose
	TokenSafeCall // ?(
	TokenComma
	TokenSafeSquareBracket // ?[
	TokenSemicolon
	TokenQuestionMark
	TokenNot
	TokenAnd
	TokenOr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenFloorDivision
	TokenPercentual
	TokenCaret
	TokenHashtag
	TokenCoalesce
	TokenDot
	TokenDoubleColon
	TokenTwoDots
	TokenColon
	TokenThreeDots
	TokenArrow
	TokenSafeDot         // ?.
	TokenSafeDoubleColon // ?::
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenLeftShift
	TokenRightShift

	// Definition and comparison
	TokenDefine
	TokenDefineAnd
	TokenDefineOr
	TokenIncrease
	TokenDecrease
	TokenMultiply
	TokenDivide
	TokenDefineCoalesce
	TokenExponentiate
	TokenConcatenate
	TokenModulate
	TokenBigger
	TokenBiggerEqual
	TokenSmaller
	TokenSmallerEqual
	TokenEqual
	TokenNotEqual

	// Literals
	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenIf
	TokenElseIf
	TokenElse
	TokenFor
	TokenOf
	TokenIn
	TokenWith
	TokenWhile
	TokenMeta
	TokenGlobal
	TokenUntil
	TokenLocal
	TokenFn
	TokenMethod
	TokenReturn
	TokenTrue
	TokenFalse
	TokenNil
	TokenLoop
	TokenStatic
	TokenEnum
	TokenContinue
	TokenBreak
	TokenTry
	TokenCatch
	TokenMatch
	TokenDefault
	TokenStruct
	TokenExtern
	TokenConstructor

	TokenEOF

	tokenKindCount
)

var tokenNames = [tokenKindCount]string{
	TokenRoundBracketOpen:   "(",
	TokenRoundBracketClose:  ")",
	TokenSquareBracketOpen:  "[",
	TokenSquareBracketClose: "]",
	TokenCurlyBracketOpen:   "{",
	TokenCurlyBracketClose:  "}",
	TokenSafeCall:           "?(",
	TokenComma:              ",",
	TokenSafeSquareBracket:  "?[",
	TokenSemicolon:          ";",
	TokenQuestionMark:       "?",
	TokenNot:                "!",
	TokenAnd:                "&&",
	TokenOr:                 "||",
	TokenPlus:               "+",
	TokenMinus:              "-",
	TokenStar:               "*",
	TokenSlash:              "/",
	TokenFloorDivision:      "/_",
	TokenPercentual:         "%",
	TokenCaret:              "^",
	TokenHashtag:            "#",
	TokenCoalesce:           "??",
	TokenDot:                ".",
	TokenDoubleColon:        "::",
	TokenTwoDots:            "..",
	TokenColon:              ":",
	TokenThreeDots:          "...",
	TokenArrow:              "=>",
	TokenSafeDot:            "?.",
	TokenSafeDoubleColon:    "?::",
	TokenBitAnd:             "&",
	TokenBitOr:              "|",
	TokenBitXor:             "^^",
	TokenBitNot:             "~",
	TokenLeftShift:          "<<",
	TokenRightShift:         ">>",

	TokenDefine:         "=",
	TokenDefineAnd:      "&&=",
	TokenDefineOr:       "||=",
	TokenIncrease:       "+=",
	TokenDecrease:       "-=",
	TokenMultiply:       "*=",
	TokenDivide:         "/=",
	TokenDefineCoalesce: "??=",
	TokenExponentiate:   "^=",
	TokenConcatenate:    "..=",
	TokenModulate:       "%=",
	TokenBigger:         ">",
	TokenBiggerEqual:    ">=",
	TokenSmaller:        "<",
	TokenSmallerEqual:   "<=",
	TokenEqual:          "==",
	TokenNotEqual:       "!=",

	TokenIdentifier: "identifier",
	TokenNumber:     "number",
	TokenString:     "string",

	TokenIf:          "if",
	TokenElseIf:      "elseif",
	TokenElse:        "else",
	TokenFor:         "for",
	TokenOf:          "of",
	TokenIn:          "in",
	TokenWith:        "with",
	TokenWhile:       "while",
	TokenMeta:        "meta",
	TokenGlobal:      "global",
	TokenUntil:       "until",
	TokenLocal:       "local",
	TokenFn:          "fn",
	TokenMethod:      "method",
	TokenReturn:      "return",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenNil:         "nil",
	TokenLoop:        "loop",
	TokenStatic:      "static",
	TokenEnum:        "enum",
	TokenContinue:    "continue",
	TokenBreak:       "break",
	TokenTry:         "try",
	TokenCatch:       "catch",
	TokenMatch:       "match",
	TokenDefault:     "default",
	TokenStruct:      "struct",
	TokenExtern:      "extern",
	TokenConstructor: "constructor",

	TokenEOF: "end of file",
}

func (k TokenKind) String() string {
	if k < 0 || k >= tokenKindCount {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokenNames[k]
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsSafe reports whether k is one of the null propagating kinds.
func (k TokenKind) IsSafe() bool {
	switch k {
	case TokenSafeCall, TokenSafeSquareBracket, TokenSafeDot, TokenSafeDoubleColon:
		return true
	}
	return false
}

// Safe returns the null propagating counterpart of k, or k itself when it
// has none.
func (k TokenKind) Safe() TokenKind {
	switch k {
	case TokenRoundBracketOpen, TokenSquareBracketOpen, TokenDot, TokenDoubleColon:
		return k + safeOffset
	}
	return k
}

func (k TokenKind) Unsafe() TokenKind {
	if k.IsSafe() {
		return k - safeOffset
	}
	return k
}

// IsMemberAccess reports whether an identifier following k names a member.
func (k TokenKind) IsMemberAccess() bool {
	return k.Unsafe() == TokenDot || k.Unsafe() == TokenDoubleColon
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Index  int `json:"index"`
}

type Token struct {
	Kind   TokenKind `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Start  Position  `json:"start"`
	End    Position  `json:"end"`
}

func (t Token) Range() internals.Span {
	return internals.Span{Start: t.Start.Index, End: t.End.Index}
}

// Line and Column locate the end of the token.
func (t Token) Line() int {
	return t.End.Line
}

func (t Token) Column() int {
	return t.End.Column
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q %d:%d", t.Kind, t.Lexeme, t.Start.Line, t.Start.Column)
}

// Tokens is the sequence produced by a scan, always terminated by TokenEOF.
type Tokens []Token

// At clamps i to the last token, so reading past the end yields TokenEOF.
func (ts Tokens) At(i int) Token {
	if len(ts) == 0 {
		return Token{Kind: TokenEOF, Lexeme: "<end>"}
	}
	if i >= len(ts) {
		i = len(ts) - 1
	}
	if i < 0 {
		i = 0
	}
	return ts[i]
}

func (ts Tokens) Ref(i int) TokenRef {
	return TokenRef{tokens: ts, index: i}
}

// TokenRef is a read only view of one token of a sequence.
type TokenRef struct {
	tokens Tokens
	index  int
}

func (r TokenRef) Index() int {
	return r.index
}

func (r TokenRef) Token() Token {
	return r.tokens.At(r.index)
}

func (r TokenRef) Kind() TokenKind {
	return r.Token().Kind
}

func (r TokenRef) Lexeme() string {
	return r.Token().Lexeme
}

func (r TokenRef) Range() internals.Span {
	return r.Token().Range()
}

func (r TokenRef) Line() int {
	return r.Token().Line()
}

func (r TokenRef) Column() int {
	return r.Token().Column()
}
