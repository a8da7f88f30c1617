package lexer

type Operator = string

type KeywordClass int

const (
	// KeywordLua maps to a keyword of the target language
	KeywordLua KeywordClass = iota
	// KeywordClue maps to a keyword of this language only
	KeywordClue
	// KeywordReserved is a Lua keyword that has no meaning here
	KeywordReserved
	// KeywordFuture is kept free for later versions
	KeywordFuture
)

type Keyword struct {
	Class KeywordClass
	Kind  TokenKind
	// why the name cannot be used, for reserved and future names
	Message string
}

var (
	Keywords = map[string]Keyword{
		"and":      {Class: KeywordReserved, Message: "'and' operators in Clue are made with '&&'"},
		"not":      {Class: KeywordReserved, Message: "'not' operators in Clue are made with '!'"},
		"or":       {Class: KeywordReserved, Message: "'or' operators in Clue are made with '||'"},
		"do":       {Class: KeywordReserved, Message: "'do ... end' blocks in Clue are made like this: '{ ... }'"},
		"end":      {Class: KeywordReserved, Message: "code blocks in Clue are closed with '}'"},
		"function": {Class: KeywordReserved, Message: "functions in Clue are defined with the 'fn' keyword"},
		"repeat":   {Class: KeywordReserved, Message: "'repeat ... until x' loops in Clue are made like this: 'loop { ... } until x'"},
		"then":     {Class: KeywordReserved, Message: "code blocks in Clue are opened with '{'"},

		"if":     {Class: KeywordLua, Kind: TokenIf},
		"elseif": {Class: KeywordLua, Kind: TokenElseIf},
		"else":   {Class: KeywordLua, Kind: TokenElse},
		"for":    {Class: KeywordLua, Kind: TokenFor},
		"in":     {Class: KeywordLua, Kind: TokenIn},
		"while":  {Class: KeywordLua, Kind: TokenWhile},
		"until":  {Class: KeywordLua, Kind: TokenUntil},
		"local":  {Class: KeywordLua, Kind: TokenLocal},
		"return": {Class: KeywordLua, Kind: TokenReturn},
		"true":   {Class: KeywordLua, Kind: TokenTrue},
		"false":  {Class: KeywordLua, Kind: TokenFalse},
		"nil":    {Class: KeywordLua, Kind: TokenNil},
		"break":  {Class: KeywordLua, Kind: TokenBreak},

		"of":       {Class: KeywordClue, Kind: TokenOf},
		"with":     {Class: KeywordClue, Kind: TokenWith},
		"meta":     {Class: KeywordClue, Kind: TokenMeta},
		"global":   {Class: KeywordClue, Kind: TokenGlobal},
		"fn":       {Class: KeywordClue, Kind: TokenFn},
		"method":   {Class: KeywordClue, Kind: TokenMethod},
		"loop":     {Class: KeywordClue, Kind: TokenLoop},
		"static":   {Class: KeywordClue, Kind: TokenStatic},
		"enum":     {Class: KeywordClue, Kind: TokenEnum},
		"continue": {Class: KeywordClue, Kind: TokenContinue},
		"try":      {Class: KeywordClue, Kind: TokenTry},
		"catch":    {Class: KeywordClue, Kind: TokenCatch},
		"match":    {Class: KeywordClue, Kind: TokenMatch},
		"default":  {Class: KeywordClue, Kind: TokenDefault},

		"constructor": {Class: KeywordFuture, Message: "'constructor' is reserved for Clue 4.0 and cannot be used"},
		"struct":      {Class: KeywordFuture, Message: "'struct' is reserved for Clue 4.0 and cannot be used"},
		"extern":      {Class: KeywordFuture, Message: "'extern' is reserved for Clue 4.0 and cannot be used"},
	}

	// operators with full operand validation in expressions
	ArithmeticOperators = map[TokenKind]Operator{
		TokenPlus:          "+",
		TokenMinus:         "-",
		TokenStar:          "*",
		TokenSlash:         "/",
		TokenFloorDivision: "/_",
		TokenPercentual:    "%",
		TokenCaret:         "^",
		TokenTwoDots:       "..",
	}

	BinOperators = map[TokenKind]Operator{
		TokenPlus:          "+",
		TokenMinus:         "-",
		TokenStar:          "*",
		TokenSlash:         "/",
		TokenFloorDivision: "/_",
		TokenPercentual:    "%",
		TokenCaret:         "^",
		TokenTwoDots:       "..",
		TokenAnd:           "&&",
		TokenOr:            "||",
		TokenCoalesce:      "??",
		TokenBitAnd:        "&",
		TokenBitOr:         "|",
		TokenBitXor:        "^^",
		TokenLeftShift:     "<<",
		TokenRightShift:    ">>",
		TokenBigger:        ">",
		TokenBiggerEqual:   ">=",
		TokenSmaller:       "<",
		TokenSmallerEqual:  "<=",
		TokenEqual:         "==",
		TokenNotEqual:      "!=",
	}

	UnaryOperators = map[TokenKind]Operator{
		TokenNot:     "!",
		TokenMinus:   "-",
		TokenBitNot:  "~",
		TokenHashtag: "#",
	}
)

func (k TokenKind) IsOperator() bool {
	_, ok := BinOperators[k]
	return ok
}

func (k TokenKind) IsArithmetic() bool {
	_, ok := ArithmeticOperators[k]
	return ok
}

// symbol is one node of the operator trie. Exactly one of the three shapes
// is used: a fixed kind, a nested table with kind as its default, or a scan
// function that reports whether it produced a token.
type symbol struct {
	kind TokenKind
	next *symbolMap
	scan func(l *Lexer) bool
}

// symbolMap is indexed by printable ASCII, '!' to '~'.
type symbolMap [94]*symbol

type symbolEntry struct {
	char byte
	sym  *symbol
}

func (m *symbolMap) lookup(c rune) *symbol {
	i := int(c) - '!'
	if i < 0 || i >= len(m) {
		return nil
	}
	return m[i]
}

func newSymbolMap(entries ...symbolEntry) *symbolMap {
	var m symbolMap
	for _, e := range entries {
		m[e.char-'!'] = e.sym
	}
	return &m
}

func on(char byte, sym *symbol) symbolEntry {
	return symbolEntry{char: char, sym: sym}
}

func just(kind TokenKind) *symbol {
	return &symbol{kind: kind}
}

func nested(fallback TokenKind, entries ...symbolEntry) *symbol {
	return &symbol{kind: fallback, next: newSymbolMap(entries...)}
}

func function(scan func(l *Lexer) bool) *symbol {
	return &symbol{scan: scan}
}

var symbols = newSymbolMap(
	on('(', just(TokenRoundBracketOpen)),
	on(')', just(TokenRoundBracketClose)),
	on('[', just(TokenSquareBracketOpen)),
	on(']', just(TokenSquareBracketClose)),
	on('{', just(TokenCurlyBracketOpen)),
	on('}', just(TokenCurlyBracketClose)),
	on(',', just(TokenComma)),
	on('.', nested(TokenDot,
		on('.', nested(TokenTwoDots,
			on('.', just(TokenThreeDots)),
			on('=', just(TokenConcatenate)),
		)),
	)),
	on(';', just(TokenSemicolon)),
	on('+', nested(TokenPlus, on('=', just(TokenIncrease)))),
	on('-', nested(TokenMinus, on('=', just(TokenDecrease)))),
	on('*', nested(TokenStar, on('=', just(TokenMultiply)))),
	on('^', nested(TokenCaret,
		on('=', just(TokenExponentiate)),
		on('^', just(TokenBitXor)),
	)),
	on('#', just(TokenHashtag)),
	on('/', nested(TokenSlash,
		on('=', just(TokenDivide)),
		on('_', just(TokenFloorDivision)),
	)),
	on('%', nested(TokenPercentual, on('=', just(TokenModulate)))),
	on('!', nested(TokenNot, on('=', just(TokenNotEqual)))),
	on('~', just(TokenBitNot)),
	on('=', nested(TokenDefine,
		on('=', just(TokenEqual)),
		on('>', just(TokenArrow)),
	)),
	on('<', nested(TokenSmaller,
		on('=', just(TokenSmallerEqual)),
		on('<', just(TokenLeftShift)),
	)),
	on('>', nested(TokenBigger,
		on('=', just(TokenBiggerEqual)),
		on('>', just(TokenRightShift)),
	)),
	on('?', nested(TokenQuestionMark,
		on('.', just(TokenSafeDot)),
		on(':', function(func(l *Lexer) bool {
			if !l.match(':') {
				return false
			}
			l.addToken(TokenSafeDoubleColon)
			return true
		})),
		on('[', just(TokenSafeSquareBracket)),
		on('?', nested(TokenCoalesce, on('=', just(TokenDefineCoalesce)))),
		on('(', just(TokenSafeCall)),
	)),
	on('&', nested(TokenBitAnd,
		on('&', nested(TokenAnd, on('=', just(TokenDefineAnd)))),
	)),
	on(':', nested(TokenColon, on(':', just(TokenDoubleColon)))),
	on('|', nested(TokenBitOr,
		on('|', nested(TokenOr, on('=', just(TokenDefineOr)))),
	)),
	on('"', function(func(l *Lexer) bool {
		l.readString('"')
		return true
	})),
	on('\'', function(func(l *Lexer) bool {
		l.readString('\'')
		return true
	})),
	on('`', function(func(l *Lexer) bool {
		l.readRawString()
		return true
	})),
)
