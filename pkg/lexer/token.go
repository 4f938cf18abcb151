package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent // x, L1, loop
	TokenInt   // 42

	// Keywords
	TokenGoto   // goto
	TokenIf     // if
	TokenReturn // return

	// Operators
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenLt     // <
	TokenGt     // >
	TokenEq     // ==
	TokenAssign // =

	// Delimiters
	TokenSemicolon // ;
	TokenColon     // :
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenInt:       "INT",
	TokenGoto:      "goto",
	TokenIf:        "if",
	TokenReturn:    "return",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenEq:        "==",
	TokenAssign:    "=",
	TokenSemicolon: ";",
	TokenColon:     ":",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsOperator reports whether t is a binary operator usable in an AssignOp
func (t TokenType) IsOperator() bool {
	switch t {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenLt, TokenGt, TokenEq:
		return true
	}
	return false
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"goto":   TokenGoto,
	"if":     TokenIf,
	"return": TokenReturn,
}

// LookupIdent returns the keyword token type for ident, or TokenIdent
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
