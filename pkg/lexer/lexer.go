// Package lexer tokenizes jump-language source text.
package lexer

import (
	"strings"
	"unicode"
)

// Lexer scans jump-language source one token at a time. Positions are
// 1-based; Column counts bytes from the start of the line.
type Lexer struct {
	src       string
	off       int
	line      int
	lineStart int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	return &Lexer{src: input, line: 1}
}

// single-byte tokens; '=' is handled separately because of "=="
var punct = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'<': TokenLt,
	'>': TokenGt,
	';': TokenSemicolon,
	':': TokenColon,
}

// NextToken returns the next token from the input. Once the input is
// exhausted it keeps returning TokenEOF.
func (l *Lexer) NextToken() Token {
	if bad, ok := l.skipBlank(); !ok {
		return bad
	}

	tok := Token{Line: l.line, Column: l.off - l.lineStart + 1}
	if l.off >= len(l.src) {
		tok.Type = TokenEOF
		return tok
	}

	start := l.off
	ch := l.src[l.off]
	switch {
	case isLetter(ch):
		l.advanceWhile(func(c byte) bool { return isLetter(c) || isDigit(c) })
		tok.Literal = l.src[start:l.off]
		tok.Type = LookupIdent(tok.Literal)
	case isDigit(ch):
		l.advanceWhile(isDigit)
		tok.Type = TokenInt
		tok.Literal = l.src[start:l.off]
	case ch == '=':
		tok.Type = TokenAssign
		l.off++
		if l.at(0) == '=' {
			tok.Type = TokenEq
			l.off++
		}
		tok.Literal = l.src[start:l.off]
	default:
		tok.Type = TokenIllegal
		if t, ok := punct[ch]; ok {
			tok.Type = t
		}
		l.off++
		tok.Literal = l.src[start:l.off]
	}
	return tok
}

// at returns the byte k positions ahead, or 0 past the end.
func (l *Lexer) at(k int) byte {
	if l.off+k >= len(l.src) {
		return 0
	}
	return l.src[l.off+k]
}

func (l *Lexer) advanceWhile(pred func(byte) bool) {
	for l.off < len(l.src) && pred(l.src[l.off]) {
		l.off++
	}
}

func (l *Lexer) newline() {
	l.line++
	l.lineStart = l.off
}

// skipBlank consumes whitespace and comments. An unterminated block
// comment yields an ILLEGAL token positioned at its opening.
func (l *Lexer) skipBlank() (Token, bool) {
	for l.off < len(l.src) {
		switch ch := l.src[l.off]; {
		case ch == '\n':
			l.off++
			l.newline()
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.off++
		case ch == '/' && l.at(1) == '/':
			if i := strings.IndexByte(l.src[l.off:], '\n'); i >= 0 {
				l.off += i
			} else {
				l.off = len(l.src)
			}
		case ch == '/' && l.at(1) == '*':
			open := Token{Type: TokenIllegal, Literal: "/*", Line: l.line, Column: l.off - l.lineStart + 1}
			end := strings.Index(l.src[l.off+2:], "*/")
			if end < 0 {
				l.off = len(l.src)
				return open, false
			}
			stop := l.off + 2 + end + 2
			for i := l.off; i < stop; i++ {
				if l.src[i] == '\n' {
					l.line++
					l.lineStart = i + 1
				}
			}
			l.off = stop
		default:
			return Token{}, true
		}
	}
	return Token{}, true
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
