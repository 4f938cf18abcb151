// Package parser implements a recursive descent parser for the jump language
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/ralph-jump/pkg/ast"
	"github.com/raymyers/ralph-jump/pkg/lexer"
)

// Parser parses jump-language source code into a flat statement sequence
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// ParseString parses src and joins any parse errors into a single error.
func ParseString(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return nil, errors.New(strings.Join(p.Errors(), "\n"))
	}
	return prog, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.curToken.Type))
	return false
}

// synchronize skips tokens up to and including the next ';' so that one
// malformed statement does not hide errors in the following ones.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses statements until EOF
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Stmts: []*ast.Node{}}

	for !p.curTokenIs(lexer.TokenEOF) {
		before := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}

	return prog
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case lexer.TokenGoto:
		return p.parseGoto()
	case lexer.TokenIf:
		return p.parseIfGoto()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenIdent:
		if p.peekTokenIs(lexer.TokenColon) {
			return p.parseLabel()
		}
		return p.parseAssignment()
	default:
		p.addError(fmt.Sprintf("unexpected token in statement: %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseLabel() *ast.Node {
	tok := p.curToken
	p.nextToken() // consume name
	p.nextToken() // consume ':'

	n := ast.NewLabel(tok.Literal)
	setPos(n, tok)
	return n
}

func (p *Parser) parseGoto() *ast.Node {
	tok := p.curToken
	p.nextToken() // consume 'goto'

	label, ok := p.parseLabelRef()
	if !ok || !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	n := &ast.Node{Type: ast.Goto, Text: tok.Literal, Children: []*ast.Node{label}}
	setPos(n, tok)
	return n
}

func (p *Parser) parseIfGoto() *ast.Node {
	tok := p.curToken
	p.nextToken() // consume 'if'

	cond, ok := p.parseOperand()
	if !ok || !p.expect(lexer.TokenGoto) {
		return nil
	}
	label, ok := p.parseLabelRef()
	if !ok || !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	n := &ast.Node{Type: ast.IfGoto, Text: tok.Literal, Children: []*ast.Node{label, cond}}
	setPos(n, tok)
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	tok := p.curToken
	p.nextToken() // consume 'return'

	value, ok := p.parseOperand()
	if !ok || !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	n := &ast.Node{Type: ast.Return, Text: tok.Literal, Children: []*ast.Node{value}}
	setPos(n, tok)
	return n
}

func (p *Parser) parseAssignment() *ast.Node {
	tok := p.curToken
	target := ast.NewIdent(tok.Literal)
	setPos(target, tok)
	p.nextToken() // consume variable

	if !p.expect(lexer.TokenAssign) {
		return nil
	}

	x, ok := p.parseOperand()
	if !ok {
		return nil
	}

	var n *ast.Node
	if p.curToken.Type.IsOperator() {
		op := ast.NewOperator(p.curToken.Literal)
		setPos(op, p.curToken)
		p.nextToken()

		y, ok := p.parseOperand()
		if !ok {
			return nil
		}
		n = &ast.Node{Type: ast.AssignOp, Text: "=", Children: []*ast.Node{target, x, op, y}}
	} else {
		n = &ast.Node{Type: ast.Assign, Text: "=", Children: []*ast.Node{target, x}}
	}

	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	setPos(n, tok)
	return n
}

func (p *Parser) parseLabelRef() (*ast.Node, bool) {
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected label, got %s", p.curToken.Type))
		return nil, false
	}
	n := ast.NewLabelRef(p.curToken.Literal)
	setPos(n, p.curToken)
	p.nextToken()
	return n, true
}

// parseOperand parses IDENT, INT or a negated INT literal
func (p *Parser) parseOperand() (*ast.Node, bool) {
	tok := p.curToken
	switch tok.Type {
	case lexer.TokenIdent:
		p.nextToken()
		n := ast.NewIdent(tok.Literal)
		setPos(n, tok)
		return n, true

	case lexer.TokenInt, lexer.TokenMinus:
		text := tok.Literal
		if tok.Type == lexer.TokenMinus {
			p.nextToken()
			if !p.curTokenIs(lexer.TokenInt) {
				p.addError(fmt.Sprintf("expected integer after '-', got %s", p.curToken.Type))
				return nil, false
			}
			text = "-" + p.curToken.Literal
		}
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			p.addError(fmt.Sprintf("integer literal %s out of range", text))
			return nil, false
		}
		p.nextToken()
		n := ast.NewNum(text)
		setPos(n, tok)
		return n, true

	default:
		p.addError(fmt.Sprintf("expected operand, got %s", tok.Type))
		return nil, false
	}
}

func setPos(n *ast.Node, tok lexer.Token) {
	n.Line = tok.Line
	n.Column = tok.Column
}
