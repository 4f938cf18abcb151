package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the syntax tree as parenthesized string trees, one
// statement per line.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new syntax tree printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints every statement of prog
func (p *Printer) PrintProgram(prog *Program) {
	for i, n := range prog.Stmts {
		fmt.Fprintf(p.w, "%3d  %s\n", i, StringTree(n))
	}
}

// StringTree renders n as "(TYPE child child ...)"; leaves render as their text.
func StringTree(n *Node) string {
	if n == nil {
		return "nil"
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(n.Type.String())
	for _, c := range n.Children {
		sb.WriteByte(' ')
		sb.WriteString(StringTree(c))
	}
	sb.WriteByte(')')
	return sb.String()
}
