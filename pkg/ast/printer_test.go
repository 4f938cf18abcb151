package ast

import (
	"bytes"
	"testing"
)

func TestStringTree(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"label", NewLabel("top"), "(LABEL top)"},
		{"goto", NewGoto("top"), "(GOTO top)"},
		{"ifgoto", NewIfGoto(NewIdent("c"), "top"), "(IFGOTO top c)"},
		{"return literal", NewReturn(NewNum("-3")), "(RETURN -3)"},
		{"assign", NewAssign("x", NewIdent("y")), "(ASSIGN x y)"},
		{"assignop", NewAssignOp("x", NewIdent("y"), "==", NewNum("0")), "(ASSIGNOP x y == 0)"},
		{"leaf", NewIdent("v"), "v"},
		{"nil", nil, "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringTree(tt.node); got != tt.want {
				t.Errorf("StringTree() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintProgram(t *testing.T) {
	prog := &Program{Stmts: []*Node{
		NewAssign("x", NewNum("1")),
		NewLabel("L"),
		NewReturn(NewIdent("x")),
	}}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)

	want := "  0  (ASSIGN x 1)\n  1  (LABEL L)\n  2  (RETURN x)\n"
	if buf.String() != want {
		t.Errorf("PrintProgram() = %q, want %q", buf.String(), want)
	}
}

func TestNodeTypes(t *testing.T) {
	if !AssignOp.IsStatement() || Ident.IsStatement() {
		t.Error("IsStatement misclassifies node types")
	}
	if NodeType(99).String() != "?" {
		t.Errorf("unknown node type should print as ?, got %s", NodeType(99))
	}
	if NewGoto("L").Child(1) != nil {
		t.Error("Child out of range should return nil")
	}
}
