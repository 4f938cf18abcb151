// Package ast defines the syntax tree handed from the parser to the graph
// builder. Every node carries a type tag, its literal text and an ordered
// list of children whose shape depends on the tag.
package ast

// NodeType tags a syntax node
type NodeType int

const (
	// Statement nodes
	Label    NodeType = iota // children: [name]
	Goto                     // children: [label]
	IfGoto                   // children: [label, cond]
	Return                   // children: [value]
	Assign                   // children: [var, source]
	AssignOp                 // children: [var, operand1, operator, operand2]

	// Leaf nodes
	Ident    // variable name
	Num      // integer literal
	Operator // + - * / < > ==
	LabelRef // label name used as a jump target or declaration
)

var nodeTypeNames = []string{
	"LABEL", "GOTO", "IFGOTO", "RETURN", "ASSIGN", "ASSIGNOP",
	"IDENT", "NUM", "OP", "LABELREF",
}

func (t NodeType) String() string {
	if int(t) >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "?"
}

// IsStatement reports whether t tags a statement-level node
func (t NodeType) IsStatement() bool {
	return t <= AssignOp
}

// Node is a syntax tree node
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Line     int
	Column   int
}

// Child returns the i-th child, or nil if there is none
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Program is a flat, ordered sequence of statement nodes
type Program struct {
	Stmts []*Node
}

// Leaf constructors, mostly used by tests and the parser.

func NewIdent(name string) *Node    { return &Node{Type: Ident, Text: name} }
func NewNum(text string) *Node      { return &Node{Type: Num, Text: text} }
func NewOperator(op string) *Node   { return &Node{Type: Operator, Text: op} }
func NewLabelRef(name string) *Node { return &Node{Type: LabelRef, Text: name} }

// NewLabel builds a label declaration node
func NewLabel(name string) *Node {
	return &Node{Type: Label, Text: name, Children: []*Node{NewLabelRef(name)}}
}

// NewGoto builds an unconditional jump node
func NewGoto(label string) *Node {
	return &Node{Type: Goto, Text: "goto", Children: []*Node{NewLabelRef(label)}}
}

// NewIfGoto builds a conditional jump node
func NewIfGoto(cond *Node, label string) *Node {
	return &Node{Type: IfGoto, Text: "if", Children: []*Node{NewLabelRef(label), cond}}
}

// NewReturn builds a return node
func NewReturn(value *Node) *Node {
	return &Node{Type: Return, Text: "return", Children: []*Node{value}}
}

// NewAssign builds a plain assignment node
func NewAssign(name string, source *Node) *Node {
	return &Node{Type: Assign, Text: "=", Children: []*Node{NewIdent(name), source}}
}

// NewAssignOp builds a binary-operation assignment node
func NewAssignOp(name string, x *Node, op string, y *Node) *Node {
	return &Node{Type: AssignOp, Text: "=", Children: []*Node{NewIdent(name), x, NewOperator(op), y}}
}
