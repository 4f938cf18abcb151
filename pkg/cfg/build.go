package cfg

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/ast"
)

// Builder converts a parsed program into a Graph
type Builder struct {
	Log zerolog.Logger
}

// NewBuilder creates a builder that does not trace
func NewBuilder() *Builder {
	return &Builder{Log: zerolog.Nop()}
}

// Build converts prog into a Graph with jumps eliminated
func Build(prog *ast.Program) (*Graph, error) {
	return NewBuilder().Build(prog)
}

// labelEntry tracks one label name during construction
type labelEntry struct {
	target   ID
	declared bool
	declLine int
	refLine  int // first jump referencing the label

	referenced bool
}

// Build converts prog into a Graph. Statements are linked by fall-through,
// labels are resolved to the statement following their declaration, and
// chains of unconditional jumps are contracted.
func (b *Builder) Build(prog *ast.Program) (*Graph, error) {
	stmts := make([]*Statement, len(prog.Stmts))
	labels := make(map[string]*labelEntry)
	var refOrder []string // label names in order of first reference
	var pending []string  // declared labels waiting for their statement

	last := None
	for i, node := range prog.Stmts {
		in, err := convert(i, node)
		if err != nil {
			return nil, err
		}
		s := newStatement(i, node.Line, in)
		stmts[i] = s

		if l, ok := in.(Label); ok {
			if e, ok := labels[l.Name]; ok && e.declared {
				return nil, &DuplicateLabelError{Label: l.Name, Line: node.Line, PrevLine: e.declLine}
			}
			e := labels[l.Name]
			if e == nil {
				e = &labelEntry{target: None}
				labels[l.Name] = e
			}
			e.declared = true
			e.declLine = node.Line
			pending = append(pending, l.Name)
			continue
		}

		if last != None {
			stmts[last].Next[SlotLinr] = ID(i)
		}
		for _, name := range pending {
			labels[name].target = ID(i)
		}
		pending = pending[:0]

		switch j := in.(type) {
		case Goto:
			refOrder = b.reference(labels, refOrder, j.Label, node.Line)
			last = None
		case IfGoto:
			refOrder = b.reference(labels, refOrder, j.Label, node.Line)
			last = ID(i)
		case Return:
			last = None
		default:
			last = ID(i)
		}
	}

	// check that all jump targets exist
	for _, name := range refOrder {
		e := labels[name]
		if !e.declared || e.target == None {
			return nil, &UndefinedLabelError{Label: name, Line: e.refLine, Dangling: e.declared}
		}
	}

	// forge links from (if)goto statements
	for _, s := range stmts {
		switch j := s.Instr.(type) {
		case Goto:
			s.Next[SlotGoto] = labels[j.Label].target
		case IfGoto:
			s.Next[SlotIfGoto] = labels[j.Label].target
		}
	}

	start := None
	for i, s := range stmts {
		if !s.IsLabel() {
			start = ID(i)
			break
		}
	}
	if start == None {
		return nil, ErrNoEntry
	}

	g := NewGraph(stmts, start)
	b.Log.Debug().Int("statements", len(stmts)).Int("labels", len(labels)).Int("start", int(start)).Msg("graph built")

	if err := b.eliminateGotos(g); err != nil {
		return nil, err
	}
	return g, nil
}

// reference records a jump to name, inserting an unresolved entry if the
// label has not been seen yet.
func (b *Builder) reference(labels map[string]*labelEntry, order []string, name string, line int) []string {
	e, ok := labels[name]
	if !ok {
		e = &labelEntry{target: None}
		labels[name] = e
	}
	if !e.referenced {
		e.referenced = true
		e.refLine = line
		order = append(order, name)
	}
	return order
}

// convert turns a syntax node into an instruction
func convert(num int, n *ast.Node) (Instr, error) {
	bad := func(reason string) error {
		return &MalformedError{Num: num, Line: n.Line, Reason: reason}
	}
	want := func(k int) error {
		if len(n.Children) != k {
			return bad(n.Type.String() + " expects " + strconv.Itoa(k) + " children")
		}
		return nil
	}

	switch n.Type {
	case ast.Label:
		if err := want(1); err != nil {
			return nil, err
		}
		return Label{Name: n.Child(0).Text}, nil

	case ast.Goto:
		if err := want(1); err != nil {
			return nil, err
		}
		return Goto{Label: n.Child(0).Text}, nil

	case ast.IfGoto:
		if err := want(2); err != nil {
			return nil, err
		}
		cond, err := operand(n.Child(1))
		if err != nil {
			return nil, bad(err.Error())
		}
		return IfGoto{Label: n.Child(0).Text, Cond: cond}, nil

	case ast.Return:
		if err := want(1); err != nil {
			return nil, err
		}
		v, err := operand(n.Child(0))
		if err != nil {
			return nil, bad(err.Error())
		}
		return Return{Value: v}, nil

	case ast.Assign:
		if err := want(2); err != nil {
			return nil, err
		}
		if n.Child(0).Type != ast.Ident {
			return nil, bad("assignment target must be a variable")
		}
		src, err := operand(n.Child(1))
		if err != nil {
			return nil, bad(err.Error())
		}
		return Assign{Var: n.Child(0).Text, Source: src}, nil

	case ast.AssignOp:
		if err := want(4); err != nil {
			return nil, err
		}
		if n.Child(0).Type != ast.Ident {
			return nil, bad("assignment target must be a variable")
		}
		op, ok := ParseOperator(n.Child(2).Text)
		if !ok {
			return nil, bad("unknown operator " + n.Child(2).Text)
		}
		x, err := operand(n.Child(1))
		if err != nil {
			return nil, bad(err.Error())
		}
		y, err := operand(n.Child(3))
		if err != nil {
			return nil, bad(err.Error())
		}
		return AssignOp{Var: n.Child(0).Text, Op: op, X: x, Y: y}, nil
	}

	return nil, bad("unexpected node type " + n.Type.String())
}

func operand(n *ast.Node) (Operand, error) {
	switch n.Type {
	case ast.Ident:
		return Variable{Name: n.Text}, nil
	case ast.Num:
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, err
		}
		return Literal{Value: v}, nil
	}
	return nil, &operandError{n.Type}
}

type operandError struct {
	typ ast.NodeType
}

func (e *operandError) Error() string {
	return "inappropriate operand type " + e.typ.String()
}
