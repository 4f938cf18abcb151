package cfg

import (
	"fmt"
	"slices"
	"strings"
)

// ID is a stable handle into the graph's statement arena. A statement's ID
// equals its position in the parsed program.
type ID int

// None marks an empty successor slot
const None ID = -1

// Slot indexes a statement's successor array
type Slot int

const (
	SlotLinr   Slot = iota // fall-through successor
	SlotGoto               // unconditional-jump successor
	SlotIfGoto             // conditional-jump-taken successor
)

// NumSlots is the fixed size of every successor array
const NumSlots = 3

// Slots lists the successor slots in canonical order
var Slots = [NumSlots]Slot{SlotLinr, SlotGoto, SlotIfGoto}

var slotNames = [...]string{"linr", "goto", "ifgoto"}

func (s Slot) String() string {
	if s >= 0 && int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "?"
}

// Instr is the closed set of statement variants
type Instr interface {
	implInstr()
}

// Assign copies an operand into a variable: Var = Source
type Assign struct {
	Var    string
	Source Operand
}

// AssignOp stores the result of a binary operation: Var = X Op Y
type AssignOp struct {
	Var string
	Op  Operator
	X   Operand
	Y   Operand
}

// Goto jumps unconditionally to Label
type Goto struct {
	Label string
}

// IfGoto jumps to Label when Cond is non-zero
type IfGoto struct {
	Label string
	Cond  Operand
}

// Return ends the program with Value
type Return struct {
	Value Operand
}

// Label marks a jump target position
type Label struct {
	Name string
}

func (Assign) implInstr()   {}
func (AssignOp) implInstr() {}
func (Goto) implInstr()     {}
func (IfGoto) implInstr()   {}
func (Return) implInstr()   {}
func (Label) implInstr()    {}

// Written returns the variable an instruction assigns (its lhs), if any.
// Only Assign and AssignOp write.
func Written(in Instr) (string, bool) {
	switch i := in.(type) {
	case Assign:
		return i.Var, true
	case AssignOp:
		return i.Var, true
	}
	return "", false
}

// Read returns the distinct variables an instruction reads (its rhs)
func Read(in Instr) []string {
	var ops []Operand
	switch i := in.(type) {
	case Assign:
		ops = []Operand{i.Source}
	case AssignOp:
		ops = []Operand{i.X, i.Y}
	case IfGoto:
		ops = []Operand{i.Cond}
	case Return:
		ops = []Operand{i.Value}
	case Goto, Label:
		return nil
	}

	var names []string
	for _, o := range ops {
		if name, ok := VarName(o); ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Render returns the source-language text of an instruction, using the
// source label names for jumps.
func Render(in Instr) string {
	switch i := in.(type) {
	case Assign:
		return fmt.Sprintf("%s = %s;", i.Var, i.Source)
	case AssignOp:
		return fmt.Sprintf("%s = %s %s %s;", i.Var, i.X, i.Op, i.Y)
	case Goto:
		return fmt.Sprintf("goto %s;", i.Label)
	case IfGoto:
		return fmt.Sprintf("if %s goto %s;", i.Cond, i.Label)
	case Return:
		return fmt.Sprintf("return %s;", i.Value)
	case Label:
		return i.Name + ":"
	}
	return fmt.Sprintf("/* unknown instruction %T */", in)
}

// KindName names the variant of an instruction
func KindName(in Instr) string {
	switch in.(type) {
	case Assign:
		return "Assign"
	case AssignOp:
		return "AssignOp"
	case Goto:
		return "Goto"
	case IfGoto:
		return "IfGoto"
	case Return:
		return "Return"
	case Label:
		return "Label"
	}
	return "?"
}

// Statement is a node of the control-flow graph
type Statement struct {
	Num   int // position in the parsed program
	Line  int // source line, 0 if unknown
	Instr Instr
	Next  [NumSlots]ID
}

func newStatement(num, line int, in Instr) *Statement {
	return &Statement{Num: num, Line: line, Instr: in, Next: [NumSlots]ID{None, None, None}}
}

// IsGoto reports whether s is an unconditional jump statement
func (s *Statement) IsGoto() bool {
	_, ok := s.Instr.(Goto)
	return ok
}

// IsLabel reports whether s is a label declaration
func (s *Statement) IsLabel() bool {
	_, ok := s.Instr.(Label)
	return ok
}

// Successors returns the non-empty successor slots in slot order
func (s *Statement) Successors() []ID {
	var out []ID
	for _, slot := range Slots {
		if s.Next[slot] != None {
			out = append(out, s.Next[slot])
		}
	}
	return out
}

// IsTerminal reports whether s has no successors
func (s *Statement) IsTerminal() bool {
	return s.Next == [NumSlots]ID{None, None, None}
}

// ClearNext empties every successor slot
func (s *Statement) ClearNext() {
	s.Next = [NumSlots]ID{None, None, None}
}

func (s *Statement) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<Statement #%02d", s.Num)
	for _, slot := range Slots {
		fmt.Fprintf(&sb, " | %s -> %s", strings.ToUpper(slot.String()), formatID(s.Next[slot]))
	}
	fmt.Fprintf(&sb, " | %s '%s'>", KindName(s.Instr), Render(s.Instr))
	return sb.String()
}

func formatID(id ID) string {
	if id == None {
		return "//"
	}
	return fmt.Sprintf("%02d", int(id))
}
