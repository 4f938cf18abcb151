package cfg

import "strconv"

// Operand is either an integer literal or a named variable. Operands are
// comparable values: two operands are equal iff they have the same kind and
// payload, so they can be used directly as map keys.
type Operand interface {
	implOperand()
	String() string
}

// Literal is an integer constant operand
type Literal struct {
	Value int64
}

// Variable is a named variable operand
type Variable struct {
	Name string
}

func (Literal) implOperand()  {}
func (Variable) implOperand() {}

func (l Literal) String() string  { return strconv.FormatInt(l.Value, 10) }
func (v Variable) String() string { return v.Name }

// VarName returns the variable name of o, if o is a Variable
func VarName(o Operand) (string, bool) {
	v, ok := o.(Variable)
	return v.Name, ok
}

// Operator is a binary operator of an AssignOp statement
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpLt  Operator = "<"
	OpGt  Operator = ">"
	OpEq  Operator = "=="
)

// ParseOperator converts operator text into an Operator
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpAdd, OpSub, OpMul, OpDiv, OpLt, OpGt, OpEq:
		return op, true
	}
	return "", false
}

// Eval applies op to two constants. Arithmetic wraps on int64 overflow and
// division truncates toward zero; comparisons yield 1 or 0. Division by zero
// has no value and reports false.
func (op Operator) Eval(x, y int64) (int64, bool) {
	switch op {
	case OpAdd:
		return x + y, true
	case OpSub:
		return x - y, true
	case OpMul:
		return x * y, true
	case OpDiv:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	case OpLt:
		return boolToInt(x < y), true
	case OpGt:
		return boolToInt(x > y), true
	case OpEq:
		return boolToInt(x == y), true
	}
	return 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
