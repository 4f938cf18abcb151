package cfg

import (
	"errors"
	"fmt"
)

// ErrJumpSyntax is matched (via errors.Is) by every error that rejects a
// program's jump structure.
var ErrJumpSyntax = errors.New("jump syntax error")

// ErrNoEntry is returned for a program with no statement to start from
var ErrNoEntry = errors.New("cannot find an entry statement")

// UndefinedLabelError reports a jump to a label that is never declared, or
// that is declared at the very end of the program and so marks no statement.
type UndefinedLabelError struct {
	Label    string
	Line     int // line of the first jump referencing the label
	Dangling bool
}

func (e *UndefinedLabelError) Error() string {
	if e.Dangling {
		return fmt.Sprintf("line %d: goto target '%s' marks no statement", e.Line, e.Label)
	}
	return fmt.Sprintf("line %d: goto target '%s' does not exist", e.Line, e.Label)
}

func (e *UndefinedLabelError) Unwrap() error { return ErrJumpSyntax }

// CyclicJumpError reports a chain of unconditional jumps that loops back on
// itself without reaching any other statement.
type CyclicJumpError struct {
	Num   int // statement at which the cycle closed
	Line  int
	Label string
}

func (e *CyclicJumpError) Error() string {
	return fmt.Sprintf("line %d: 'goto %s' (statement %d) starts an infinite chain of jumps", e.Line, e.Label, e.Num)
}

func (e *CyclicJumpError) Unwrap() error { return ErrJumpSyntax }

// DuplicateLabelError reports a label declared more than once
type DuplicateLabelError struct {
	Label    string
	Line     int
	PrevLine int
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("line %d: label '%s' already declared on line %d", e.Line, e.Label, e.PrevLine)
}

func (e *DuplicateLabelError) Unwrap() error { return ErrJumpSyntax }

// MalformedError reports a syntax node whose shape does not match its type
type MalformedError struct {
	Num    int
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("line %d: statement %d: %s", e.Line, e.Num, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrJumpSyntax }
