// Package codegen serializes a control-flow graph back into jump-language
// source text. Jump targets receive freshly numbered labels L0, L1, ... and
// statements are laid out so that fall-through edges need no jump.
package codegen

import (
	"fmt"
	"iter"
	"strings"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// Layout is the emission plan for a graph: the statement order and the
// label assigned to every statement that needs one.
type Layout struct {
	Order  []cfg.ID
	Labels map[cfg.ID]int

	g   *cfg.Graph
	pos map[cfg.ID]int
}

// NewLayout orders the statements reachable from the entry and assigns
// labels.
//
// The order comes from a depth-first walk with an explicit stack; successors
// are pushed goto, ifgoto, then linr, so a fall-through successor is popped
// and emitted right after its predecessor whenever it has not been emitted
// already.
func NewLayout(g *cfg.Graph) *Layout {
	l := &Layout{
		Labels: make(map[cfg.ID]int),
		g:      g,
		pos:    make(map[cfg.ID]int),
	}
	if g.Start == cfg.None {
		return l
	}

	stack := []cfg.ID{g.Start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := l.pos[id]; seen {
			continue
		}
		l.pos[id] = len(l.Order)
		l.Order = append(l.Order, id)

		s := g.At(id)
		for _, slot := range []cfg.Slot{cfg.SlotGoto, cfg.SlotIfGoto, cfg.SlotLinr} {
			if t := s.Next[slot]; t != cfg.None {
				stack = append(stack, t)
			}
		}
	}

	l.assignLabels()
	return l
}

// fallsThrough reports whether id's linr successor is emitted right after it
func (l *Layout) fallsThrough(id cfg.ID) bool {
	t := l.g.At(id).Next[cfg.SlotLinr]
	return t == cfg.None || l.pos[t] == l.pos[id]+1
}

// targets lists the statements id jumps to, in the order labels are handed out
func (l *Layout) targets(id cfg.ID) []cfg.ID {
	s := l.g.At(id)
	var out []cfg.ID
	for _, slot := range []cfg.Slot{cfg.SlotGoto, cfg.SlotIfGoto} {
		if t := s.Next[slot]; t != cfg.None {
			out = append(out, t)
		}
	}
	if !l.fallsThrough(id) {
		out = append(out, s.Next[cfg.SlotLinr])
	}
	return out
}

// assignLabels numbers jump targets in the order they are first found while
// scanning emitted statements in working-set order. The entry, when it is a
// target itself, always gets label 0.
func (l *Layout) assignLabels() {
	var scan []cfg.ID
	for _, id := range l.g.Live() {
		if _, ok := l.pos[id]; ok {
			scan = append(scan, id)
		}
	}

	for _, id := range scan {
		for _, t := range l.targets(id) {
			if t == l.g.Start {
				l.Labels[t] = 0
			}
		}
	}

	for _, id := range scan {
		for _, t := range l.targets(id) {
			if _, ok := l.Labels[t]; !ok {
				l.Labels[t] = len(l.Labels)
			}
		}
	}
}

// Lines yields the generated source, one line at a time
func (l *Layout) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, id := range l.Order {
			if n, ok := l.Labels[id]; ok {
				if !yield(fmt.Sprintf("L%d:", n)) {
					return
				}
			}
			for _, line := range l.statementLines(id) {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// statementLines renders one statement and the jumps that realize its
// out-of-line edges. A conditional jump whose taken edge was removed leaves
// the program on that branch, so only its fall-through is kept and the jump
// itself is not emitted; cfg.Graph.Check reports such graphs.
func (l *Layout) statementLines(id cfg.ID) []string {
	s := l.g.At(id)

	var lines []string
	if j, ok := s.Instr.(cfg.IfGoto); ok {
		if t := s.Next[cfg.SlotIfGoto]; t != cfg.None {
			lines = append(lines, fmt.Sprintf("  if %s goto L%d;", j.Cond, l.Labels[t]))
		}
	} else {
		lines = append(lines, "  "+cfg.Render(s.Instr))
	}

	if !l.fallsThrough(id) {
		lines = append(lines, fmt.Sprintf("  goto L%d;", l.Labels[s.Next[cfg.SlotLinr]]))
	}
	if t := s.Next[cfg.SlotGoto]; t != cfg.None {
		lines = append(lines, fmt.Sprintf("  goto L%d;", l.Labels[t]))
	}
	return lines
}

// Labels returns the label assignment Generate would use for g
func Labels(g *cfg.Graph) map[cfg.ID]int {
	return NewLayout(g).Labels
}

// Generate lazily yields the source text of g, one line at a time
func Generate(g *cfg.Graph) iter.Seq[string] {
	return func(yield func(string) bool) {
		NewLayout(g).Lines()(yield)
	}
}

// Text returns the complete generated source of g
func Text(g *cfg.Graph) string {
	var sb strings.Builder
	for line := range Generate(g) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
