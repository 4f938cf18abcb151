// Package cfg builds and represents the control-flow graph of a
// jump-language program. Statements live in an arena indexed by stable IDs;
// every successor link and backreference is an ID, never an owning pointer.
//
// A Graph keeps three invariants once construction has finished and after
// every optimization pass:
//
//  1. no statement reachable from Start is a Goto;
//  2. every non-empty successor slot of a live statement names a live statement;
//  3. Start is neither a Goto nor a Label;
//  4. no statement has both a fall-through and a goto successor.
package cfg

import (
	"fmt"
	"sort"
)

// Edge is a backreference: statement From reaches some target through Slot
type Edge struct {
	From ID
	Slot Slot
}

// Preds maps each statement to the edges pointing at it
type Preds map[ID][]Edge

// Graph is a control-flow graph over an arena of statements
type Graph struct {
	arena  []*Statement
	live   []ID // working set, ascending by Num
	member []bool

	// Start is the entry statement
	Start ID
}

// NewGraph creates a graph over stmts whose working set is every statement.
// stmts[i] must have ID i.
func NewGraph(stmts []*Statement, start ID) *Graph {
	g := &Graph{
		arena:  stmts,
		member: make([]bool, len(stmts)),
		Start:  start,
	}
	ids := make([]ID, len(stmts))
	for i := range stmts {
		ids[i] = ID(i)
	}
	g.SetLive(ids)
	return g
}

// At returns the statement with the given ID
func (g *Graph) At(id ID) *Statement {
	return g.arena[id]
}

// Size returns the number of statements in the arena, live or not
func (g *Graph) Size() int {
	return len(g.arena)
}

// Live returns the working set in ascending Num order. The slice must not
// be modified by the caller.
func (g *Graph) Live() []ID {
	return g.live
}

// Contains reports whether id is part of the working set
func (g *Graph) Contains(id ID) bool {
	return id >= 0 && int(id) < len(g.member) && g.member[id]
}

// SetLive replaces the working set
func (g *Graph) SetLive(ids []ID) {
	for i := range g.member {
		g.member[i] = false
	}
	live := make([]ID, 0, len(ids))
	for _, id := range ids {
		if !g.member[id] {
			g.member[id] = true
			live = append(live, id)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		return g.arena[live[i]].Num < g.arena[live[j]].Num
	})
	g.live = live
}

// Remove drops id from the working set. Its arena entry is retained.
func (g *Graph) Remove(id ID) {
	if !g.Contains(id) {
		return
	}
	g.member[id] = false
	for i, l := range g.live {
		if l == id {
			g.live = append(g.live[:i], g.live[i+1:]...)
			break
		}
	}
}

// Predecessors computes the backreference map of the working set
func (g *Graph) Predecessors() Preds {
	preds := make(Preds)
	for _, id := range g.live {
		s := g.arena[id]
		for _, slot := range Slots {
			if t := s.Next[slot]; t != None {
				preds[t] = append(preds[t], Edge{From: id, Slot: slot})
			}
		}
	}
	return preds
}

// Reachable returns the statements reachable from Start, in breadth-first order
func (g *Graph) Reachable() []ID {
	if g.Start == None {
		return nil
	}
	seen := make([]bool, len(g.arena))
	queue := []ID{g.Start}
	seen[g.Start] = true
	for i := 0; i < len(queue); i++ {
		for _, t := range g.arena[queue[i]].Successors() {
			if !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}
	return queue
}

// Bypass removes id from the graph, redirecting every edge that pointed at
// it to succ (None turns those predecessors into terminal statements). If id
// was the entry, succ becomes the entry. preds is kept up to date.
//
// A redirected fall-through edge whose new target already has a different
// fall-through predecessor is moved to the predecessor's goto slot, so a
// statement never has two fall-through predecessors. Invariant 4 keeps that
// slot free: the fall-through edge was the predecessor's only plain
// successor.
//
// Callers check CanBypass first; Bypass itself does not refuse.
func (g *Graph) Bypass(id, succ ID, preds Preds) {
	incoming := preds[id]
	delete(preds, id)

	if succ != None {
		kept := preds[succ][:0]
		for _, e := range preds[succ] {
			if e.From != id {
				kept = append(kept, e)
			}
		}
		preds[succ] = kept
	}

	for _, e := range incoming {
		if e.From == id {
			continue
		}
		p := g.arena[e.From]
		p.Next[e.Slot] = None
		if succ == None {
			continue
		}

		slot := e.Slot
		if slot == SlotLinr && hasOtherLinr(preds[succ], e.From) {
			slot = SlotGoto
		}
		p.Next[slot] = succ
		preds[succ] = append(preds[succ], Edge{From: e.From, Slot: slot})
	}

	if g.Start == id {
		g.Start = succ
	}
	g.arena[id].ClearNext()
	g.Remove(id)
}

// CanBypass reports whether id can be spliced out towards succ without
// changing what the program does. A statement cannot be its own
// replacement, and when succ is None the splice must not leave the graph
// without an entry or leave a jump with nowhere to go: only fall-through
// predecessors may become terminal.
func (g *Graph) CanBypass(id, succ ID, preds Preds) bool {
	if succ == id {
		return false
	}
	if succ != None {
		return true
	}
	if id == g.Start {
		return false
	}
	for _, e := range preds[id] {
		if e.From != id && e.Slot != SlotLinr {
			return false
		}
	}
	return true
}

func hasOtherLinr(edges []Edge, from ID) bool {
	for _, e := range edges {
		if e.Slot == SlotLinr && e.From != from {
			return true
		}
	}
	return false
}

// Check verifies the graph invariants and returns a description of the
// first violation found.
func (g *Graph) Check() error {
	if !g.Contains(g.Start) {
		return fmt.Errorf("entry statement %d is not live", g.Start)
	}
	if s := g.arena[g.Start]; s.IsGoto() || s.IsLabel() {
		return fmt.Errorf("entry statement #%d is a %s", s.Num, KindName(s.Instr))
	}
	for _, id := range g.live {
		s := g.arena[id]
		for _, slot := range Slots {
			if t := s.Next[slot]; t != None && !g.Contains(t) {
				return fmt.Errorf("statement #%d: %s edge to removed statement %d", s.Num, slot, t)
			}
		}
		if s.Next[SlotLinr] != None && s.Next[SlotGoto] != None {
			return fmt.Errorf("statement #%d has both a %s and a %s successor", s.Num, SlotLinr, SlotGoto)
		}
		if _, ok := s.Instr.(IfGoto); ok && s.Next[SlotIfGoto] == None {
			return fmt.Errorf("conditional jump #%d has no %s successor", s.Num, SlotIfGoto)
		}
	}
	for _, id := range g.Reachable() {
		if s := g.arena[id]; s.IsGoto() {
			return fmt.Errorf("goto statement #%d is reachable", s.Num)
		}
	}
	return nil
}
