package cfg

// eliminateGotos points every successor slot that lands on a Goto directly
// at the first non-Goto statement of the jump chain, then detaches the Goto
// statements. They stay in the working set, unreachable, until the next
// reachability pass drops them.
func (b *Builder) eliminateGotos(g *Graph) error {
	for _, id := range g.Live() {
		s := g.At(id)
		for _, slot := range Slots {
			next := s.Next[slot]
			if next == None {
				continue
			}

			// the entry has to move if it is a goto about to be detached
			moveStart := id == g.Start && s.IsGoto()

			target, err := g.followJumps(next)
			if err != nil {
				return err
			}

			// keep fall-through edges for genuinely sequential code: an edge
			// that went through a jump becomes a jump edge
			if g.At(next).IsGoto() && slot == SlotLinr {
				s.Next[SlotLinr] = None
				s.Next[SlotGoto] = target
			} else {
				s.Next[slot] = target
			}

			if target != next {
				b.Log.Debug().Int("num", s.Num).Stringer("slot", slot).
					Int("via", int(next)).Int("target", int(target)).Msg("contracted jump chain")
			}

			if moveStart {
				b.Log.Debug().Int("was", int(g.Start)).Int("now", int(target)).Msg("moved entry")
				g.Start = target
			}
		}
	}

	for _, id := range g.Live() {
		if s := g.At(id); s.IsGoto() {
			s.ClearNext()
		}
	}
	return nil
}

// followJumps walks unconditional jumps from id until it reaches a statement
// that is not a Goto.
func (g *Graph) followJumps(id ID) (ID, error) {
	visited := make(map[ID]bool)
	for g.At(id).IsGoto() {
		if visited[id] {
			s := g.At(id)
			return None, &CyclicJumpError{Num: s.Num, Line: s.Line, Label: s.Instr.(Goto).Label}
		}
		visited[id] = true
		id = g.At(id).Next[SlotGoto]
	}
	return id, nil
}
