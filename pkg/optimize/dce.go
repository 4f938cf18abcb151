package optimize

import (
	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// DCE removes assignments whose variable is not live afterwards.
//
// Removal splices the dead statement out: each predecessor is redirected to
// the statement's single successor. Conditional jumps are never removed.
// Dead statements that cfg.Graph.CanBypass refuses are also kept: one that
// is its own successor, and one without successors that is the entry or is
// the target of a jump.
type DCE struct {
	Log zerolog.Logger
}

func (*DCE) Name() string { return "dce" }

func (p *DCE) Run(g *cfg.Graph) {
	info := AnalyzeLiveness(g)
	preds := g.Predecessors()

	// a statement is examined at most once per version of the liveness
	// information; examined[id] holds version+1
	version := 0
	examined := make(map[cfg.ID]int)

	var work []cfg.ID
	live := g.Live()
	for _, id := range live {
		if g.At(id).IsTerminal() {
			work = append(work, id)
		}
	}
	for i := len(live) - 1; i >= 0; i-- {
		if !g.At(live[i]).IsTerminal() {
			work = append(work, live[i])
		}
	}

	for len(work) > 0 {
		id := work[0]
		work = work[1:]
		if !g.Contains(id) || examined[id] == version+1 {
			continue
		}
		examined[id] = version + 1

		incoming := preds[id]
		if succ, ok := p.removable(g, info, preds, id); ok {
			s := g.At(id)
			p.Log.Debug().Str("pass", p.Name()).Int("num", s.Num).Str("stmt", cfg.Render(s.Instr)).Msg("removed dead statement")
			g.Bypass(id, succ, preds)
			version++
			info = AnalyzeLiveness(g)
		}

		for _, e := range incoming {
			if e.From != id && examined[e.From] != version+1 {
				work = append(work, e.From)
			}
		}
	}
}

// removable reports whether id is a dead assignment that can be spliced out,
// and the successor its predecessors are redirected to.
func (p *DCE) removable(g *cfg.Graph, info *LivenessInfo, preds cfg.Preds, id cfg.ID) (cfg.ID, bool) {
	s := g.At(id)
	v, ok := cfg.Written(s.Instr)
	if !ok || info.IsLiveOut(id, v) {
		return cfg.None, false
	}

	succ := s.Next[cfg.SlotLinr]
	if succ == cfg.None {
		succ = s.Next[cfg.SlotGoto]
	}
	if !g.CanBypass(id, succ, preds) {
		return cfg.None, false
	}
	return succ, true
}
