package optimize

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// JE straightens jumps: where a statement is the target of a jump from a
// predecessor that has no fall-through successor, the jump becomes a
// fall-through edge. This is a heuristic that lowers the number of labels in
// the generated text; it does not look for an optimal layout.
type JE struct {
	Log zerolog.Logger
}

func (*JE) Name() string { return "je" }

func (p *JE) Run(g *cfg.Graph) {
	dist := distances(g)
	preds := g.Predecessors()

	for _, t := range g.Live() {
		if t == g.Start {
			continue
		}
		if _, ok := dist[t]; !ok {
			continue
		}

		edges := slices.Clone(preds[t])
		var linr []cfg.ID
		for _, e := range edges {
			if e.Slot == cfg.SlotLinr {
				linr = append(linr, e.From)
			}
		}
		if len(linr) > 1 {
			continue
		}

		// nearest predecessor first; unreachable ones never qualify
		edges = slices.DeleteFunc(edges, func(e cfg.Edge) bool {
			_, ok := dist[e.From]
			return !ok
		})
		slices.SortStableFunc(edges, func(a, b cfg.Edge) int {
			return dist[a.From] - dist[b.From]
		})

		for _, e := range edges {
			from := g.At(e.From)
			if e.Slot != cfg.SlotGoto || from.Next[cfg.SlotLinr] != cfg.None {
				continue
			}

			from.Next[cfg.SlotGoto] = cfg.None
			from.Next[cfg.SlotLinr] = t
			retag(preds, t, e.From, cfg.SlotGoto, cfg.SlotLinr)

			if len(linr) == 1 && linr[0] != e.From {
				prev := g.At(linr[0])
				prev.Next[cfg.SlotLinr] = cfg.None
				prev.Next[cfg.SlotGoto] = t
				retag(preds, t, linr[0], cfg.SlotLinr, cfg.SlotGoto)
				p.Log.Debug().Str("pass", p.Name()).Int("num", prev.Num).Int("target", g.At(t).Num).Msg("demoted fall-through")
			}
			p.Log.Debug().Str("pass", p.Name()).Int("num", from.Num).Int("target", g.At(t).Num).Msg("promoted jump")
			break
		}
	}
}

// retag changes the slot of the edge from -> t in the backreference map
func retag(preds cfg.Preds, t, from cfg.ID, old, slot cfg.Slot) {
	for i, e := range preds[t] {
		if e.From == from && e.Slot == old {
			preds[t][i].Slot = slot
			return
		}
	}
}

// distances returns the breadth-first distance of every reachable statement
// from the entry.
func distances(g *cfg.Graph) map[cfg.ID]int {
	dist := make(map[cfg.ID]int)
	if g.Start == cfg.None {
		return dist
	}
	dist[g.Start] = 0
	queue := []cfg.ID{g.Start}
	for i := 0; i < len(queue); i++ {
		id := queue[i]
		for _, t := range g.At(id).Successors() {
			if _, ok := dist[t]; !ok {
				dist[t] = dist[id] + 1
				queue = append(queue, t)
			}
		}
	}
	return dist
}
