package optimize

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// LivenessInfo holds the result of liveness analysis. Variables are interned
// to bit positions; every set has the same length so sets can be compared
// directly.
type LivenessInfo struct {
	Vars    []string
	LiveIn  map[cfg.ID]*bitset.BitSet
	LiveOut map[cfg.ID]*bitset.BitSet
	Def     map[cfg.ID]*bitset.BitSet
	Use     map[cfg.ID]*bitset.BitSet

	index map[string]uint
}

// AnalyzeLiveness computes live-in and live-out sets for every statement of
// the working set:
//
//	out(s) = union of in(t) for every successor t
//	in(s)  = use(s) + (out(s) - def(s))
//
// The equations are solved by iterating to a fixpoint with a worklist, which
// is sound in the presence of loops.
func AnalyzeLiveness(g *cfg.Graph) *LivenessInfo {
	info := &LivenessInfo{
		LiveIn:  make(map[cfg.ID]*bitset.BitSet),
		LiveOut: make(map[cfg.ID]*bitset.BitSet),
		Def:     make(map[cfg.ID]*bitset.BitSet),
		Use:     make(map[cfg.ID]*bitset.BitSet),
		index:   make(map[string]uint),
	}

	live := g.Live()
	for _, id := range live {
		in := g.At(id).Instr
		if v, ok := cfg.Written(in); ok {
			info.intern(v)
		}
		for _, v := range cfg.Read(in) {
			info.intern(v)
		}
	}

	for _, id := range live {
		in := g.At(id).Instr
		def, use := info.newSet(), info.newSet()
		if v, ok := cfg.Written(in); ok {
			def.Set(info.index[v])
		}
		for _, v := range cfg.Read(in) {
			use.Set(info.index[v])
		}
		info.Def[id] = def
		info.Use[id] = use
		info.LiveIn[id] = info.newSet()
		info.LiveOut[id] = info.newSet()
	}

	preds := g.Predecessors()

	// seed in reverse order so straight-line code settles in one sweep
	work := make([]cfg.ID, 0, len(live))
	queued := make(map[cfg.ID]bool, len(live))
	for i := len(live) - 1; i >= 0; i-- {
		work = append(work, live[i])
		queued[live[i]] = true
	}

	for len(work) > 0 {
		id := work[0]
		work = work[1:]
		queued[id] = false

		out := info.newSet()
		for _, t := range g.At(id).Successors() {
			if in, ok := info.LiveIn[t]; ok {
				out.InPlaceUnion(in)
			}
		}
		info.LiveOut[id] = out

		in := out.Difference(info.Def[id])
		in.InPlaceUnion(info.Use[id])
		if in.Equal(info.LiveIn[id]) {
			continue
		}
		info.LiveIn[id] = in

		for _, e := range preds[id] {
			if !queued[e.From] {
				queued[e.From] = true
				work = append(work, e.From)
			}
		}
	}

	return info
}

func (li *LivenessInfo) intern(name string) {
	if _, ok := li.index[name]; !ok {
		li.index[name] = uint(len(li.Vars))
		li.Vars = append(li.Vars, name)
	}
}

func (li *LivenessInfo) newSet() *bitset.BitSet {
	return bitset.New(uint(len(li.Vars)))
}

// IsLiveOut reports whether name may be read after id before being written
func (li *LivenessInfo) IsLiveOut(id cfg.ID, name string) bool {
	i, ok := li.index[name]
	if !ok {
		return false
	}
	out, ok := li.LiveOut[id]
	return ok && out.Test(i)
}

// Names returns the variables of a set in interning order
func (li *LivenessInfo) Names(set *bitset.BitSet) []string {
	var names []string
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		names = append(names, li.Vars[i])
	}
	return names
}
