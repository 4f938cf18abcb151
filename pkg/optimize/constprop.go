package optimize

import (
	"maps"

	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
	"github.com/raymyers/ralph-jump/pkg/codegen"
)

// env maps variables to the constant they are known to hold on the path
// being walked.
type env map[string]int64

func (e env) subst(o cfg.Operand) cfg.Operand {
	if v, ok := o.(cfg.Variable); ok {
		if c, ok := e[v.Name]; ok {
			return cfg.Literal{Value: c}
		}
	}
	return o
}

// CP propagates constants forward along each path from the entry, folds
// operations on constants and resolves conditional jumps whose condition is
// known.
//
// Each statement is visited once, so values assigned inside a loop are not
// carried into later iterations. Knowledge is dropped at statements that
// carry a label in the generated text or have several predecessors, since
// the walk does not merge what is known on different incoming paths.
type CP struct {
	Log zerolog.Logger
}

func (*CP) Name() string { return "cp" }

func (p *CP) Run(g *cfg.Graph) {
	if g.Start == cfg.None {
		return
	}

	labels := codegen.Labels(g)
	preds := g.Predecessors()

	type frame struct {
		id    cfg.ID
		known env
	}
	stack := []frame{{id: g.Start, known: env{}}}
	visited := make(map[cfg.ID]bool)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.id] || !g.Contains(f.id) {
			continue
		}
		visited[f.id] = true

		known := f.known
		if _, ok := labels[f.id]; ok || len(preds[f.id]) > 1 {
			known = env{}
		}

		s := g.At(f.id)
		switch in := s.Instr.(type) {
		case cfg.Assign:
			src := known.subst(in.Source)
			s.Instr = cfg.Assign{Var: in.Var, Source: src}
			if lit, ok := src.(cfg.Literal); ok {
				known[in.Var] = lit.Value
			} else {
				delete(known, in.Var)
			}

		case cfg.AssignOp:
			x, y := known.subst(in.X), known.subst(in.Y)
			s.Instr = cfg.AssignOp{Var: in.Var, Op: in.Op, X: x, Y: y}
			delete(known, in.Var)
			if v, ok := fold(in.Op, x, y); ok {
				s.Instr = cfg.Assign{Var: in.Var, Source: cfg.Literal{Value: v}}
				known[in.Var] = v
				p.Log.Debug().Str("pass", p.Name()).Int("num", s.Num).Int64("value", v).Msg("folded operation")
			}

		case cfg.Return:
			s.Instr = cfg.Return{Value: known.subst(in.Value)}

		case cfg.IfGoto:
			cond := known.subst(in.Cond)
			if succ, ok := decide(s, cond); ok && g.CanBypass(f.id, succ, preds) {
				p.Log.Debug().Str("pass", p.Name()).Int("num", s.Num).Bool("taken", succ == s.Next[cfg.SlotIfGoto]).Msg("resolved branch")
				g.Bypass(f.id, succ, preds)
				if succ != cfg.None {
					stack = append(stack, frame{id: succ, known: known})
				}
				continue
			}
			s.Instr = cfg.IfGoto{Label: in.Label, Cond: cond}
		}

		succs := s.Successors()
		for i, t := range succs {
			e := known
			if i < len(succs)-1 {
				e = maps.Clone(known)
			}
			stack = append(stack, frame{id: t, known: e})
		}
	}
}

// decide returns the successor a conditional jump takes when its condition
// is a constant.
func decide(s *cfg.Statement, cond cfg.Operand) (cfg.ID, bool) {
	lit, ok := cond.(cfg.Literal)
	if !ok {
		return cfg.None, false
	}
	if lit.Value != 0 {
		return s.Next[cfg.SlotIfGoto], true
	}
	if t := s.Next[cfg.SlotLinr]; t != cfg.None {
		return t, true
	}
	return s.Next[cfg.SlotGoto], true
}

// fold evaluates op when both operands are constants. Division by zero is
// left unfolded.
func fold(op cfg.Operator, x, y cfg.Operand) (int64, bool) {
	a, ok := x.(cfg.Literal)
	if !ok {
		return 0, false
	}
	b, ok := y.(cfg.Literal)
	if !ok {
		return 0, false
	}
	return op.Eval(a.Value, b.Value)
}
