package optimize

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
	"github.com/raymyers/ralph-jump/pkg/codegen"
)

// DefaultMaxRounds bounds the number of rounds the driver runs. Acyclic
// programs settle well before it; it keeps loops that never stop changing
// the text from running forever.
const DefaultMaxRounds = 64

// Options controls the driver
type Options struct {
	MaxRounds  int  // 0 means DefaultMaxRounds
	Straighten bool // include jump straightening in every round
	Log        zerolog.Logger
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{MaxRounds: DefaultMaxRounds, Log: zerolog.Nop()}
}

// Result describes a finished optimization
type Result struct {
	Rounds    int      // rounds run
	Converged bool     // two consecutive rounds produced the same text
	Lines     []string // generated text of the final graph
}

// Text joins the generated lines
func (r Result) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Run optimizes g in place. Each round runs the pass pipeline and
// regenerates the program text; the driver stops when a round leaves the
// text unchanged or after opts.MaxRounds rounds.
func Run(g *cfg.Graph, opts Options) Result {
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	log := opts.Log
	pipeline := NewPipeline(opts.Straighten, log)

	prev := slices.Collect(codegen.Generate(g))
	res := Result{Lines: prev}
	for res.Rounds < maxRounds {
		res.Rounds++
		pipeline.Run(g)

		if log.GetLevel() <= zerolog.DebugLevel {
			if err := g.Check(); err != nil {
				log.Error().Err(err).Int("round", res.Rounds).Msg("graph invariant violated")
			}
		}

		cur := slices.Collect(codegen.Generate(g))
		log.Debug().Int("round", res.Rounds).Int("statements", len(g.Live())).Int("lines", len(cur)).Msg("round finished")
		res.Lines = cur
		if slices.Equal(prev, cur) {
			res.Converged = true
			break
		}
		prev = cur
	}

	if !res.Converged {
		log.Warn().Int("rounds", res.Rounds).Msg("stopped before reaching a fixpoint")
	}
	return res
}

// Optimize runs the driver with default options
func Optimize(g *cfg.Graph) Result {
	return Run(g, DefaultOptions())
}
