// Package optimize implements the optimization passes over a control-flow
// graph and the driver that repeats them until the generated text stops
// changing.
//
// Every pass is a total function over a well-formed graph: passes never fail,
// they only rewrite or drop statements.
package optimize

import (
	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// Pass is a single transformation of a graph
type Pass interface {
	// Name returns the short name used in trace output
	Name() string

	// Run rewrites g in place
	Run(g *cfg.Graph)
}

// Pipeline runs passes in order
type Pipeline []Pass

// Run applies every pass of the pipeline once
func (p Pipeline) Run(g *cfg.Graph) {
	for _, pass := range p {
		pass.Run(g)
	}
}

// Names lists the pass names of the pipeline
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, pass := range p {
		names[i] = pass.Name()
	}
	return names
}

// NewPipeline returns the passes of one optimization round: unreachable code
// elimination, optional straightening, dead code elimination and constant
// propagation.
func NewPipeline(straighten bool, log zerolog.Logger) Pipeline {
	p := Pipeline{&UCE{Log: log}}
	if straighten {
		p = append(p, &JE{Log: log})
	}
	return append(p, &DCE{Log: log}, &CP{Log: log})
}
