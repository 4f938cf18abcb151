package optimize

import (
	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

// UCE drops every statement that cannot be reached from the entry
type UCE struct {
	Log zerolog.Logger
}

func (*UCE) Name() string { return "uce" }

// Run replaces the working set with the statements reachable from the
// entry, ordered by statement number.
func (p *UCE) Run(g *cfg.Graph) {
	before := len(g.Live())
	g.SetLive(g.Reachable())
	if removed := before - len(g.Live()); removed > 0 {
		p.Log.Debug().Str("pass", p.Name()).Int("removed", removed).Msg("dropped unreachable statements")
	}
}
