package cfg

import (
	"fmt"
	"io"
)

// Printer dumps a graph's working set, one statement per line, with its
// successor slots
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new graph printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintGraph prints every live statement in Num order followed by the entry
func (p *Printer) PrintGraph(g *Graph) {
	fmt.Fprintln(p.w, "cfg {")
	for _, id := range g.Live() {
		s := g.At(id)
		fmt.Fprintf(p.w, "  %02d: %-28s linr %s  goto %s  ifgoto %s\n",
			s.Num, Render(s.Instr),
			formatID(s.Next[SlotLinr]), formatID(s.Next[SlotGoto]), formatID(s.Next[SlotIfGoto]))
	}
	fmt.Fprintln(p.w, "}")
	fmt.Fprintf(p.w, "entry: %s\n", formatID(g.Start))
}
