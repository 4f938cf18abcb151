package cfg

import (
	"bufio"
	"io"
	"strconv"
)

// WriteDot writes a GraphViz description of the graph's working set: a
// synthetic start node pointing at the entry, one box per live statement
// labeled with its text, and one edge per non-empty successor slot.
func WriteDot(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("digraph CFGraph {\n")
	bw.WriteString("    start [shape=\"circle\"];\n")
	for _, id := range g.Live() {
		s := g.At(id)
		bw.WriteString("    " + dotNode(id) + " [label=" + strconv.Quote(Render(s.Instr)) + "] [shape=\"box\"];\n")
	}

	if g.Start != None {
		bw.WriteString("    start -> " + dotNode(g.Start) + ";\n")
	}
	for _, id := range g.Live() {
		s := g.At(id)
		for _, slot := range Slots {
			t := s.Next[slot]
			if t == None {
				continue
			}
			bw.WriteString("    " + dotNode(id) + " -> " + dotNode(t))
			if slot != SlotLinr {
				bw.WriteString(" [label=\"" + slot.String() + "\"]")
			}
			bw.WriteString(";\n")
		}
	}
	bw.WriteString("}\n")

	return bw.Flush()
}

func dotNode(id ID) string {
	return "s" + strconv.Itoa(int(id))
}
