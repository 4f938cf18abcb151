package codegen

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-jump/pkg/cfg"
	"github.com/raymyers/ralph-jump/pkg/parser"
)

func mustBuild(t *testing.T, src string) *cfg.Graph {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	g, err := cfg.Build(prog)
	require.NoError(t, err)
	return g
}

func lines(g *cfg.Graph) []string {
	return slices.Collect(Generate(g))
}

func TestGenerateLinear(t *testing.T) {
	g := mustBuild(t, "x = 1; y = x; return y;")
	assert.Equal(t, []string{
		"  x = 1;",
		"  y = x;",
		"  return y;",
	}, lines(g))
	assert.Empty(t, Labels(g))
}

func TestGenerateBranches(t *testing.T) {
	g := mustBuild(t, "c = 1; if c goto L; a = 0; goto M; L: a = 1; M: return a;")

	assert.Equal(t, []string{
		"  c = 1;",
		"  if c goto L0;",
		"  a = 0;",
		"  goto L1;",
		"L1:",
		"  return a;",
		"L0:",
		"  a = 1;",
		"  goto L1;",
	}, lines(g))
}

func TestGenerateEntryLabelIsZero(t *testing.T) {
	g := mustBuild(t, "L: x = x + 1; if x goto L; return x;")

	assert.Equal(t, map[cfg.ID]int{g.Start: 0}, Labels(g))
	assert.Equal(t, []string{
		"L0:",
		"  x = x + 1;",
		"  if x goto L0;",
		"  return x;",
	}, lines(g))
}

func TestGenerateSkipsUnreachable(t *testing.T) {
	g := mustBuild(t, "goto L; x = 1; L: return 2;")
	assert.Equal(t, []string{"  return 2;"}, lines(g))
}

func TestGenerateStopsEarly(t *testing.T) {
	g := mustBuild(t, "a = 1; b = 2; c = 3; return c;")

	var got []string
	for line := range Generate(g) {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"  a = 1;", "  b = 2;"}, got)
}

func TestText(t *testing.T) {
	g := mustBuild(t, "x = 1; return x;")
	assert.Equal(t, "  x = 1;\n  return x;\n", Text(g))
}

func TestLayoutOrder(t *testing.T) {
	g := mustBuild(t, "if c goto L; a = 1; return a; L: a = 2; return a;")
	l := NewLayout(g)

	// fall-through successors come right after their predecessor
	assert.Equal(t, []cfg.ID{0, 1, 2, 4, 5}, l.Order)
	assert.Equal(t, map[cfg.ID]int{4: 0}, l.Labels)
}

// signature describes the reachable part of a graph independently of
// statement numbering, label names and whether a sequential edge was
// realized as fall-through or as a jump.
func signature(g *cfg.Graph) []string {
	index := map[cfg.ID]int{g.Start: 0}
	queue := []cfg.ID{g.Start}
	var out []string

	visit := func(id cfg.ID) string {
		if id == cfg.None {
			return "-"
		}
		if _, ok := index[id]; !ok {
			index[id] = len(queue)
			queue = append(queue, id)
		}
		return fmt.Sprint(index[id])
	}

	for i := 0; i < len(queue); i++ {
		s := g.At(queue[i])
		seq := s.Next[cfg.SlotLinr]
		if seq == cfg.None {
			seq = s.Next[cfg.SlotGoto]
		}
		text := cfg.Render(s.Instr)
		if j, ok := s.Instr.(cfg.IfGoto); ok {
			text = "if " + j.Cond.String()
		}
		out = append(out, fmt.Sprintf("%d: %s -> %s / %s", i, text, visit(seq), visit(s.Next[cfg.SlotIfGoto])))
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	programs := []string{
		"x = 1; y = x; return y;",
		"c = 1; if c goto L; a = 0; goto M; L: a = 1; M: return a;",
		"L: x = x + 1; if x goto L; return x;",
		"i = 10; s = 0; top: if i goto body; return s; body: s = s + i; i = i - 1; goto top;",
		"goto a; b: return 1; a: if x goto b; goto c; c: y = x * -3; goto b;",
		"x = 0; loop: x = x + 1; c = x < 5; if c goto loop; goto done; done: return x;",
	}

	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			g := mustBuild(t, src)
			text := Text(g)

			again := mustBuild(t, text)
			assert.Equal(t, signature(g), signature(again), "regenerated:\n%s", text)

			// regeneration is stable
			assert.Equal(t, text, Text(again))
		})
	}
}

func TestGeneratedTextHasNoDanglingLabels(t *testing.T) {
	g := mustBuild(t, "a: if x goto b; x = x - 1; goto a; b: return x;")
	text := Text(g)

	for n := range len(Labels(g)) {
		assert.Contains(t, text, fmt.Sprintf("L%d:\n", n))
	}
	assert.False(t, strings.HasSuffix(strings.TrimSpace(text), ":"))
}

func TestIfGotoWithoutTargetIsNotRendered(t *testing.T) {
	g := mustBuild(t, "if c goto L; return 1; L: return 2;")
	g.At(0).Next[cfg.SlotIfGoto] = cfg.None

	assert.Equal(t, []string{"  return 1;"}, slices.Collect(Generate(g)))
	assert.Empty(t, Labels(g))
}
