package optimize

import (
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-jump/pkg/cfg"
)

func nopLog() zerolog.Logger { return zerolog.Nop() }

func next(a, b, c cfg.ID) [cfg.NumSlots]cfg.ID {
	return [cfg.NumSlots]cfg.ID{a, b, c}
}

func TestUCE(t *testing.T) {
	g := mustBuild(t, "goto L; x = 1; L: return 2;")
	require.Len(t, g.Live(), 4)

	(&UCE{}).Run(g)
	assert.Equal(t, []cfg.ID{3}, g.Live())
}

func TestUCEMatchesReachability(t *testing.T) {
	programs := []string{
		"x = 1; return x; y = 2; return y;",
		"if c goto b; a: x = 1; goto a; b: return 0;",
		"goto a; b: goto c; a: goto b; c: x = 3; return x;",
	}
	for _, src := range programs {
		g := mustBuild(t, src)
		want := g.Reachable()
		slices.Sort(want)

		(&UCE{Log: nopLog()}).Run(g)
		assert.Equal(t, want, g.Live(), src)
		assert.NoError(t, g.Check())
	}
}

func TestJEPromotesJump(t *testing.T) {
	g := mustBuild(t, "if c goto L; goto M; L: return 1; M: return 2;")
	(&UCE{}).Run(g)
	require.Equal(t, next(cfg.None, 5, 3), g.At(0).Next)

	(&JE{}).Run(g)
	assert.Equal(t, next(5, cfg.None, 3), g.At(0).Next)
	assert.Equal(t, []string{
		"  if c goto L0;",
		"  return 2;",
		"L0:",
		"  return 1;",
	}, lines(g))
}

func TestJEDemotesOtherFallThrough(t *testing.T) {
	g := mustBuild(t, "if c goto A; goto T; A: x = 1; T: return x;")
	(&UCE{}).Run(g)
	require.Equal(t, next(cfg.None, 5, 3), g.At(0).Next)
	require.Equal(t, next(5, cfg.None, cfg.None), g.At(3).Next)

	(&JE{}).Run(g)
	assert.Equal(t, next(5, cfg.None, 3), g.At(0).Next)
	assert.Equal(t, next(cfg.None, 5, cfg.None), g.At(3).Next)
	assert.NoError(t, g.Check())
}

func TestDCERemovesDeadStore(t *testing.T) {
	g := mustBuild(t, "x = 1; y = 2; return y;")
	(&DCE{}).Run(g)

	assert.Equal(t, cfg.ID(1), g.Start)
	assert.Equal(t, []string{"  y = 2;", "  return y;"}, lines(g))
}

func TestDCERemovesChainInOneRun(t *testing.T) {
	g := mustBuild(t, "a = 1; b = a; c = b; return 0;")
	(&DCE{}).Run(g)

	assert.Equal(t, []cfg.ID{3}, g.Live())
	assert.Equal(t, cfg.ID(3), g.Start)
}

func TestDCEKeepsLoopCarriedValue(t *testing.T) {
	src := "x = 1; loop: y = x; x = 2; if y goto loop; return 0;"
	g := mustBuild(t, src)
	(&UCE{}).Run(g)
	before := lines(g)

	(&DCE{}).Run(g)
	assert.Equal(t, before, lines(g))
	assert.True(t, g.Contains(3), "x = 2 is read by the next iteration")
}

func TestDCEKeepsBranches(t *testing.T) {
	g := mustBuild(t, "if c goto L; return 1; L: return 2;")
	(&UCE{}).Run(g)
	(&DCE{}).Run(g)
	assert.Equal(t, []cfg.ID{0, 1, 3}, g.Live())
}

func TestDCEKeepsSelfLoop(t *testing.T) {
	g := mustBuild(t, "L: x = 1; goto L;")
	(&UCE{}).Run(g)
	(&DCE{}).Run(g)
	assert.Equal(t, []string{"L0:", "  x = 1;", "  goto L0;"}, lines(g))
}

func TestDCEKeepsLoneEntry(t *testing.T) {
	g := mustBuild(t, "x = 1;")
	(&DCE{}).Run(g)
	assert.Equal(t, []string{"  x = 1;"}, lines(g))
}

func TestDCEKeepsSingleFallThroughPredecessor(t *testing.T) {
	g := mustBuild(t, "if c goto L; x = 1; L: return 0;")
	(&UCE{}).Run(g)
	(&DCE{}).Run(g)

	require.False(t, g.Contains(1))
	// the conditional now falls through and jumps to the same statement
	assert.Equal(t, next(3, cfg.None, 3), g.At(0).Next)
	assert.NoError(t, g.Check())
}

func TestDCEKeepsJumpTargetWithoutSuccessor(t *testing.T) {
	g := mustBuild(t, "if c goto L; return 1; L: y = 2;")
	(&UCE{}).Run(g)
	(&DCE{}).Run(g)

	assert.True(t, g.Contains(3), "the conditional jump still needs somewhere to go")
	assert.Equal(t, next(1, cfg.None, 3), g.At(0).Next)
	assert.NoError(t, g.Check())
}

func TestDCERemovesTrailingFallThrough(t *testing.T) {
	g := mustBuild(t, "a = 1; b = 2; d = a; c = 3;")
	(&DCE{}).Run(g)

	assert.Equal(t, []cfg.ID{0}, g.Live())
}

func TestCPFolds(t *testing.T) {
	g := mustBuild(t, "x = 2; y = 3; z = x + y; return z;")
	(&CP{}).Run(g)

	assert.Equal(t, cfg.Assign{Var: "z", Source: cfg.Literal{Value: 5}}, g.At(2).Instr)
	assert.Equal(t, cfg.Return{Value: cfg.Literal{Value: 5}}, g.At(3).Instr)
}

func TestCPDivisionByZero(t *testing.T) {
	g := mustBuild(t, "a = 4; b = 0; c = a / b; return c;")
	(&CP{}).Run(g)

	assert.Equal(t, cfg.AssignOp{
		Var: "c", Op: cfg.OpDiv,
		X: cfg.Literal{Value: 4}, Y: cfg.Literal{Value: 0},
	}, g.At(2).Instr)
	assert.Equal(t, cfg.Return{Value: cfg.Variable{Name: "c"}}, g.At(3).Instr)
}

func TestCPDropsStaleBinding(t *testing.T) {
	g := mustBuild(t, "x = 1; x = y; return x;")
	(&CP{}).Run(g)
	assert.Equal(t, cfg.Return{Value: cfg.Variable{Name: "x"}}, g.At(2).Instr)
}

func TestCPResetsAtLabels(t *testing.T) {
	// the target has a single predecessor but carries a label
	g := mustBuild(t, "x = 1; if c goto L; return 0; L: return x;")
	(&CP{}).Run(g)
	assert.Equal(t, cfg.Return{Value: cfg.Variable{Name: "x"}}, g.At(4).Instr)
}

func TestCPKeepsPathsApart(t *testing.T) {
	g := mustBuild(t, "if c goto L; x = 1; return x; L: x = 2; return x;")
	(&CP{}).Run(g)

	assert.Equal(t, cfg.Return{Value: cfg.Literal{Value: 1}}, g.At(2).Instr)
	assert.Equal(t, cfg.Return{Value: cfg.Literal{Value: 2}}, g.At(5).Instr)
}

func TestCPResolvesBranchAtEntry(t *testing.T) {
	g := mustBuild(t, "if 1 goto L; return 0; L: return 9;")
	(&CP{}).Run(g)

	assert.Equal(t, cfg.ID(3), g.Start)
	(&UCE{}).Run(g)
	assert.Equal(t, []string{"  return 9;"}, lines(g))
}

func TestCPNotTakenBranch(t *testing.T) {
	g := mustBuild(t, "c = 0; if c goto L; a = 5; return a; L: return 7;")
	(&CP{}).Run(g)

	assert.False(t, g.Contains(1))
	assert.Equal(t, next(2, cfg.None, cfg.None), g.At(0).Next)
	assert.Equal(t, cfg.Return{Value: cfg.Literal{Value: 5}}, g.At(3).Instr)
}

func TestCPKeepsConstantSelfLoop(t *testing.T) {
	g := mustBuild(t, "x = 0; L: if 1 goto L; return x;")
	(&UCE{}).Run(g)
	(&CP{}).Run(g)

	assert.True(t, g.Contains(2))
	assert.NoError(t, g.Check())
}

func TestCPKeepsBranchThatWouldLoseItsTarget(t *testing.T) {
	g := mustBuild(t, "if c goto T; return 1; X: return 2; T: if 0 goto X;")
	(&UCE{}).Run(g)
	(&CP{}).Run(g)

	// the decided successor is the missing fall-through, and statement 0
	// jumps here
	assert.True(t, g.Contains(5))
	assert.Equal(t, next(1, cfg.None, 5), g.At(0).Next)
	assert.NoError(t, g.Check())
}
