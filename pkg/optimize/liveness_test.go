package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeLivenessSimple(t *testing.T) {
	// 0: a = 1
	// 1: b = 2
	// 2: c = a + b
	// 3: return c
	g := mustBuild(t, "a = 1; b = 2; c = a + b; return c;")
	info := AnalyzeLiveness(g)

	assert.Equal(t, []string{"a", "b", "c"}, info.Vars)
	assert.Equal(t, []string{"c"}, info.Names(info.LiveIn[3]))
	assert.Empty(t, info.Names(info.LiveOut[3]))
	assert.Equal(t, []string{"a", "b"}, info.Names(info.LiveIn[2]))
	assert.Equal(t, []string{"c"}, info.Names(info.LiveOut[2]))
	assert.Equal(t, []string{"a", "b"}, info.Names(info.LiveOut[1]))
	assert.Equal(t, []string{"a"}, info.Names(info.LiveOut[0]))
	assert.Empty(t, info.Names(info.LiveIn[0]))
}

func TestAnalyzeLivenessWithBranch(t *testing.T) {
	// 0: x = 1
	// 1: if x goto L
	// 2: y = 10
	// 3: return y
	// 5: y = 20
	// 6: return y
	g := mustBuild(t, "x = 1; if x goto L; y = 10; return y; L: y = 20; return y;")
	info := AnalyzeLiveness(g)

	assert.True(t, info.IsLiveOut(0, "x"))
	assert.False(t, info.IsLiveOut(1, "x"))
	assert.False(t, info.IsLiveOut(1, "y"), "y is written on both paths")
	assert.True(t, info.IsLiveOut(2, "y"))
	assert.True(t, info.IsLiveOut(5, "y"))
	assert.False(t, info.IsLiveOut(0, "nosuch"))
}

func TestAnalyzeLivenessWithLoop(t *testing.T) {
	// 0: i = 10
	// 1: s = 0
	// 3: if i goto body
	// 4: return s
	// 6: s = s + i
	// 7: i = i - 1   (jumps back to 3)
	g := mustBuild(t, "i = 10; s = 0; top: if i goto body; return s; body: s = s + i; i = i - 1; goto top;")
	(&UCE{}).Run(g)
	info := AnalyzeLiveness(g)

	assert.Equal(t, []string{"i", "s"}, info.Names(info.LiveIn[3]))
	assert.Equal(t, []string{"i", "s"}, info.Names(info.LiveOut[7]))
	assert.Equal(t, []string{"i", "s"}, info.Names(info.LiveOut[6]))
	assert.Equal(t, []string{"i"}, info.Names(info.LiveOut[0]))
	assert.Empty(t, info.Names(info.LiveIn[0]))

	assert.True(t, info.Use[6].Test(info.index["i"]))
	assert.True(t, info.Def[7].Test(info.index["i"]))
}

func TestAnalyzeLivenessLoopCarriedAcrossHeader(t *testing.T) {
	// x = 2 is only read by the next iteration, through the back edge
	g := mustBuild(t, "x = 1; loop: y = x; x = 2; if y goto loop; return 0;")
	info := AnalyzeLiveness(g)

	assert.True(t, info.IsLiveOut(3, "x"))
	assert.True(t, info.IsLiveOut(0, "x"))
	assert.True(t, info.IsLiveOut(2, "y"))
	assert.False(t, info.IsLiveOut(4, "y"))
}

func TestAnalyzeLivenessNoVariables(t *testing.T) {
	g := mustBuild(t, "return 0;")
	info := AnalyzeLiveness(g)

	assert.Empty(t, info.Vars)
	assert.Empty(t, info.Names(info.LiveIn[0]))
}
