package option

import (
	"testing"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/teamstate"
	"github.com/kestrel-sim/skirmish/worldapi"
	"github.com/kestrel-sim/skirmish/worldsim"
)

type fakeOption struct {
	name          string
	interruptible bool
	canStart      func() bool
	act           func() core.Action
	terminate     func() bool
}

func (f *fakeOption) Name() string          { return f.name }
func (f *fakeOption) Interruptible() bool   { return f.interruptible }
func (f *fakeOption) CanStart(Context, worldapi.World, core.AgentID, *agentstate.AgentState) bool {
	if f.canStart == nil {
		return false
	}
	return f.canStart()
}
func (f *fakeOption) ShouldTerminate(Context, worldapi.World, core.AgentID, *agentstate.AgentState) bool {
	if f.terminate == nil {
		return false
	}
	return f.terminate()
}
func (f *fakeOption) Act(Context, worldapi.World, core.AgentID, *agentstate.AgentState) core.Action {
	if f.act == nil {
		return 0
	}
	return f.act()
}

type fakeContext struct {
	team core.TeamID
	rng  *core.Rand
}

func (f *fakeContext) Team() core.TeamID { return f.team }
func (f *fakeContext) Rand() *core.Rand  { return f.rng }
func (f *fakeContext) PathCache() *pathcache.PathCache           { return pathcache.NewPathCache(10, 10) }
func (f *fakeContext) Threat() *teamstate.ThreatMap               { return &teamstate.ThreatMap{} }
func (f *fakeContext) Buildings() *teamstate.BuildingCountCache   { return nil }
func (f *fakeContext) Reservations() *teamstate.ReservationTable  { return teamstate.NewReservationTable() }
func (f *fakeContext) CurrentStep() int64                        { return 0 }
func (f *fakeContext) MapDims() (int, int, int)                   { return 10, 10, 1 }

func TestRunOptionsPreemption(t *testing.T) {
	w := worldsim.NewWorld(10, 10)
	s := agentstate.New(core.Position{X: 1, Y: 1})
	ctx := &fakeContext{team: 1, rng: core.NewRand(1)}

	highCanStart := false
	actionA := core.EncodeAction(core.VerbMove, 0)

	high := &fakeOption{
		name: "high", interruptible: true,
		canStart: func() bool { return highCanStart },
		act:      func() core.Action { return actionA },
	}
	low := &fakeOption{
		name: "low", interruptible: true,
		canStart: func() bool { return true },
		act:      func() core.Action { return actionA },
	}
	opts := []Option{high, low}

	// Tick 1: only low.CanStart is true.
	a1 := RunOptions(opts, ctx, w, 1, s)
	if a1 != actionA {
		t.Fatalf("expected low's action on tick 1")
	}
	if s.ActiveOptionID != 1 {
		t.Fatalf("expected low (index 1) active, got %d", s.ActiveOptionID)
	}

	// Tick 2: high becomes startable; the executor must preempt.
	highCanStart = true
	a2 := RunOptions(opts, ctx, w, 1, s)
	if a2 != actionA {
		t.Fatalf("expected an action on tick 2")
	}
	if s.ActiveOptionID != 0 {
		t.Fatalf("expected preemption to index 0 (high), got %d", s.ActiveOptionID)
	}
	if s.ActiveOptionTicks != 1 {
		t.Fatalf("expected ticks reset to 0 then incremented to 1 on preemption tick, got %d", s.ActiveOptionTicks)
	}
}

func TestRunOptionsActZeroClearsAndRescans(t *testing.T) {
	w := worldsim.NewWorld(10, 10)
	s := agentstate.New(core.Position{X: 1, Y: 1})
	ctx := &fakeContext{team: 1, rng: core.NewRand(1)}

	fallbackAction := core.EncodeAction(core.VerbMove, 1)
	first := &fakeOption{
		name: "first", interruptible: false,
		canStart: func() bool { return true },
		act:      func() core.Action { return 0 },
	}
	fallback := &fakeOption{
		name: "fallback", interruptible: false,
		canStart: func() bool { return true },
		act:      func() core.Action { return fallbackAction },
	}
	opts := []Option{first, fallback}

	s.ActiveOptionID = 0
	s.ActiveOptionTicks = 5

	a := RunOptions(opts, ctx, w, 1, s)
	if a != fallbackAction {
		t.Fatalf("expected the fresh scan to reach fallback's action, got %v", a)
	}
	if s.ActiveOptionID != 1 {
		t.Fatalf("fallback's act returned non-zero and should_terminate is false, so it should remain active at index 1, got %d", s.ActiveOptionID)
	}
}

func TestActiveOptionIDInvariant(t *testing.T) {
	w := worldsim.NewWorld(10, 10)
	s := agentstate.New(core.Position{X: 1, Y: 1})
	ctx := &fakeContext{team: 1, rng: core.NewRand(1)}
	opts := []Option{
		&fakeOption{name: "a", canStart: func() bool { return false }},
		&fakeOption{name: "b", canStart: func() bool { return false }},
	}
	RunOptions(opts, ctx, w, 1, s)
	if s.ActiveOptionID != agentstate.NoRole {
		t.Fatalf("no option could start, expected active id NoRole, got %d", s.ActiveOptionID)
	}
}
