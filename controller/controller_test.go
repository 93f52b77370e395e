package controller

import (
	"testing"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/role"
	"github.com/kestrel-sim/skirmish/worldapi"
	"github.com/kestrel-sim/skirmish/worldsim"
)

func houseKindOf(k core.EntityKind) (worldapi.BuildKey, bool) {
	if k == core.KindHouse {
		return worldapi.BuildKey(1), true
	}
	return 0, false
}

func newTestController() *Controller {
	catalog := role.NewCatalog([]role.Role{
		{Kind: agentstate.RoleFighter, Name: "fighter", Options: nil},
	})
	return New(40, 40, 2, catalog, houseKindOf, []core.EntityKind{core.KindHouse}, 7)
}

func TestDecideActionDeadAgentIsNoop(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	action := c.DecideAction(w, 99)
	if !action.IsNoop() {
		t.Fatalf("expected NOOP for unknown agent, got %v", action)
	}
}

func TestDecideActionLazyInitAssignsRole(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Kind: core.KindNone, Class: worldapi.ClassMeleeRanged})

	c.UpdateController(w)
	c.DecideAction(w, 1)

	s, ok := c.agents[1]
	if !ok {
		t.Fatalf("expected agent state to be created on first decide")
	}
	if s.RoleID != 0 {
		t.Fatalf("expected first agent assigned role 0, got %d", s.RoleID)
	}
}

func TestDecideActionAutoAttack(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 2, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 11, Y: 10}})

	c.UpdateController(w)
	action := c.DecideAction(w, 1)
	verb, _ := core.DecodeAction(action)
	if verb != core.VerbAttack {
		t.Fatalf("expected an attack against the adjacent enemy, got verb %d", verb)
	}
}

func TestStanceNoAttackSuppressesAutoAttack(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 2, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 11, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1) // lazy-init
	c.SetStance(1, worldapi.StanceNoAttack)

	action := c.DecideAction(w, 1)
	verb, _ := core.DecodeAction(action)
	if verb == core.VerbAttack {
		t.Fatalf("expected stance NoAttack to suppress auto-attack")
	}
}

func TestPushCommandPreemptsNormalPipeline(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1) // lazy-init

	queued := core.EncodeMove(core.DirE)
	c.PushCommand(1, queued)

	action := c.DecideAction(w, 1)
	if action != queued {
		t.Fatalf("expected the queued command to preempt the pipeline, got %v want %v", action, queued)
	}
	if _, ok := c.PopCommand(1); ok {
		t.Fatalf("expected the command queue to be drained after DecideAction consumed it")
	}
}

func TestHoldPositionSuppressesMovement(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1) // lazy-init
	c.SetHoldPosition(1, true)

	action := c.DecideAction(w, 1)
	if !action.IsNoop() {
		t.Fatalf("expected HoldPosition to force NOOP, got %v", action)
	}
}

func TestStopAgentConsumesItselfOnce(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1) // lazy-init
	c.StopAgent(1)

	if action := c.DecideAction(w, 1); !action.IsNoop() {
		t.Fatalf("expected the tick stop is consumed on to be NOOP, got %v", action)
	}
	s := c.agents[1]
	if s.StopFlag {
		t.Fatalf("expected StopFlag to clear itself after being consumed")
	}
}

func TestFollowActiveMovesTowardTarget(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 20, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1) // lazy-init
	c.SetFollowTarget(1, 2)

	action := c.DecideAction(w, 1)
	verb, _ := core.DecodeAction(action)
	if verb != core.VerbMove {
		t.Fatalf("expected a move toward the followed agent, got verb %d", verb)
	}
}

func TestRevealFogMarksAgentVicinity(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 20, Y: 20}})

	c.UpdateController(w)
	c.DecideAction(w, 1)

	if !c.FogFor(1).IsRevealed(core.Position{X: 20, Y: 20}) {
		t.Fatalf("expected the agent's own tile to be revealed after a decide_action call")
	}
}

func TestPendingHybridRoleReassignsNamedAgent(t *testing.T) {
	catalog := role.NewCatalog([]role.Role{
		{Kind: agentstate.RoleFighter, Name: "fighter", Options: nil},
		{Kind: agentstate.RoleBuilder, Name: "builder", Options: nil},
	})
	c := New(40, 40, 2, catalog, houseKindOf, []core.EntityKind{core.KindHouse}, 7)
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 10, Y: 10}})
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 12, Y: 10}})

	c.UpdateController(w)
	c.DecideAction(w, 1)
	c.DecideAction(w, 2)

	if c.agents[1].RoleKind != agentstate.RoleFighter {
		t.Fatalf("expected agent 1 to start as fighter, got %v", c.agents[1].RoleKind)
	}

	c.PushPendingHybridRole(1, agentstate.RoleBuilder)
	c.UpdateController(w)

	s := c.agents[1]
	if s.RoleKind != agentstate.RoleBuilder {
		t.Fatalf("expected agent 1 reassigned to builder, got %v", s.RoleKind)
	}
	if s.RoleID != 1 {
		t.Fatalf("expected RoleID to resolve to the builder catalog slot, got %d", s.RoleID)
	}
	if s.ActiveOptionID != agentstate.NoRole {
		t.Fatalf("expected active option cleared on role change, got %d", s.ActiveOptionID)
	}
	if other := c.agents[2]; other.RoleKind != agentstate.RoleFighter {
		t.Fatalf("expected agent 2 untouched by a request naming only agent 1, got %v", other.RoleKind)
	}
}

func TestPendingHybridRoleUnknownAgentIsDropped(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)

	c.PushPendingHybridRole(999, agentstate.RoleBuilder)
	c.UpdateController(w) // must not panic on an agent the controller never saw
}

func TestEpisodeResetClearsState(t *testing.T) {
	c := newTestController()
	w := worldsim.NewWorld(40, 40)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Class: worldapi.ClassMeleeRanged, Pos: core.Position{X: 5, Y: 5}})

	w.SetStep(10)
	c.UpdateController(w)
	c.DecideAction(w, 1)
	if len(c.agents) != 1 {
		t.Fatalf("expected one tracked agent before reset")
	}

	w.SetStep(0)
	c.UpdateController(w)
	if len(c.agents) != 0 {
		t.Fatalf("expected episode reset to clear tracked agent state")
	}
}
