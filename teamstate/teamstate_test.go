package teamstate

import (
	"testing"

	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/worldapi"
	"github.com/kestrel-sim/skirmish/worldsim"
)

func TestThreatMapCapBound(t *testing.T) {
	var tm ThreatMap
	for i := 0; i < MaxThreatEntries+20; i++ {
		tm.ReportThreat(core.Position{X: i, Y: 0}, 1, 0, core.AgentID(i+1), false)
	}
	if tm.Count() > MaxThreatEntries {
		t.Fatalf("threat map exceeded cap: %d", tm.Count())
	}
	if tm.Count() != MaxThreatEntries {
		t.Fatalf("expected threat map to fill to cap, got %d", tm.Count())
	}
}

func TestThreatMapIdempotentUpdate(t *testing.T) {
	var tm ThreatMap
	src := core.AgentID(1)
	tm.ReportThreat(core.Position{X: 1, Y: 1}, 3, 10, src, false)
	tm.ReportThreat(core.Position{X: 2, Y: 2}, 7, 11, src, false)
	if tm.Count() != 1 {
		t.Fatalf("expected same-source report to update in place, got count %d", tm.Count())
	}
	e := tm.Entries()[0]
	if e.Strength != 7 || e.LastSeenStep != 11 || !e.Pos.Equal(core.Position{X: 2, Y: 2}) {
		t.Fatalf("unexpected merged entry: %+v", e)
	}
}

func TestThreatMapDecay(t *testing.T) {
	var tm ThreatMap
	tm.ReportThreat(core.Position{X: 0, Y: 0}, 1, 0, core.AgentID(1), false)
	tm.ReportThreat(core.Position{X: 1, Y: 0}, 1, 100, core.AgentID(2), false)
	tm.DecayThreats(100 + ThreatDecaySteps)
	if tm.Count() != 1 {
		t.Fatalf("expected stale entry decayed, got count %d", tm.Count())
	}
	if tm.Entries()[0].SourceID != core.AgentID(2) {
		t.Fatalf("expected the fresher entry to survive decay")
	}
}

const testBuildKeyHouse worldapi.BuildKey = 1

func houseKindOf(k core.EntityKind) (worldapi.BuildKey, bool) {
	if k == core.KindHouse {
		return testBuildKeyHouse, true
	}
	return 0, false
}

func TestBuildClaimDedup(t *testing.T) {
	w := worldsim.NewWorld(20, 20)
	w.PlaceThing(core.Position{X: 5, Y: 5}, worldapi.EntitySnapshot{
		Team: 1, Kind: core.KindHouse, IsStructure: true,
	})

	cache := NewBuildingCountCache(houseKindOf, []core.EntityKind{core.KindHouse})

	if n := cache.Count(w, 1, testBuildKeyHouse); n != 1 {
		t.Fatalf("expected 1 existing house, got %d", n)
	}
	if cache.IsBuildingClaimed(w, 1, testBuildKeyHouse) {
		t.Fatalf("no builder has claimed yet")
	}

	cache.ClaimBuilding(w, 1, testBuildKeyHouse)
	if !cache.IsBuildingClaimed(w, 1, testBuildKeyHouse) {
		t.Fatalf("expected claim to register within the same step")
	}

	// A second builder checking the same tick sees the claim and should not
	// double-claim (scenario 5: two builders, one building slot).
	if !cache.IsBuildingClaimed(w, 1, testBuildKeyHouse) {
		t.Fatalf("second builder should observe the existing claim")
	}

	// Advance the world step: claims reset for the new tick.
	w.Advance()
	if cache.IsBuildingClaimed(w, 1, testBuildKeyHouse) {
		t.Fatalf("claims should not survive past the step they were made in")
	}
}

func TestReservationRefreshAndReject(t *testing.T) {
	w := worldsim.NewWorld(20, 20)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Kind: core.KindWood})
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 1, Kind: core.KindWood})

	rt := NewReservationTable()
	pos := core.Position{X: 3, Y: 3}

	if !rt.Reserve(w, 1, 1, pos, 0) {
		t.Fatalf("expected first reservation to succeed")
	}
	// Scenario 6: a second gatherer tries to reserve the same resource tile
	// while the first reservation is still live -> must be rejected.
	if rt.Reserve(w, 1, 2, pos, 1) {
		t.Fatalf("expected reservation by a different agent to be rejected while live")
	}
	// The original agent re-reserving (still gathering) refreshes, not a
	// conflict with itself.
	if !rt.Reserve(w, 1, 1, pos, 1) {
		t.Fatalf("expected same-agent re-reservation to succeed and refresh")
	}

	// After the reservation's lifetime elapses, the tile becomes available
	// to a different agent again.
	if !rt.Reserve(w, 1, 2, pos, 1+ReservationLifetime) {
		t.Fatalf("expected reservation to become available once expired")
	}
}

func TestReservationFreedOnAgentDeath(t *testing.T) {
	w := worldsim.NewWorld(20, 20)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Kind: core.KindWood})
	rt := NewReservationTable()
	pos := core.Position{X: 3, Y: 3}

	rt.Reserve(w, 1, 1, pos, 0)
	w.KillAgent(1)

	w.SpawnAgent(worldapi.EntitySnapshot{ID: 2, Team: 1, Kind: core.KindWood})
	if !rt.Reserve(w, 1, 2, pos, 1) {
		t.Fatalf("expected reservation held by a dead agent to be treated as not live")
	}
}

func TestReservationSweepExpired(t *testing.T) {
	w := worldsim.NewWorld(20, 20)
	w.SpawnAgent(worldapi.EntitySnapshot{ID: 1, Team: 1, Kind: core.KindWood})
	rt := NewReservationTable()
	pos := core.Position{X: 3, Y: 3}
	rt.Reserve(w, 1, 1, pos, 0)

	rt.SweepExpired(w, ReservationLifetime+1)
	if _, ok := rt.byTeam[1][pos]; ok {
		t.Fatalf("expected expired reservation to be swept")
	}
}
