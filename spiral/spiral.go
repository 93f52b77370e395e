// Package spiral implements the stateful spiral search iterator, the
// cached-"closest thing" lookup, and per-team fog-of-war reveal an agent
// uses to explore and remember the map around it.
package spiral

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// RebaseAfterArcs is the arc count at which a spiral search recenters on
// its current position instead of returning toward its original base, so a
// long-running agent keeps exploring locally rather than spiraling back
// toward a spawn point it left long ago.
const RebaseAfterArcs = 100

// spiralDirsCW and spiralDirsCCW are the 4-direction cycles a square spiral
// rotates through; clockwise starts east then turns south, counterclockwise
// starts east then turns north.
var spiralDirsCW = [4]core.Direction{core.DirE, core.DirS, core.DirW, core.DirN}
var spiralDirsCCW = [4]core.Direction{core.DirE, core.DirN, core.DirW, core.DirS}

// NextStep advances the agent's spiral cursor by one cell and returns the
// new absolute position, clamped to the playable region. Call once per tick
// that the spiral search is in use.
func NextStep(s *agentstate.AgentState, width, height, border int) core.Position {
	dirs := spiralDirsCW
	if !s.SpiralClockwise {
		dirs = spiralDirsCCW
	}

	armLength := s.SpiralArcsCompleted/2 + 1
	dirIdx := s.SpiralArcsCompleted % 4
	dx, dy := core.OrientationToVec(dirs[dirIdx])

	next := s.LastSearchPosition.Add(dx, dy)
	next = pathcache.ClampToPlayable(next, width, height, border)
	s.LastSearchPosition = next

	s.SpiralStepsInArc++
	if s.SpiralStepsInArc >= armLength {
		s.SpiralStepsInArc = 0
		s.SpiralArcsCompleted++
		if s.SpiralArcsCompleted >= RebaseAfterArcs {
			s.BasePosition = next
			s.SpiralArcsCompleted = 0
		}
	}

	return next
}

// ResetCursor restarts the spiral from the agent's current base position.
func ResetCursor(s *agentstate.AgentState) {
	s.LastSearchPosition = s.BasePosition
	s.SpiralArcsCompleted = 0
	s.SpiralStepsInArc = 0
}

// --- Cached-thing lookup ---

// CacheMaxAge is the tick age at which a cached thing position is
// considered stale and must be refreshed from the world.
const CacheMaxAge = 40

// SpiralAdvanceSteps is how far the spiral cursor advances before a second
// world query attempt when both the last-search and base-position queries
// miss.
const SpiralAdvanceSteps = 3

// SearchRadius bounds the Manhattan distance a cached position may be from
// the current search cursor to still count as "nearby" for reuse.
const SearchRadius = 12

// FindNearestThing resolves the nearest entity of `kind` to the agent,
// preferring a still-valid cache entry, then falling back through
// last-search-position, base-position, and spiral-advance queries.
func FindNearestThing(w worldapi.World, s *agentstate.AgentState, kind core.EntityKind, currentStep int64, maxDist, width, height, border int) (worldapi.EntitySnapshot, bool) {
	if cached, ok := s.CachedThingPos[kind]; ok {
		age := currentStep - s.CachedThingStep[kind]
		if age < CacheMaxAge && cached.Manhattan(s.LastSearchPosition) <= SearchRadius {
			if snap, ok := w.ThingAt(cached); ok && snap.Kind == kind && snap.Harvestable {
				return snap, true
			}
		}
		delete(s.CachedThingPos, kind)
		delete(s.CachedThingStep, kind)
	}

	if snap, ok := w.NearestOfKind(s.LastSearchPosition, kind, maxDist); ok {
		s.CachedThingPos[kind] = snap.Pos
		s.CachedThingStep[kind] = currentStep
		return snap, true
	}

	if snap, ok := w.NearestOfKind(s.BasePosition, kind, maxDist); ok {
		s.CachedThingPos[kind] = snap.Pos
		s.CachedThingStep[kind] = currentStep
		return snap, true
	}

	for i := 0; i < SpiralAdvanceSteps; i++ {
		NextStep(s, width, height, border)
	}
	if snap, ok := w.NearestOfKind(s.LastSearchPosition, kind, maxDist); ok {
		s.CachedThingPos[kind] = snap.Pos
		s.CachedThingStep[kind] = currentStep
		return snap, true
	}

	return worldapi.EntitySnapshot{}, false
}
