// Package pathcache implements the grid navigation substrate: static and
// directional passability, the greedy move-towards chooser, and a bounded
// A* over a generation-indexed cache that invalidates in bulk rather than
// per-edge and reuses a hand-rolled min-heap across calls.
package pathcache

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// LanternMinSpacing is the minimum Chebyshev distance a pushed lantern must
// keep from every other lantern on the grid.
const LanternMinSpacing = 3

// IsPassable is the static check used by A* exploration: in-bounds,
// not water-blocked for the agent, door-permissible for the team, and
// either empty or occupied only by a lantern (lanterns are traversable for
// exploration purposes even though moving into one triggers a push).
func IsPassable(w worldapi.World, agent core.AgentID, pos core.Position) bool {
	if !w.IsValid(pos) {
		return false
	}
	if w.IsWaterBlockedForAgent(agent, pos) {
		return false
	}
	if w.HasDoor(pos) && !w.CanAgentPassDoor(agent, pos) {
		return false
	}
	if w.IsEmpty(pos) {
		return true
	}
	if thing, ok := w.ThingAt(pos); ok && thing.Kind == core.KindLantern {
		return true
	}
	return false
}

// InPlayableRegion reports whether pos lies within [border, width-border) x
// [border, height-border).
func InPlayableRegion(pos core.Position, width, height, border int) bool {
	return pos.X >= border && pos.X < width-border &&
		pos.Y >= border && pos.Y < height-border
}

// ClampToPlayable clamps pos into the playable region.
func ClampToPlayable(pos core.Position, width, height, border int) core.Position {
	x, y := pos.X, pos.Y
	if x < border {
		x = border
	} else if x >= width-border {
		x = width - border - 1
	}
	if y < border {
		y = border
	} else if y >= height-border {
		y = height - border - 1
	}
	return core.Position{X: x, Y: y}
}

// CanEnterForMove is the directional enter check used by actual movement
// decisions (A* neighbor gating and greedy stepping). It layers onto
// IsPassable: the target must additionally sit inside the playable border,
// be elevation-traversable from the source, and — if it holds a lantern —
// have a legal push destination.
func CanEnterForMove(w worldapi.World, agent core.AgentID, from, to core.Position, width, height, border int) bool {
	if !InPlayableRegion(to, width, height, border) {
		return false
	}
	if !w.IsValid(to) {
		return false
	}
	if w.IsWaterBlockedForAgent(agent, to) {
		return false
	}
	if w.HasDoor(to) && !w.CanAgentPassDoor(agent, to) {
		return false
	}
	if !w.CanTraverseElevation(from, to) {
		return false
	}
	if w.IsEmpty(to) {
		return true
	}
	thing, ok := w.ThingAt(to)
	if !ok {
		return false
	}
	if thing.Kind != core.KindLantern {
		return false
	}
	_, pushable := LanternPushDestination(w, from, to)
	return pushable
}

// LanternPushDestination finds the destination a lantern at `at` would be
// pushed to by an agent moving from `from` into `at`. Search order is
// two-ahead, then one-ahead, then any adjacent cell to `at`, preferring the
// destination that keeps the push in the agent's direction of travel over
// one that would require the caller to infer a different intent. Returns
// false if no legal destination exists.
func LanternPushDestination(w worldapi.World, from, at core.Position) (core.Position, bool) {
	dx, dy := at.X-from.X, at.Y-from.Y
	dx, dy = signOf(dx), signOf(dy)

	oneAhead := at.Add(dx, dy)
	twoAhead := at.Add(2*dx, 2*dy)

	if isLegalLanternDestination(w, twoAhead) {
		return twoAhead, true
	}
	if isLegalLanternDestination(w, oneAhead) {
		return oneAhead, true
	}
	for _, d := range core.CardinalDirections {
		vx, vy := core.OrientationToVec(d)
		cand := at.Add(vx, vy)
		if isLegalLanternDestination(w, cand) {
			return cand, true
		}
	}
	// Diagonal adjacents complete "any adjacent" after cardinals.
	for _, d := range []core.Direction{core.DirNW, core.DirNE, core.DirSW, core.DirSE} {
		vx, vy := core.OrientationToVec(d)
		cand := at.Add(vx, vy)
		if isLegalLanternDestination(w, cand) {
			return cand, true
		}
	}
	return core.Position{}, false
}

func isLegalLanternDestination(w worldapi.World, pos core.Position) bool {
	if !w.IsValid(pos) {
		return false
	}
	if !w.IsEmpty(pos) {
		return false
	}
	if w.IsTileFrozen(pos) {
		return false
	}
	for _, other := range w.EnumerateByKind(core.KindLantern) {
		if other.Pos.Chebyshev(pos) < LanternMinSpacing {
			return false
		}
	}
	return true
}

func signOf(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
