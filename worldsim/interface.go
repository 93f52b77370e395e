package worldsim

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

var _ worldapi.World = (*World)(nil)

func (w *World) Tile(pos core.Position) worldapi.TerrainKind {
	if !w.inBounds(pos) {
		return worldapi.TerrainWall
	}
	return w.terrain[w.idx(pos)]
}

func (w *World) IsValid(pos core.Position) bool {
	if !w.inBounds(pos) {
		return false
	}
	return w.terrain[w.idx(pos)] != worldapi.TerrainWall
}

func (w *World) IsEmpty(pos core.Position) bool {
	if !w.inBounds(pos) {
		return false
	}
	if _, ok := w.things[pos]; ok {
		return false
	}
	return w.cells[w.idx(pos)].count == 0
}

func (w *World) HasDoor(pos core.Position) bool {
	return w.inBounds(pos) && w.doors[w.idx(pos)]
}

func (w *World) IsTileFrozen(pos core.Position) bool {
	return w.inBounds(pos) && w.frozen[w.idx(pos)]
}

func (w *World) ThingAt(pos core.Position) (worldapi.EntitySnapshot, bool) {
	snap, ok := w.things[pos]
	return snap, ok
}

func (w *World) BackgroundThingAt(pos core.Position) (worldapi.EntitySnapshot, bool) {
	return w.ThingAt(pos)
}

func (w *World) TerrainAllows(agent core.AgentID, pos core.Position) bool {
	return w.Tile(pos) != worldapi.TerrainWall
}

func (w *World) CanTraverseElevation(from, to core.Position) bool {
	ft, tt := w.Tile(from), w.Tile(to)
	if ft == tt {
		return true
	}
	// Vertical transitions require a ramp on either endpoint.
	return ft == worldapi.TerrainRamp || tt == worldapi.TerrainRamp
}

func (w *World) IsWaterBlockedForAgent(agent core.AgentID, pos core.Position) bool {
	return w.Tile(pos) == worldapi.TerrainWater
}

func (w *World) CanAgentPassDoor(agent core.AgentID, pos core.Position) bool {
	return true
}

func (w *World) CanPlace(pos core.Position) bool {
	return w.IsValid(pos) && w.IsEmpty(pos)
}

func (w *World) IsRamp(pos core.Position) bool {
	return w.Tile(pos) == worldapi.TerrainRamp
}

func (w *World) NearestOfKind(pos core.Position, kind core.EntityKind, maxDist int) (worldapi.EntitySnapshot, bool) {
	best := worldapi.EntitySnapshot{}
	bestDist := maxDist + 1
	found := false
	for p, snap := range w.things {
		if snap.Kind != kind || !snap.Harvestable {
			continue
		}
		d := pos.Chebyshev(p)
		if maxDist > 0 && d > maxDist {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = snap
			found = true
		}
	}
	for _, rec := range w.agents {
		if !rec.snap.Alive || rec.snap.Kind != kind {
			continue
		}
		d := pos.Chebyshev(rec.snap.Pos)
		if maxDist > 0 && d > maxDist {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = rec.snap
			found = true
		}
	}
	return best, found
}

func (w *World) NearestFriendlyOfKind(pos core.Position, team core.TeamID, kind core.EntityKind, maxDist int) (worldapi.EntitySnapshot, bool) {
	best := worldapi.EntitySnapshot{}
	bestDist := maxDist + 1
	found := false
	for _, rec := range w.agents {
		if !rec.snap.Alive || rec.snap.Kind != kind || rec.snap.Team != team {
			continue
		}
		d := pos.Chebyshev(rec.snap.Pos)
		if maxDist > 0 && d > maxDist {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = rec.snap
			found = true
		}
	}
	return best, found
}

func (w *World) CollectInRange(pos core.Position, kind core.EntityKind, radius int, out []worldapi.EntitySnapshot) []worldapi.EntitySnapshot {
	for p, snap := range w.things {
		if snap.Kind != kind {
			continue
		}
		if pos.Chebyshev(p) <= radius {
			out = append(out, snap)
		}
	}
	for _, rec := range w.agents {
		if !rec.snap.Alive || rec.snap.Kind != kind {
			continue
		}
		if pos.Chebyshev(rec.snap.Pos) <= radius {
			out = append(out, rec.snap)
		}
	}
	return out
}

func (w *World) EnumerateByKind(kind core.EntityKind) []worldapi.EntitySnapshot {
	var out []worldapi.EntitySnapshot
	for _, snap := range w.things {
		if snap.Kind == kind {
			out = append(out, snap)
		}
	}
	for _, rec := range w.agents {
		if rec.snap.Alive && rec.snap.Kind == kind {
			out = append(out, rec.snap)
		}
	}
	return out
}

func (w *World) AgentSnapshot(id core.AgentID) (worldapi.EntitySnapshot, bool) {
	rec, ok := w.agents[id]
	if !ok {
		return worldapi.EntitySnapshot{}, false
	}
	return rec.snap, true
}

func (w *World) EnemiesInRange(self core.AgentID, pos core.Position, radius int) []worldapi.EntitySnapshot {
	selfRec, ok := w.agents[self]
	var selfTeam core.TeamID
	if ok {
		selfTeam = selfRec.snap.Team
	}
	var out []worldapi.EntitySnapshot
	for id, rec := range w.agents {
		if id == self || !rec.snap.Alive || rec.snap.Team == selfTeam {
			continue
		}
		if pos.Chebyshev(rec.snap.Pos) <= radius {
			out = append(out, rec.snap)
		}
	}
	return out
}

func (w *World) StockpileCount(team core.TeamID, resource core.EntityKind) int {
	m, ok := w.stockpile[team]
	if !ok {
		return 0
	}
	return m[resource]
}

func (w *World) CanSpend(team core.TeamID, costs []worldapi.Cost) bool {
	for _, c := range costs {
		if w.StockpileCount(team, c.Resource) < c.Count {
			return false
		}
	}
	return true
}

func (w *World) CanAffordBuild(agent core.AgentID, buildKey worldapi.BuildKey) bool {
	rec, ok := w.agents[agent]
	if !ok {
		return false
	}
	return w.StockpileCount(rec.snap.Team, core.KindWood) > 0
}

func (w *World) CurrentStep() int64 { return w.step }

func (w *World) ExecuteAction(agent core.AgentID, action core.Action) {
	rec, ok := w.agents[agent]
	if !ok || !rec.snap.Alive {
		return
	}
	verb, arg := core.DecodeAction(action)
	if verb == core.VerbMove {
		dx, dy := core.OrientationToVec(core.Direction(arg))
		next := rec.snap.Pos.Add(dx, dy)
		if w.IsValid(next) && w.IsEmpty(next) {
			w.MoveAgent(agent, next)
		}
	}
}
