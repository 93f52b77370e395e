package controller

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/config"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/spiral"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// updateThreatFromVision classifies enemies currently visible to agent into
// a coarse strength tier and reports them into the team's shared threat map.
func (c *Controller) updateThreatFromVision(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, team core.TeamID, diff config.DifficultyConfig) {
	tm := c.threatFor(team)
	for _, enemy := range w.EnemiesInRange(agent, snap.Pos, diff.VisionRadius) {
		strength := 2
		if enemy.IsCorruption {
			strength = 4
		}
		tm.ReportThreat(enemy.Pos, strength, c.lastStep, enemy.ID, enemy.IsStructure)
	}
}

// revealFog reveals a Chebyshev square of the agent's vision radius
// (scouts get a larger radius) around its current position.
func (c *Controller) revealFog(snap worldapi.EntitySnapshot, team core.TeamID, diff config.DifficultyConfig) {
	radius := diff.VisionRadius
	if snap.Class == worldapi.ClassScout {
		radius = diff.ScoutVisionRadius
	}
	c.FogFor(team).Reveal(snap.Pos, radius)
}

// goblinDecision is the goblin class override: flee from nearby enemies,
// else seek the nearest relic, else spiral outward in search of one. Always
// produces an action (possibly NOOP once the team has stockpiled enough
// relics that goblins stop collecting).
func (c *Controller) goblinDecision(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState, team core.TeamID, diff config.DifficultyConfig) core.Action {
	if w.StockpileCount(team, core.KindRelic) >= RelicSaturationCap {
		return core.NoopAction
	}

	if enemies := w.EnemiesInRange(agent, snap.Pos, diff.GoblinAvoidRadius); len(enemies) > 0 {
		nearest := enemies[0]
		for _, e := range enemies[1:] {
			if snap.Pos.Chebyshev(e.Pos) < snap.Pos.Chebyshev(nearest.Pos) {
				nearest = e
			}
		}
		dx, dy := snap.Pos.X-nearest.Pos.X, snap.Pos.Y-nearest.Pos.Y
		fleeTo := snap.Pos.Add(dx, dy)
		dir := pathcache.MoveTowards(w, agent, snap.Pos, fleeTo, s.BlockedMoveDir, c.Width, c.Height, c.Border)
		if dir != core.DirNone {
			return core.EncodeMove(dir)
		}
	}

	if relic, ok := c.spiralFindNearest(w, s, core.KindRelic, 0); ok {
		dir := pathcache.MoveTowards(w, agent, snap.Pos, relic.Pos, s.BlockedMoveDir, c.Width, c.Height, c.Border)
		if dir != core.DirNone {
			return core.EncodeMove(dir)
		}
	}

	next := spiral.NextStep(s, c.Width, c.Height, c.Border)
	dir := pathcache.MoveTowards(w, agent, snap.Pos, next, s.BlockedMoveDir, c.Width, c.Height, c.Border)
	if dir == core.DirNone {
		return core.NoopAction
	}
	return core.EncodeMove(dir)
}

// autoAttack fires at the priority enemy within range, if any, suppressed
// entirely when the agent's stance is set to NoAttack.
func (c *Controller) autoAttack(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) (core.Action, bool) {
	if s.Stance == worldapi.StanceNoAttack {
		return core.NoopAction, false
	}

	radius := AttackRange
	if snap.Class == worldapi.ClassSiege {
		radius = SiegeRange
	}

	target, ok := bestAttackTarget(w, agent, snap, radius)
	if !ok {
		return core.NoopAction, false
	}
	dx, dy := target.Pos.X-snap.Pos.X, target.Pos.Y-snap.Pos.Y
	dir := core.VecToOrientation(dx, dy)
	if dir == core.DirNone {
		return core.NoopAction, false
	}
	return core.EncodeAction(core.VerbAttack, int(dir)), true
}

// bestAttackTarget resolves the priority target within range: siege prefers
// structures; everyone else prefers corruption entities, then enemy
// agents, then structures.
func bestAttackTarget(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, radius int) (worldapi.EntitySnapshot, bool) {
	enemies := w.EnemiesInRange(agent, snap.Pos, radius)
	if len(enemies) == 0 {
		return worldapi.EntitySnapshot{}, false
	}

	if snap.Class == worldapi.ClassSiege {
		if t, ok := nearestMatching(snap.Pos, enemies, func(e worldapi.EntitySnapshot) bool { return e.IsStructure }); ok {
			return t, true
		}
		return nearest(snap.Pos, enemies), true
	}

	if t, ok := nearestMatching(snap.Pos, enemies, func(e worldapi.EntitySnapshot) bool { return e.IsCorruption }); ok {
		return t, true
	}
	if t, ok := nearestMatching(snap.Pos, enemies, func(e worldapi.EntitySnapshot) bool { return !e.IsStructure }); ok {
		return t, true
	}
	return nearest(snap.Pos, enemies), true
}

func nearestMatching(from core.Position, entries []worldapi.EntitySnapshot, pred func(worldapi.EntitySnapshot) bool) (worldapi.EntitySnapshot, bool) {
	best := worldapi.EntitySnapshot{}
	bestDist := 1 << 30
	found := false
	for _, e := range entries {
		if !pred(e) {
			continue
		}
		if d := from.Chebyshev(e.Pos); d < bestDist {
			bestDist = d
			best = e
			found = true
		}
	}
	return best, found
}

func nearest(from core.Position, entries []worldapi.EntitySnapshot) worldapi.EntitySnapshot {
	best := entries[0]
	bestDist := from.Chebyshev(best.Pos)
	for _, e := range entries[1:] {
		if d := from.Chebyshev(e.Pos); d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

// patrolRallyAttackMove handles the three mutually exclusive movement
// directives an external caller can set on an agent: patrol (cycle between
// waypoints, attacking en route), attack-move (advance to a target,
// engaging anything that enters range), and rally (advance to a target with
// no engagement).
func (c *Controller) patrolRallyAttackMove(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) (core.Action, bool) {
	if s.PatrolActive && len(s.PatrolWaypoints) > 0 {
		target := s.PatrolWaypoints[s.PatrolIndex%len(s.PatrolWaypoints)]
		if snap.Pos.Chebyshev(target) <= ArrivalThreshold {
			s.PatrolIndex = (s.PatrolIndex + 1) % len(s.PatrolWaypoints)
			target = s.PatrolWaypoints[s.PatrolIndex]
		}
		if s.Stance != worldapi.StanceNoAttack {
			if action, ok := c.autoAttack(w, agent, snap, s); ok {
				return action, true
			}
		}
		return c.greedyActionTowards(w, agent, snap, s, target)
	}

	if s.AttackMoveActive {
		if snap.Pos.Chebyshev(s.AttackMoveTarget) <= ArrivalThreshold {
			s.AttackMoveActive = false
			return core.NoopAction, true
		}
		if enemies := w.EnemiesInRange(agent, snap.Pos, AttackMoveEngageRange); len(enemies) > 0 {
			if action, ok := c.autoAttack(w, agent, snap, s); ok {
				return action, true
			}
		}
		return c.greedyActionTowards(w, agent, snap, s, s.AttackMoveTarget)
	}

	if s.RallyActive {
		if snap.Pos.Chebyshev(s.RallyTarget) <= ArrivalThreshold {
			s.RallyActive = false
			return core.NoopAction, true
		}
		return c.greedyActionTowards(w, agent, snap, s, s.RallyTarget)
	}

	return core.NoopAction, false
}

func (c *Controller) greedyActionTowards(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState, target core.Position) (core.Action, bool) {
	dir := pathcache.MoveTowards(w, agent, snap.Pos, target, s.BlockedMoveDir, c.Width, c.Height, c.Border)
	if dir == core.DirNone {
		return core.NoopAction, true
	}
	return core.EncodeMove(dir), true
}

// holdFollowGuardStop handles the remaining per-agent directive flags
// (hold/follow/guard/stop) at the same priority tier as patrol, rally, and
// attack-move: an explicit directive from outside the role options,
// consulted after auto-attack has already had its chance to fire this tick.
func (c *Controller) holdFollowGuardStop(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) (core.Action, bool) {
	if s.StopFlag {
		s.StopFlag = false
		return core.NoopAction, true
	}

	if s.HoldPosition {
		return core.NoopAction, true
	}

	if s.FollowActive {
		target, ok := w.AgentSnapshot(s.FollowTarget)
		if !ok || !target.Alive {
			s.FollowActive = false
			return core.NoopAction, false
		}
		if snap.Pos.Chebyshev(target.Pos) <= ArrivalThreshold {
			return core.NoopAction, true
		}
		return c.greedyActionTowards(w, agent, snap, s, target.Pos)
	}

	if s.GuardActive {
		if enemies := w.EnemiesInRange(agent, snap.Pos, AttackRange); len(enemies) > 0 {
			if action, ok := c.autoAttack(w, agent, snap, s); ok {
				return action, true
			}
		}
		if snap.Pos.Chebyshev(s.GuardTarget) <= ArrivalThreshold {
			return core.NoopAction, true
		}
		return c.greedyActionTowards(w, agent, snap, s, s.GuardTarget)
	}

	return core.NoopAction, false
}

// settlerMigration advances a settler toward its migration target and
// clears the directive on arrival. A group-size abort (turning back once
// too few settlers remain in the party) would require counting a team's
// living population, which the worldapi.World surface does not expose as a
// generic query; see DESIGN.md for the resulting scope decision.
func (c *Controller) settlerMigration(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) (core.Action, bool) {
	if !s.SettlerActive {
		return core.NoopAction, false
	}
	if snap.Pos.Chebyshev(s.SettlerTarget) <= ArrivalThreshold {
		s.SettlerActive = false
		return core.NoopAction, true
	}
	return c.greedyActionTowards(w, agent, snap, s, s.SettlerTarget)
}

// gathererPriorityGlobals handles the gatherer role's two standing
// priorities, checked ahead of its normal option list: tithe at the altar
// whenever the team can afford it, else work toward the team's house quota.
func (c *Controller) gathererPriorityGlobals(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState, team core.TeamID) (core.Action, bool) {
	heartCost := []worldapi.Cost{{Resource: core.KindGold, Count: 1}}
	if w.CanSpend(team, heartCost) {
		if altar, ok := c.spiralFindNearest(w, s, core.KindAltar, 0); ok {
			if snap.Pos.Chebyshev(altar.Pos) <= 1 {
				return core.EncodeAction(core.VerbUse, 0), true
			}
			return c.greedyActionTowards(w, agent, snap, s, altar.Pos)
		}
	}

	const houseBuildKey = worldapi.BuildKey(1)
	const desiredHouses = 3
	if c.buildings.Count(w, team, houseBuildKey) < desiredHouses && !c.buildings.IsBuildingClaimed(w, team, houseBuildKey) {
		site := houseSite(w, s.BasePosition, c.rng)
		c.buildings.ClaimBuilding(w, team, houseBuildKey)
		if snap.Pos.Equal(site) {
			if w.CanAffordBuild(agent, houseBuildKey) {
				return core.EncodeAction(core.VerbBuild, int(houseBuildKey)), true
			}
			return core.NoopAction, true
		}
		return c.greedyActionTowards(w, agent, snap, s, site)
	}

	return core.NoopAction, false
}

// houseMinSpacing is the minimum Chebyshev distance a candidate house site
// must keep from every existing house, to avoid lining up or clustering.
const houseMinSpacing = 4

// houseSiteAttempts bounds the reject/retry loop; if every attempt lands
// too close to an existing house, the last candidate is used anyway rather
// than stalling the gatherer indefinitely.
const houseSiteAttempts = 8

// houseSite picks a candidate 5-15 tiles from base, rejecting and retrying
// sites that land too close to an existing house so houses don't end up in
// lines or dense clusters.
func houseSite(w worldapi.World, base core.Position, rng *core.Rand) core.Position {
	var candidate core.Position
	for attempt := 0; attempt < houseSiteAttempts; attempt++ {
		dist := 5 + rng.Intn(11)
		dir := core.Direction(rng.Intn(int(core.DirCount)))
		dx, dy := core.OrientationToVec(dir)
		candidate = base.Add(dx*dist, dy*dist)
		if houseSiteWellSpaced(w, candidate) {
			return candidate
		}
	}
	return candidate
}

func houseSiteWellSpaced(w worldapi.World, pos core.Position) bool {
	for _, other := range w.EnumerateByKind(core.KindHouse) {
		if other.Pos.Chebyshev(pos) < houseMinSpacing {
			return false
		}
	}
	return true
}
