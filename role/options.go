package role

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/option"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/spiral"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// moveToward is the shared moveTo dispatch used by every option below: A*
// for long distance or a stuck agent, greedy move_towards otherwise, with
// the blocked-target/spiral-fallback degradation. Options call this instead
// of duplicating navigation policy.
func moveToward(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState, to core.Position) core.Direction {
	width, height, border := ctx.MapDims()

	if s.HasPathBlocked && s.PathBlockedTarget.Equal(to) {
		next := spiral.NextStep(s, width, height, border)
		return pathcache.MoveTowards(w, agent, s.LastSearchPosition, next, s.BlockedMoveDir, width, height, border)
	}

	stuck := s.UniquePositionsInWindow(6) <= 2
	if stuck {
		s.ClearPlannedPath()
	}

	from, _ := agentPosition(w, agent)
	longDistance := from.Chebyshev(to) >= 6

	if !longDistance && !stuck {
		return pathcache.MoveTowards(w, agent, from, to, s.BlockedMoveDir, width, height, border)
	}

	if !s.HasPlannedTarget || !s.PlannedTarget.Equal(to) || s.PlannedPathIndex >= len(s.PlannedPath) {
		path := pathcache.FindPath(ctx.PathCache(), w, agent, from, to, width, height, border)
		if len(path) == 0 {
			s.PathBlockedTarget = to
			s.HasPathBlocked = true
			next := spiral.NextStep(s, width, height, border)
			return pathcache.MoveTowards(w, agent, from, next, s.BlockedMoveDir, width, height, border)
		}
		s.PlannedPath = append(s.PlannedPath[:0], path...)
		// path[0] is the agent's own cell; the first step is path[1].
		s.PlannedPathIndex = 1
		s.PlannedTarget = to
		s.HasPlannedTarget = true
		s.HasPathBlocked = false
	}

	if s.PlannedPathIndex >= len(s.PlannedPath) {
		return core.DirNone
	}
	next := s.PlannedPath[s.PlannedPathIndex]
	if !pathcache.CanEnterForMove(w, agent, from, next, width, height, border) {
		path := pathcache.FindPath(ctx.PathCache(), w, agent, from, to, width, height, border)
		if len(path) == 0 {
			s.PathBlockedTarget = to
			s.HasPathBlocked = true
			spiralNext := spiral.NextStep(s, width, height, border)
			return pathcache.MoveTowards(w, agent, from, spiralNext, s.BlockedMoveDir, width, height, border)
		}
		s.PlannedPath = append(s.PlannedPath[:0], path...)
		s.PlannedPathIndex = 1
		if len(s.PlannedPath) < 2 {
			return core.DirNone
		}
		next = s.PlannedPath[1]
	}
	s.PlannedPathIndex++
	return core.VecToOrientation(next.X-from.X, next.Y-from.Y)
}

func agentPosition(w worldapi.World, agent core.AgentID) (core.Position, bool) {
	snap, ok := w.AgentSnapshot(agent)
	return snap.Pos, ok
}

// GatherOption is the representative Gatherer behavior: find a harvestable
// resource of Kind, reserve it against other gatherers on the team, move to
// it, and harvest (USE) on arrival.
type GatherOption struct {
	Kind    core.EntityKind
	MaxDist int
}

func (o *GatherOption) Name() string        { return "gather" }
func (o *GatherOption) Interruptible() bool { return true }

func (o *GatherOption) CanStart(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	width, height, border := ctx.MapDims()
	_, ok := spiral.FindNearestThing(w, s, o.Kind, ctx.CurrentStep(), o.MaxDist, width, height, border)
	return ok
}

func (o *GatherOption) ShouldTerminate(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	width, height, border := ctx.MapDims()
	_, ok := spiral.FindNearestThing(w, s, o.Kind, ctx.CurrentStep(), o.MaxDist, width, height, border)
	return !ok
}

func (o *GatherOption) Act(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action {
	width, height, border := ctx.MapDims()
	target, ok := spiral.FindNearestThing(w, s, o.Kind, ctx.CurrentStep(), o.MaxDist, width, height, border)
	if !ok {
		return core.NoopAction
	}

	if !ctx.Reservations().Reserve(w, ctx.Team(), agent, target.Pos, ctx.CurrentStep()) {
		return core.NoopAction
	}

	from, ok := agentPosition(w, agent)
	if !ok {
		return core.NoopAction
	}
	if from.Chebyshev(target.Pos) <= 1 {
		return core.EncodeAction(core.VerbUse, 0)
	}
	dir := moveToward(ctx, w, agent, s, target.Pos)
	if dir == core.DirNone {
		return core.NoopAction
	}
	return core.EncodeMove(dir)
}

// BuildOption is the representative Builder behavior: claim an unclaimed
// building slot for the team this step and walk the builder to the build
// stand, issuing BUILD on arrival.
type BuildOption struct {
	Key      worldapi.BuildKey
	MaxCount int
}

func (o *BuildOption) Name() string        { return "build" }
func (o *BuildOption) Interruptible() bool { return true }

func (o *BuildOption) CanStart(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	if ctx.Buildings() == nil {
		return false
	}
	if ctx.Buildings().IsBuildingClaimed(w, ctx.Team(), o.Key) {
		return false
	}
	return ctx.Buildings().Count(w, ctx.Team(), o.Key) < o.MaxCount
}

func (o *BuildOption) ShouldTerminate(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	return s.BuildLockSteps <= 0
}

func (o *BuildOption) Act(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action {
	if !s.HasPlannedTarget || s.BuildTarget.Equal(core.Position{}) {
		s.BuildTarget = s.BasePosition.Add(5, 0)
		s.BuildStand = s.BasePosition.Add(4, 0)
	}
	s.BuildIndex = int(o.Key)
	ctx.Buildings().ClaimBuilding(w, ctx.Team(), o.Key)

	from, ok := agentPosition(w, agent)
	if !ok {
		return core.NoopAction
	}
	if from.Equal(s.BuildStand) {
		if !w.CanAffordBuild(agent, o.Key) {
			return core.NoopAction
		}
		s.BuildLockSteps = 0
		return core.EncodeAction(core.VerbBuild, int(o.Key))
	}
	dir := moveToward(ctx, w, agent, s, s.BuildStand)
	if dir == core.DirNone {
		return core.NoopAction
	}
	s.BuildLockSteps++
	return core.EncodeMove(dir)
}

// ThreatResponseOption is the representative Fighter behavior that
// consumes the shared team threat map rather than the agent's own vision:
// it converges on the strongest currently-live threat report, letting a
// fighter react to enemies teammates spotted but it hasn't seen itself.
// Auto-attack still takes over once an enemy is actually within range;
// this option only gets the fighter there.
type ThreatResponseOption struct {
	MinStrength int
}

func (o *ThreatResponseOption) Name() string        { return "threat_response" }
func (o *ThreatResponseOption) Interruptible() bool { return true }

func (o *ThreatResponseOption) strongestThreat(ctx option.Context, from core.Position) (core.Position, bool) {
	tm := ctx.Threat()
	if tm == nil || tm.Count() == 0 {
		return core.Position{}, false
	}
	found := false
	var best core.Position
	bestStrength := o.MinStrength - 1
	bestDist := 1 << 30
	for _, e := range tm.Entries() {
		if e.Strength < o.MinStrength {
			continue
		}
		d := from.Chebyshev(e.Pos)
		if e.Strength > bestStrength || (e.Strength == bestStrength && d < bestDist) {
			bestStrength = e.Strength
			bestDist = d
			best = e.Pos
			found = true
		}
	}
	return best, found
}

func (o *ThreatResponseOption) CanStart(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	from, ok := agentPosition(w, agent)
	if !ok {
		return false
	}
	_, ok = o.strongestThreat(ctx, from)
	return ok
}

func (o *ThreatResponseOption) ShouldTerminate(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool {
	from, ok := agentPosition(w, agent)
	if !ok {
		return true
	}
	_, ok = o.strongestThreat(ctx, from)
	return !ok
}

func (o *ThreatResponseOption) Act(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action {
	from, ok := agentPosition(w, agent)
	if !ok {
		return core.NoopAction
	}
	target, ok := o.strongestThreat(ctx, from)
	if !ok {
		return core.NoopAction
	}
	dir := moveToward(ctx, w, agent, s, target)
	if dir == core.DirNone {
		return core.NoopAction
	}
	return core.EncodeMove(dir)
}

// WanderOption is the lowest-priority fallback: always startable, advances
// the agent's spiral cursor and steps toward it. Grounded on
// spiral.NextStep.
type WanderOption struct{}

func (o *WanderOption) Name() string        { return "wander" }
func (o *WanderOption) Interruptible() bool { return true }

func (o *WanderOption) CanStart(option.Context, worldapi.World, core.AgentID, *agentstate.AgentState) bool {
	return true
}

func (o *WanderOption) ShouldTerminate(option.Context, worldapi.World, core.AgentID, *agentstate.AgentState) bool {
	return false
}

func (o *WanderOption) Act(ctx option.Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action {
	width, height, border := ctx.MapDims()
	next := spiral.NextStep(s, width, height, border)
	from, ok := agentPosition(w, agent)
	if !ok {
		return core.NoopAction
	}
	dir := pathcache.MoveTowards(w, agent, from, next, s.BlockedMoveDir, width, height, border)
	if dir == core.DirNone {
		return core.NoopAction
	}
	return core.EncodeMove(dir)
}
