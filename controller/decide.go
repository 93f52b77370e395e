package controller

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/config"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/option"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// DecideAction runs the full per-agent decision pipeline for one tick and
// returns the encoded action (possibly NOOP). It is total: an invalid or
// dead agent always yields NOOP. Branches are ordered by priority — queued
// commands preempt everything, then difficulty-driven delay/vision/fog
// bookkeeping, then the goblin-specific flee behavior, then stuck/escape
// recovery, then auto-attack, then the per-agent override behaviors
// (patrol/attack-move/hold/follow/guard/stop), then settler migration, then
// role-level priority globals, and finally the role's own option list.
func (c *Controller) DecideAction(w worldapi.World, agent core.AgentID) core.Action {
	snap, ok := w.AgentSnapshot(agent)
	if !ok || !snap.Alive {
		return core.NoopAction
	}
	team := snap.Team

	s, isNew := c.stateFor(agent, snap.Pos)
	if isNew {
		c.initializeAgent(agent, team, snap.Class, s)
	}

	if action, ok := c.popQueuedCommand(s); ok {
		return c.finish(agent, s, action)
	}

	diff := c.difficultyFor(team)
	if diff.DecisionDelayProbability > 0 && c.rng.Float64() < diff.DecisionDelayProbability {
		return c.finish(agent, s, core.NoopAction)
	}

	if diff.ThreatMapEnabled && c.threatStaggerDue(agent, diff) {
		c.updateThreatFromVision(w, agent, snap, team, diff)
		c.threatFor(team).DecayThreats(c.lastStep)
	}

	c.revealFog(snap, team, diff)

	c.applyUnitAutoModes(snap, s)

	if snap.Class == worldapi.ClassGoblin {
		return c.finish(agent, s, c.goblinDecision(w, agent, snap, s, team, diff))
	}

	c.updateStuckEscape(w, agent, snap, s)
	if s.EscapeMode {
		if action := c.escapeStep(w, agent, snap, s); !action.IsNoop() {
			return c.finish(agent, s, action)
		}
	}

	if action, ok := c.autoAttack(w, agent, snap, s); ok {
		return c.finish(agent, s, action)
	}

	if action, ok := c.patrolRallyAttackMove(w, agent, snap, s); ok {
		return c.finish(agent, s, action)
	}

	if action, ok := c.holdFollowGuardStop(w, agent, snap, s); ok {
		return c.finish(agent, s, action)
	}

	if action, ok := c.settlerMigration(w, agent, snap, s); ok {
		return c.finish(agent, s, action)
	}

	if s.RoleKind == agentstate.RoleGatherer {
		if action, ok := c.gathererPriorityGlobals(w, agent, snap, s, team); ok {
			return c.finish(agent, s, action)
		}
	}

	roleDef, ok := c.Catalog.Role(s.RoleID)
	if !ok {
		return c.finish(agent, s, core.NoopAction)
	}
	ctx := &agentContext{c: c, team: team}
	action := option.RunOptions(roleDef.Options, ctx, w, agent, s)
	return c.finish(agent, s, action)
}

// initializeAgent runs once, on an agent's first DecideAction call: it
// assigns a role from the slot-based defaults and anchors the agent's
// spiral base at its spawn position.
func (c *Controller) initializeAgent(agent core.AgentID, team core.TeamID, class worldapi.AgentClass, s *agentstate.AgentState) {
	ord := c.ordinal[team]
	c.ordinal[team] = ord + 1

	roleID := c.Catalog.DefaultSlot(ord)
	kind := agentstate.RoleFighter
	if roleDef, ok := c.Catalog.Role(roleID); ok {
		kind = roleDef.Kind
	}
	s.ResetRole(kind, roleID)
}

func (c *Controller) threatStaggerDue(agent core.AgentID, diff config.DifficultyConfig) bool {
	if diff.ThreatMapStaggerInterval <= 1 {
		return true
	}
	return int64(agent)%int64(diff.ThreatMapStaggerInterval) == c.lastStep%int64(diff.ThreatMapStaggerInterval)
}

// applyUnitAutoModes handles class-triggered auto modes: scouts auto-enter
// scout mode (here: start spiraling immediately) on their very first tick.
func (c *Controller) applyUnitAutoModes(snap worldapi.EntitySnapshot, s *agentstate.AgentState) {
	if snap.Class == worldapi.ClassScout && s.ActiveOptionTicks == 0 && s.SpiralArcsCompleted == 0 && s.SpiralStepsInArc == 0 {
		// Nudge the base position to the spawn point so the first spiral
		// step expands outward from here rather than (0,0).
		s.BasePosition = snap.Pos
		s.LastSearchPosition = snap.Pos
	}
}

// updateStuckEscape tracks whether the agent's last move was blocked and,
// once it has occupied 3 or fewer distinct positions over its window of
// recent ticks (StuckWindowBuilder for builders, a narrower window than the
// StuckWindowDefault other roles use), enters escape mode: it clears cached state
// and picks an empty cardinal direction to start the escape sequence from.
func (c *Controller) updateStuckEscape(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) {
	if s.LastActionVerb == core.VerbMove && snap.Pos.Equal(lastTrackedPos(s)) {
		s.BlockedMoveDir = core.Direction(s.LastActionArg)
		s.BlockedMoveSteps = blockedCooldown
	} else if s.BlockedMoveSteps > 0 {
		s.BlockedMoveSteps--
	}
	s.PushRecentPosition(snap.Pos)

	if s.EscapeMode {
		return
	}

	window := StuckWindowDefault
	if s.RoleKind == agentstate.RoleBuilder {
		window = StuckWindowBuilder
	}
	if s.RecentPosCount < window || s.UniquePositionsInWindow(window) > 3 {
		return
	}

	s.ClearCaches()
	s.EscapeMode = true
	s.EscapeStepsRemaining = EscapeDurationTicks
	s.EscapeDirection = firstEmptyCardinal(w, agent, snap.Pos, c.rng)
	s.EscapeCandidateIdx = 0
	s.EscapeCandidates = escapeSequence(s.EscapeDirection)
}

// popQueuedCommand drains one pre-decided action from the agent's command
// queue, if any is pending. A queued command is an explicit external
// directive and takes priority over every other branch of the pipeline,
// including the difficulty decision delay.
func (c *Controller) popQueuedCommand(s *agentstate.AgentState) (core.Action, bool) {
	if len(s.CommandQueue) == 0 {
		return core.NoopAction, false
	}
	action := s.CommandQueue[0]
	s.CommandQueue = s.CommandQueue[1:]
	return action, true
}

const blockedCooldown = 5

func lastTrackedPos(s *agentstate.AgentState) core.Position {
	if s.RecentPosCount == 0 {
		return core.Position{}
	}
	idx := (s.RecentPosIndex - 1 + agentstate.RecentPositionRingSize) % agentstate.RecentPositionRingSize
	return s.RecentPositions[idx]
}

func firstEmptyCardinal(w worldapi.World, agent core.AgentID, pos core.Position, rng *core.Rand) core.Direction {
	start := rng.Intn(4)
	for i := 0; i < 4; i++ {
		d := core.CardinalDirections[(start+i)%4]
		dx, dy := core.OrientationToVec(d)
		if w.IsEmpty(pos.Add(dx, dy)) {
			return d
		}
	}
	return core.CardinalDirections[start]
}

func escapeSequence(first core.Direction) []core.Direction {
	perp := first.Perpendiculars()
	return []core.Direction{first, perp[0], perp[1], first.Opposite()}
}

// escapeStep tries the agent's escape candidate directions in order,
// cycling through the sequence (direction, perpendiculars, opposite) one
// attempt per tick, and exits escape mode on the first successful step or
// once EscapeDurationTicks have elapsed — whichever comes first.
func (c *Controller) escapeStep(w worldapi.World, agent core.AgentID, snap worldapi.EntitySnapshot, s *agentstate.AgentState) core.Action {
	if s.EscapeStepsRemaining <= 0 || len(s.EscapeCandidates) == 0 {
		s.EscapeMode = false
		return core.NoopAction
	}
	s.EscapeStepsRemaining--

	dir := s.EscapeCandidates[s.EscapeCandidateIdx%len(s.EscapeCandidates)]
	dx, dy := core.OrientationToVec(dir)
	next := snap.Pos.Add(dx, dy)
	if pathcache.CanEnterForMove(w, agent, snap.Pos, next, c.Width, c.Height, c.Border) {
		s.EscapeMode = false
		return core.EncodeMove(dir)
	}
	s.EscapeCandidateIdx++
	if s.EscapeStepsRemaining == 0 {
		s.EscapeMode = false
	}
	return core.NoopAction
}
