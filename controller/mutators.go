package controller

import (
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// The mutators below are all total: an unknown agent id is a no-op rather
// than an error. None of them create agent state — that only happens
// through DecideAction's lazy initialization.

// SetPatrol installs a patrol route the agent cycles through, attacking
// anything that comes into range along the way.
func (c *Controller) SetPatrol(agent core.AgentID, waypoints []core.Position) {
	s, ok := c.agents[agent]
	if !ok {
		return
	}
	s.PatrolWaypoints = waypoints
	s.PatrolIndex = 0
	s.PatrolActive = len(waypoints) > 0
}

// SetAttackMoveTarget starts an attack-move toward pos.
func (c *Controller) SetAttackMoveTarget(agent core.AgentID, pos core.Position) {
	if s, ok := c.agents[agent]; ok {
		s.AttackMoveTarget = pos
		s.AttackMoveActive = true
	}
}

// SetHoldPosition toggles hold-position.
func (c *Controller) SetHoldPosition(agent core.AgentID, hold bool) {
	if s, ok := c.agents[agent]; ok {
		s.HoldPosition = hold
	}
}

// SetFollowTarget starts following another agent.
func (c *Controller) SetFollowTarget(agent core.AgentID, target core.AgentID) {
	if s, ok := c.agents[agent]; ok {
		s.FollowTarget = target
		s.FollowActive = true
	}
}

// SetGuardTarget starts guarding a position.
func (c *Controller) SetGuardTarget(agent core.AgentID, pos core.Position) {
	if s, ok := c.agents[agent]; ok {
		s.GuardTarget = pos
		s.GuardActive = true
	}
}

// StopAgent clears every directive flag on the agent (patrol, attack-move,
// follow, guard, rally, settler migration) and its command queue.
func (c *Controller) StopAgent(agent core.AgentID) {
	s, ok := c.agents[agent]
	if !ok {
		return
	}
	s.PatrolActive = false
	s.AttackMoveActive = false
	s.FollowActive = false
	s.GuardActive = false
	s.RallyActive = false
	s.SettlerActive = false
	s.HoldPosition = false
	s.StopFlag = true
	s.CommandQueue = s.CommandQueue[:0]
}

// PushCommand enqueues a pre-decided action for the agent to execute before
// the normal decision pipeline is consulted again (command-queue push).
func (c *Controller) PushCommand(agent core.AgentID, action core.Action) {
	if s, ok := c.agents[agent]; ok {
		s.CommandQueue = append(s.CommandQueue, action)
	}
}

// PopCommand dequeues the next queued action, if any (command-queue pop).
func (c *Controller) PopCommand(agent core.AgentID) (core.Action, bool) {
	s, ok := c.agents[agent]
	if !ok || len(s.CommandQueue) == 0 {
		return core.NoopAction, false
	}
	action := s.CommandQueue[0]
	s.CommandQueue = s.CommandQueue[1:]
	return action, true
}

// SetStance sets the agent's attack/chase stance.
func (c *Controller) SetStance(agent core.AgentID, stance worldapi.Stance) {
	if s, ok := c.agents[agent]; ok {
		s.Stance = stance
	}
}

// Stance returns the agent's current stance (zero value StanceAggressive if
// the agent is unknown, a total default rather than an error).
func (c *Controller) Stance(agent core.AgentID) worldapi.Stance {
	if s, ok := c.agents[agent]; ok {
		return s.Stance
	}
	return worldapi.StanceAggressive
}
