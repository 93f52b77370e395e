// Package agentstate holds the per-agent, controller-owned long-lived
// state: role assignment, active option bookkeeping, spiral search cursor,
// oscillation/escape substate, cached lookups, build lock, planned path,
// and the patrol/attack-move/hold/follow/guard/stop/command-queue fields. It
// is a plain, fixed-shape struct per agent, mutated in place by the code
// that owns it, rather than a reflect-keyed component store — the
// controller looks up exactly one such record per AgentID every tick.
package agentstate

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// RecentPositionRingSize is the fixed ring buffer length used for
// oscillation/stuck detection.
const RecentPositionRingSize = 12

// RoleKind is the semantic category a role belongs to, used by the decision
// pipeline's role-level priority globals.
type RoleKind int32

const (
	RoleGatherer RoleKind = iota
	RoleBuilder
	RoleFighter
	RoleScripted
)

// NoRole is the sentinel for an uninitialized role id / inactive option.
const NoRole = -1

// PendingHybridRole is a role-transition event the world's role-evolution
// layer emits for a specific agent (e.g. temple fusion); the controller
// applies it to that agent's AgentState on the next UpdateController call.
type PendingHybridRole struct {
	RequestID string
	AgentID   core.AgentID
	NewKind   RoleKind
}

// AgentState is the full per-agent long-lived record, owned exclusively by
// the controller.
type AgentState struct {
	Initialized bool

	RoleKind RoleKind
	RoleID   int // index into the role catalog; NoRole if uninitialized

	ActiveOptionID    int // NoRole (-1) if none
	ActiveOptionTicks int

	// Spiral search cursor: the outward-exploration anchor and walk state.
	BasePosition        core.Position
	LastSearchPosition  core.Position
	SpiralArcsCompleted int
	SpiralStepsInArc    int
	SpiralClockwise     bool

	// Oscillation / stuck detection ring.
	RecentPositions [RecentPositionRingSize]core.Position
	RecentPosIndex  int
	RecentPosCount  int

	// Escape-mode substate.
	EscapeMode           bool
	EscapeStepsRemaining int
	EscapeDirection      core.Direction
	EscapeCandidates     []core.Direction // direction, then perpendiculars, then opposite
	EscapeCandidateIdx   int

	LastActionVerb   core.Verb
	LastActionArg    int
	BlockedMoveDir   core.Direction
	BlockedMoveSteps int

	// Cached-thing lookup: last known position per entity kind and the
	// controller step it was observed at.
	CachedThingPos  map[core.EntityKind]core.Position
	CachedThingStep map[core.EntityKind]int64

	// Build lock, held by the builder role while committed to a site.
	BuildIndex     int
	BuildTarget    core.Position
	BuildStand     core.Position
	BuildLockSteps int

	// Planned path, consumed step by step by the moveTo dispatcher.
	PlannedPath       []core.Position
	PlannedPathIndex  int
	PlannedTarget     core.Position
	HasPlannedTarget  bool
	PathBlockedTarget core.Position
	HasPathBlocked    bool

	// Patrol / attack-move / hold / follow / guard / stop: per-agent
	// override flags that take priority over role-level behaviors.
	PatrolWaypoints []core.Position
	PatrolIndex     int
	PatrolActive    bool

	AttackMoveTarget core.Position
	AttackMoveActive bool

	HoldPosition bool

	FollowTarget core.AgentID
	FollowActive bool

	GuardTarget core.Position
	GuardActive bool

	StopFlag bool

	CommandQueue []core.Action

	Stance worldapi.Stance

	// Settler migration.
	SettlerTarget   core.Position
	SettlerActive   bool
	SettlerMinGroup int

	// Rally.
	RallyTarget core.Position
	RallyActive bool
}

// New creates a freshly initialized AgentState anchored at spawnPos.
func New(spawnPos core.Position) *AgentState {
	return &AgentState{
		Initialized:        true,
		RoleID:             NoRole,
		ActiveOptionID:     NoRole,
		BasePosition:       spawnPos,
		LastSearchPosition: spawnPos,
		SpiralClockwise:    true,
		CachedThingPos:     make(map[core.EntityKind]core.Position),
		CachedThingStep:    make(map[core.EntityKind]int64),
		BuildLockSteps:     0,
	}
}

// ResetRole clears role-scoped fields when the agent's role changes,
// preserving patrol/attack-move/etc. fields: the active option id is only
// ever meaningful as an index into the current role's option list, so it
// must be invalidated whenever that list changes out from under it.
func (s *AgentState) ResetRole(newKind RoleKind, newID int) {
	s.RoleKind = newKind
	s.RoleID = newID
	s.ActiveOptionID = NoRole
	s.ActiveOptionTicks = 0
}

// PushRecentPosition records a new observed position into the ring buffer.
func (s *AgentState) PushRecentPosition(pos core.Position) {
	s.RecentPositions[s.RecentPosIndex] = pos
	s.RecentPosIndex = (s.RecentPosIndex + 1) % RecentPositionRingSize
	if s.RecentPosCount < RecentPositionRingSize {
		s.RecentPosCount++
	}
}

// UniquePositionsInWindow returns the count of distinct positions among the
// most recent `window` ring entries (window is clamped to what's available).
func (s *AgentState) UniquePositionsInWindow(window int) int {
	if window > s.RecentPosCount {
		window = s.RecentPosCount
	}
	seen := make(map[core.Position]struct{}, window)
	idx := s.RecentPosIndex
	for i := 0; i < window; i++ {
		idx = (idx - 1 + RecentPositionRingSize) % RecentPositionRingSize
		seen[s.RecentPositions[idx]] = struct{}{}
	}
	return len(seen)
}

// ClearPlannedPath clears the planned path and blocked-target flag — called
// through ClearCaches on entering escape mode or on a role change, and by
// the moveTo dispatch when it detects the agent is stuck.
func (s *AgentState) ClearPlannedPath() {
	s.PlannedPath = s.PlannedPath[:0]
	s.PlannedPathIndex = 0
	s.HasPlannedTarget = false
	s.HasPathBlocked = false
}

// ClearCaches invalidates all cached-thing lookups and the planned path,
// forcing every spatial query to be re-derived from scratch. Used when
// entering escape mode and when a role change makes old cached state
// unreliable for the new role.
func (s *AgentState) ClearCaches() {
	for k := range s.CachedThingPos {
		delete(s.CachedThingPos, k)
	}
	for k := range s.CachedThingStep {
		delete(s.CachedThingStep, k)
	}
	s.ClearPlannedPath()
}

// SetLastAction records the last decoded action, satisfying the invariant
// that last_action_verb/arg always equal the decoded returned action.
func (s *AgentState) SetLastAction(a core.Action) {
	verb, arg := core.DecodeAction(a)
	s.LastActionVerb = verb
	s.LastActionArg = arg
}
