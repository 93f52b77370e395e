// Package option implements a prioritized, interruptible behavior
// framework: a closed set of behavior kinds dispatched through a common
// interface, scheduled by an executor that preempts lower-priority actives
// and falls back to a fresh scan. Every behavior implements the same small
// interface and is stored in a priority-ordered slice, invoked uniformly by
// a runner that never type-switches on the concrete behavior.
package option

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/teamstate"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// Option is one named, priority-scheduled behavior. Implementations must
// not mutate the world directly; they read world state and read/write the
// agent's own AgentState.
type Option interface {
	Name() string
	Interruptible() bool
	CanStart(ctx Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool
	ShouldTerminate(ctx Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) bool
	Act(ctx Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action
}

// Context is the narrow slice of controller-owned shared state an option
// may need (team caches, path cache, RNG) without the option package
// depending on the controller package that owns the executor.
type Context interface {
	Team() core.TeamID
	Rand() *core.Rand
	PathCache() *pathcache.PathCache
	Threat() *teamstate.ThreatMap
	Buildings() *teamstate.BuildingCountCache
	Reservations() *teamstate.ReservationTable
	CurrentStep() int64
	MapDims() (width, height, border int)
}
