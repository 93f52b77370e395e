// Package controller implements the per-agent decision pipeline
// (DecideAction) and the per-tick bookkeeping (UpdateController), wiring
// together agentstate, teamstate, pathcache, spiral, option, and role.
// Logging uses a package-level github.com/rs/zerolog/log logger; agent ids
// are logged as structured fields at Debug level, since this is a per-tick
// hot path that must stay silent by default.
package controller

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/config"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/option"
	"github.com/kestrel-sim/skirmish/pathcache"
	"github.com/kestrel-sim/skirmish/role"
	"github.com/kestrel-sim/skirmish/spiral"
	"github.com/kestrel-sim/skirmish/teamstate"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// RelicSaturationCap is the team-wide relic count at which goblins stop
// seeking more.
const RelicSaturationCap = 5

// StuckWindowBuilder and StuckWindowDefault are the ring-buffer windows
// checked for escape-mode entry.
const (
	StuckWindowBuilder = 6
	StuckWindowDefault = 10
)

// EscapeDurationTicks bounds how long escape mode tries its direction
// sequence before giving up.
const EscapeDurationTicks = 10

// AttackRange and SiegeRange are the Chebyshev engagement ranges for the
// two attacker classes distinguished by auto-attack targeting.
const (
	AttackRange = 1
	SiegeRange  = 6
)

// ArrivalThreshold is the Chebyshev distance at which patrol/rally/attack-
// move/settler-migration consider a waypoint reached.
const ArrivalThreshold = 2

// AttackMoveEngageRange is how far an attack-moving agent will divert to
// engage an enemy encountered en route.
const AttackMoveEngageRange = 8

// Controller owns every piece of shared, controller-level state: per-agent
// state, the path cache, and the per-team threat/building/reservation
// tables. One Controller instance decides actions for every agent
// sequentially within a tick; a parallel implementation would give each
// team its own Controller and each goroutine its own PathCache.
type Controller struct {
	Width, Height, Border int
	Catalog               *role.Catalog

	agents map[core.AgentID]*agentstate.AgentState

	pathCache    *pathcache.PathCache
	threat       map[core.TeamID]*teamstate.ThreatMap
	buildings    *teamstate.BuildingCountCache
	reservations *teamstate.ReservationTable
	fog          map[core.TeamID]*spiral.FogGrid

	buildKindOf func(core.EntityKind) (worldapi.BuildKey, bool)
	buildKinds  []core.EntityKind

	difficulty map[core.TeamID]config.DifficultyConfig

	rng *core.Rand

	lastStep      int64
	hasLastStep   bool
	ordinal       map[core.TeamID]int
	pendingHybrid []agentstate.PendingHybridRole
}

// New creates a Controller sized for a width x height grid with the given
// border margin, role catalog, and building-kind resolver (see
// teamstate.NewBuildingCountCache).
func New(width, height, border int, catalog *role.Catalog, kindOf func(core.EntityKind) (worldapi.BuildKey, bool), buildKinds []core.EntityKind, seed uint32) *Controller {
	return &Controller{
		Width: width, Height: height, Border: border,
		Catalog:      catalog,
		agents:       make(map[core.AgentID]*agentstate.AgentState),
		pathCache:    pathcache.NewPathCache(width, height),
		threat:       make(map[core.TeamID]*teamstate.ThreatMap),
		buildings:    teamstate.NewBuildingCountCache(kindOf, buildKinds),
		reservations: teamstate.NewReservationTable(),
		fog:          make(map[core.TeamID]*spiral.FogGrid),
		buildKindOf:  kindOf,
		buildKinds:   buildKinds,
		difficulty:   make(map[core.TeamID]config.DifficultyConfig),
		rng:          core.NewRand(seed),
		ordinal:      make(map[core.TeamID]int),
	}
}

func (c *Controller) threatFor(team core.TeamID) *teamstate.ThreatMap {
	tm, ok := c.threat[team]
	if !ok {
		tm = &teamstate.ThreatMap{}
		c.threat[team] = tm
	}
	return tm
}

// FogFor returns the per-team fog-of-war reveal grid, lazily creating it
// sized to the controller's grid.
func (c *Controller) FogFor(team core.TeamID) *spiral.FogGrid {
	g, ok := c.fog[team]
	if !ok {
		g = spiral.NewFogGrid(c.Width, c.Height)
		c.fog[team] = g
	}
	return g
}

func (c *Controller) difficultyFor(team core.TeamID) config.DifficultyConfig {
	if cfg, ok := c.difficulty[team]; ok {
		return cfg
	}
	return config.Default()
}

// SetDifficulty installs team's difficulty tuning.
func (c *Controller) SetDifficulty(team core.TeamID, cfg config.DifficultyConfig) {
	c.difficulty[team] = cfg
}

// agentContext adapts a Controller, scoped to one team, to option.Context
// so the option/role packages never import controller (no import cycle).
type agentContext struct {
	c    *Controller
	team core.TeamID
}

func (a *agentContext) Team() core.TeamID                         { return a.team }
func (a *agentContext) Rand() *core.Rand                          { return a.c.rng }
func (a *agentContext) PathCache() *pathcache.PathCache           { return a.c.pathCache }
func (a *agentContext) Threat() *teamstate.ThreatMap              { return a.c.threatFor(a.team) }
func (a *agentContext) Buildings() *teamstate.BuildingCountCache  { return a.c.buildings }
func (a *agentContext) Reservations() *teamstate.ReservationTable { return a.c.reservations }
func (a *agentContext) CurrentStep() int64                        { return a.c.lastStep }
func (a *agentContext) MapDims() (int, int, int)                  { return a.c.Width, a.c.Height, a.c.Border }

var _ option.Context = (*agentContext)(nil)

// PushPendingHybridRole queues a hybrid-role transition (e.g. temple fusion)
// for the named agent, applied on the next UpdateController call. The
// returned request id is an opaque uuid the caller can use to correlate this
// request with whatever external event produced it.
func (c *Controller) PushPendingHybridRole(agent core.AgentID, newKind agentstate.RoleKind) string {
	id := uuid.NewString()
	c.pendingHybrid = append(c.pendingHybrid, agentstate.PendingHybridRole{RequestID: id, AgentID: agent, NewKind: newKind})
	return id
}

func (c *Controller) finish(agent core.AgentID, s *agentstate.AgentState, action core.Action) core.Action {
	s.SetLastAction(action)
	log.Debug().
		Int("agent", int(agent)).
		Uint8("verb", uint8(s.LastActionVerb)).
		Int("arg", s.LastActionArg).
		Msg("decide_action")
	return action
}

func (c *Controller) stateFor(agent core.AgentID, spawnPos core.Position) (*agentstate.AgentState, bool) {
	s, ok := c.agents[agent]
	if ok {
		return s, false
	}
	s = agentstate.New(spawnPos)
	c.agents[agent] = s
	return s, true
}

// spiralFindNearest is a thin wrapper so decision-pipeline branches don't
// each re-spell the width/height/border triple.
func (c *Controller) spiralFindNearest(w worldapi.World, s *agentstate.AgentState, kind core.EntityKind, maxDist int) (worldapi.EntitySnapshot, bool) {
	return spiral.FindNearestThing(w, s, kind, c.lastStep, maxDist, c.Width, c.Height, c.Border)
}
