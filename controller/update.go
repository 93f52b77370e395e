package controller

import (
	"github.com/rs/zerolog/log"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/spiral"
	"github.com/kestrel-sim/skirmish/teamstate"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// UpdateController performs the once-per-tick bookkeeping that must happen
// before any DecideAction calls for that tick: episode-reset detection,
// sweeping expired reservations, and applying queued hybrid-role requests.
func (c *Controller) UpdateController(w worldapi.World) {
	step := w.CurrentStep()
	if c.hasLastStep && step < c.lastStep {
		c.handleEpisodeReset()
	}
	c.lastStep = step
	c.hasLastStep = true

	c.reservations.SweepExpired(w, step)
	// Per-team economy snapshots and adaptive difficulty tuning live outside
	// the controller; it only holds the DifficultyConfig slot an external
	// tuner writes to via SetDifficulty.

	c.processPendingHybridRoles()
}

// handleEpisodeReset clears all controller-owned state on a detected
// episode reset (world.step decreased).
func (c *Controller) handleEpisodeReset() {
	log.Info().Msg("episode reset detected, reinitializing controller state")
	c.agents = make(map[core.AgentID]*agentstate.AgentState)
	c.threat = make(map[core.TeamID]*teamstate.ThreatMap)
	c.buildings = teamstate.NewBuildingCountCache(c.buildKindOf, c.buildKinds)
	c.reservations = teamstate.NewReservationTable()
	c.fog = make(map[core.TeamID]*spiral.FogGrid)
	c.ordinal = make(map[core.TeamID]int)
	c.pendingHybrid = nil
}

// processPendingHybridRoles applies each queued hybrid-role transition
// directly to the named agent's AgentState: it resolves the requested
// RoleKind to a catalog RoleID, reassigns the role via ResetRole (which
// resets the active-option slot), and clears cached lookups and the
// planned path, since both were derived under the old role and may no
// longer make sense for the new one. A request naming an agent the
// controller has never seen, or a kind with no matching catalog role, is
// dropped — every query and mutation in this package is total.
func (c *Controller) processPendingHybridRoles() {
	for _, req := range c.pendingHybrid {
		s, ok := c.agents[req.AgentID]
		if !ok {
			log.Info().Str("request_id", req.RequestID).Int("agent", int(req.AgentID)).Msg("dropping hybrid role request for unknown agent")
			continue
		}
		roleID, ok := c.Catalog.FirstOfKind(req.NewKind)
		if !ok {
			log.Info().Str("request_id", req.RequestID).Int("agent", int(req.AgentID)).Int32("new_kind", int32(req.NewKind)).Msg("dropping hybrid role request: no catalog role of that kind")
			continue
		}
		s.ResetRole(req.NewKind, roleID)
		s.ClearCaches()
		log.Info().Str("request_id", req.RequestID).Int("agent", int(req.AgentID)).Int32("new_kind", int32(req.NewKind)).Msg("applied hybrid role transition")
	}
	c.pendingHybrid = c.pendingHybrid[:0]
}
