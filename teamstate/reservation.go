package teamstate

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// ReservationLifetime is how many steps a resource reservation lasts before
// expiring, roughly one gatherer round-trip to the tile and back.
const ReservationLifetime = 60

type reservation struct {
	agent     core.AgentID
	expiresAt int64
}

// ReservationTable tracks per-team, per-tile gathering reservations.
type ReservationTable struct {
	byTeam map[core.TeamID]map[core.Position]reservation
}

// NewReservationTable creates an empty reservation table.
func NewReservationTable() *ReservationTable {
	return &ReservationTable{byTeam: make(map[core.TeamID]map[core.Position]reservation)}
}

// Reserve attempts to reserve `pos` for `agent` on `team` as of `step`. It
// succeeds (and refreshes the expiry) if there is no live reservation, or
// the live reservation already belongs to `agent`. It fails if another
// agent holds a live reservation.
func (r *ReservationTable) Reserve(w worldapi.World, team core.TeamID, agent core.AgentID, pos core.Position, step int64) bool {
	m, ok := r.byTeam[team]
	if !ok {
		m = make(map[core.Position]reservation)
		r.byTeam[team] = m
	}

	if existing, ok := m[pos]; ok && r.isLive(w, existing, step) {
		if existing.agent != agent {
			return false
		}
	}

	m[pos] = reservation{agent: agent, expiresAt: step + ReservationLifetime}
	return true
}

// Release drops any reservation `agent` holds at `pos` on `team`.
func (r *ReservationTable) Release(team core.TeamID, agent core.AgentID, pos core.Position) {
	m, ok := r.byTeam[team]
	if !ok {
		return
	}
	if existing, ok := m[pos]; ok && existing.agent == agent {
		delete(m, pos)
	}
}

// SweepExpired removes every reservation that has expired or whose agent no
// longer lives in the world — called once per tick from UpdateController.
func (r *ReservationTable) SweepExpired(w worldapi.World, step int64) {
	for _, m := range r.byTeam {
		for pos, res := range m {
			if !r.isLive(w, res, step) {
				delete(m, pos)
			}
		}
	}
}

func (r *ReservationTable) isLive(w worldapi.World, res reservation, step int64) bool {
	if step >= res.expiresAt {
		return false
	}
	snap, ok := w.AgentSnapshot(res.agent)
	return ok && snap.Alive
}
