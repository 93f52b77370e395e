// Package role defines the ordered option lists a role resolves to and the
// semantic kinds the decision pipeline's role-level priority globals branch
// on. The concrete option catalog here is intentionally small and
// representative of the shape a full catalog would take; additional
// behaviors are expected to be added as data rather than new Go types.
package role

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/option"
)

// Role is an ordered list of options (index 0 is highest priority) plus a
// semantic kind used by the decision pipeline's role-level priority globals.
type Role struct {
	Kind    agentstate.RoleKind
	Name    string
	Options []option.Option
}

// Catalog is an indexed set of roles a controller can assign agents to by
// RoleID. Persisted role history and catalog evolution belong to an
// external layer; the core only resolves RoleID to a Role value here.
type Catalog struct {
	roles []Role
}

// NewCatalog builds a catalog from an ordered slice of roles; RoleID is the
// slice index.
func NewCatalog(roles []Role) *Catalog {
	return &Catalog{roles: roles}
}

// Role resolves a RoleID to its Role, and false if out of range.
func (c *Catalog) Role(id int) (Role, bool) {
	if id < 0 || id >= len(c.roles) {
		return Role{}, false
	}
	return c.roles[id], true
}

// Len returns the number of roles in the catalog.
func (c *Catalog) Len() int { return len(c.roles) }

// FirstOfKind returns the RoleID of the first catalog role matching kind,
// and false if none exists. Used to resolve a hybrid-role transition's
// target RoleKind to a concrete RoleID.
func (c *Catalog) FirstOfKind(kind agentstate.RoleKind) (int, bool) {
	for i, r := range c.roles {
		if r.Kind == kind {
			return i, true
		}
	}
	return 0, false
}

// DefaultSlot picks a RoleID from the slot-based defaults (e.g. 2
// gatherers, 2 builders, 2 fighters per team-of-6), given an agent's
// ordinal index within its team's spawn order.
func (c *Catalog) DefaultSlot(ordinalInTeam int) int {
	if len(c.roles) == 0 {
		return agentstate.NoRole
	}
	return ordinalInTeam % len(c.roles)
}
