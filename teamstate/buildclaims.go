package teamstate

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// BuildingCountCache is a per-team, per-kind tally of existing buildings,
// rebuilt lazily the first time it's read on a new world step: only the
// first access per tick does any work, and every claim resets along with
// the rebuild.
type BuildingCountCache struct {
	countsStep int64
	hasStep    bool
	counts     map[core.TeamID]map[worldapi.BuildKey]int
	claimed    map[core.TeamID]map[worldapi.BuildKey]bool

	// kindOf maps a building entity kind observed in the world to the
	// BuildKey the controller tallies it under.
	kindOf func(core.EntityKind) (worldapi.BuildKey, bool)
	kinds  []core.EntityKind
}

// NewBuildingCountCache creates an empty cache. kindOf resolves a world
// entity kind to the BuildKey it counts toward (or false if it is not a
// countable building); kinds lists the entity kinds worth enumerating.
func NewBuildingCountCache(kindOf func(core.EntityKind) (worldapi.BuildKey, bool), kinds []core.EntityKind) *BuildingCountCache {
	return &BuildingCountCache{
		counts:  make(map[core.TeamID]map[worldapi.BuildKey]int),
		claimed: make(map[core.TeamID]map[worldapi.BuildKey]bool),
		kindOf:  kindOf,
		kinds:   kinds,
	}
}

// ensureFresh rebuilds the full team-kind matrix and clears all claims if
// the world has advanced to a new step since the last rebuild.
func (c *BuildingCountCache) ensureFresh(w worldapi.World) {
	step := w.CurrentStep()
	if c.hasStep && c.countsStep == step {
		return
	}
	c.countsStep = step
	c.hasStep = true

	for team := range c.counts {
		delete(c.counts, team)
	}
	for team := range c.claimed {
		delete(c.claimed, team)
	}

	for _, kind := range c.kinds {
		for _, snap := range w.EnumerateByKind(kind) {
			if !snap.IsStructure {
				continue
			}
			key, ok := c.kindOf(kind)
			if !ok {
				continue
			}
			teamCounts, ok := c.counts[snap.Team]
			if !ok {
				teamCounts = make(map[worldapi.BuildKey]int)
				c.counts[snap.Team] = teamCounts
			}
			teamCounts[key]++
		}
	}
}

// Count returns how many buildings of `key` a team currently owns.
func (c *BuildingCountCache) Count(w worldapi.World, team core.TeamID, key worldapi.BuildKey) int {
	c.ensureFresh(w)
	return c.counts[team][key]
}

// ClaimBuilding marks `key` as claimed by some builder on `team` this step.
func (c *BuildingCountCache) ClaimBuilding(w worldapi.World, team core.TeamID, key worldapi.BuildKey) {
	c.ensureFresh(w)
	m, ok := c.claimed[team]
	if !ok {
		m = make(map[worldapi.BuildKey]bool)
		c.claimed[team] = m
	}
	m[key] = true
}

// IsBuildingClaimed reports whether `key` has already been claimed by a
// builder on `team` this step.
func (c *BuildingCountCache) IsBuildingClaimed(w worldapi.World, team core.TeamID, key worldapi.BuildKey) bool {
	c.ensureFresh(w)
	return c.claimed[team][key]
}
