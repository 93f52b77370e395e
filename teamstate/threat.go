// Package teamstate implements the per-team shared mutable state: the
// threat map, the building-count cache, the build claim registry, and the
// resource reservation table. All four are controller-owned and shared
// across every agent on a team within a tick.
package teamstate

import "github.com/kestrel-sim/skirmish/core"

// MaxThreatEntries bounds a single team's threat map.
const MaxThreatEntries = 64

// ThreatDecaySteps is how many steps an entry may go unseen before it is
// logically dead and removed on the next decay pass.
const ThreatDecaySteps = 300

// ThreatEntry is a single observed enemy position/strength report.
type ThreatEntry struct {
	Pos          core.Position
	Strength     int
	LastSeenStep int64
	SourceID     core.AgentID
	IsStructure  bool
}

// ThreatMap is a fixed-capacity, unsorted set of recent threat reports for
// one team.
type ThreatMap struct {
	entries [MaxThreatEntries]ThreatEntry
	count   int
}

// Count returns the number of live entries.
func (t *ThreatMap) Count() int { return t.count }

// Entries returns a read-only view of the live entries.
func (t *ThreatMap) Entries() []ThreatEntry { return t.entries[:t.count] }

// ReportThreat records an observation, idempotently: an existing entry at
// the same position or with the same source id is updated in place with
// max(strength) and the new step, rather than duplicated. If the map is
// full and no match exists, the report is dropped rather than growing the
// backing array.
func (t *ThreatMap) ReportThreat(pos core.Position, strength int, step int64, sourceID core.AgentID, isStructure bool) {
	for i := 0; i < t.count; i++ {
		e := &t.entries[i]
		if e.SourceID == sourceID || e.Pos.Equal(pos) {
			if strength > e.Strength {
				e.Strength = strength
			}
			e.LastSeenStep = step
			e.Pos = pos
			e.IsStructure = isStructure
			return
		}
	}
	if t.count >= MaxThreatEntries {
		return
	}
	t.entries[t.count] = ThreatEntry{
		Pos: pos, Strength: strength, LastSeenStep: step,
		SourceID: sourceID, IsStructure: isStructure,
	}
	t.count++
}

// DecayThreats removes entries unseen for ThreatDecaySteps or more,
// in-place via swap-remove.
func (t *ThreatMap) DecayThreats(currentStep int64) {
	i := 0
	for i < t.count {
		if currentStep-t.entries[i].LastSeenStep >= ThreatDecaySteps {
			t.count--
			t.entries[i] = t.entries[t.count]
			continue
		}
		i++
	}
}
