// Package worldsim is a minimal in-memory implementation of worldapi.World,
// used only by tests and cmd/skirmish-demo. No core package imports it —
// the controller is written entirely against the worldapi.World interface.
//
// The dense entity-per-cell layout is a flat []cell indexed by
// y*width+x, soft-clipped rather than allocating on overflow.
package worldsim

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

const maxEntitiesPerCell = 8

type cell struct {
	count    uint8
	entities [maxEntitiesPerCell]core.AgentID
}

// World is a deterministic, single-threaded reference World. It exists to
// exercise the controller end-to-end in tests and the demo CLI; it is not
// part of the core's scope.
type World struct {
	Width, Height int
	terrain       []worldapi.TerrainKind
	frozen        []bool
	doors         []bool

	cells []cell // spatial index, entity ids only

	agents map[core.AgentID]*agentRecord
	things map[core.Position]worldapi.EntitySnapshot

	stockpile map[core.TeamID]map[core.EntityKind]int

	step int64
}

type agentRecord struct {
	snap worldapi.EntitySnapshot
}

// NewWorld creates an empty open-terrain grid of the given size.
func NewWorld(width, height int) *World {
	return &World{
		Width:     width,
		Height:    height,
		terrain:   make([]worldapi.TerrainKind, width*height),
		frozen:    make([]bool, width*height),
		doors:     make([]bool, width*height),
		cells:     make([]cell, width*height),
		agents:    make(map[core.AgentID]*agentRecord),
		things:    make(map[core.Position]worldapi.EntitySnapshot),
		stockpile: make(map[core.TeamID]map[core.EntityKind]int),
	}
}

func (w *World) idx(pos core.Position) int { return pos.Y*w.Width + pos.X }

func (w *World) inBounds(pos core.Position) bool {
	return pos.X >= 0 && pos.X < w.Width && pos.Y >= 0 && pos.Y < w.Height
}

// SetTerrain sets the terrain kind of a tile.
func (w *World) SetTerrain(pos core.Position, kind worldapi.TerrainKind) {
	if w.inBounds(pos) {
		w.terrain[w.idx(pos)] = kind
	}
}

// SetFrozen marks a tile as frozen (blocks lantern push destinations).
func (w *World) SetFrozen(pos core.Position, frozen bool) {
	if w.inBounds(pos) {
		w.frozen[w.idx(pos)] = frozen
	}
}

// SetDoor marks a tile as having a door.
func (w *World) SetDoor(pos core.Position, hasDoor bool) {
	if w.inBounds(pos) {
		w.doors[w.idx(pos)] = hasDoor
	}
}

// PlaceThing registers an entity snapshot at a position (trees, lanterns,
// buildings — anything ThingAt should resolve).
func (w *World) PlaceThing(pos core.Position, snap worldapi.EntitySnapshot) {
	snap.Pos = pos
	w.things[pos] = snap
}

// RemoveThing clears a non-agent entity at a position.
func (w *World) RemoveThing(pos core.Position) {
	delete(w.things, pos)
}

// SpawnAgent registers a live agent at a position and indexes it spatially.
func (w *World) SpawnAgent(snap worldapi.EntitySnapshot) {
	snap.Alive = true
	w.agents[snap.ID] = &agentRecord{snap: snap}
	w.addToGrid(snap.ID, snap.Pos)
}

// MoveAgent relocates an agent, updating the spatial index.
func (w *World) MoveAgent(id core.AgentID, to core.Position) {
	rec, ok := w.agents[id]
	if !ok {
		return
	}
	w.removeFromGrid(id, rec.snap.Pos)
	rec.snap.Pos = to
	w.addToGrid(id, to)
}

// KillAgent marks an agent dead and removes it from the spatial index.
func (w *World) KillAgent(id core.AgentID) {
	rec, ok := w.agents[id]
	if !ok {
		return
	}
	rec.snap.Alive = false
	w.removeFromGrid(id, rec.snap.Pos)
}

func (w *World) addToGrid(id core.AgentID, pos core.Position) {
	if !w.inBounds(pos) {
		return
	}
	c := &w.cells[w.idx(pos)]
	if c.count < maxEntitiesPerCell {
		c.entities[c.count] = id
		c.count++
	}
}

func (w *World) removeFromGrid(id core.AgentID, pos core.Position) {
	if !w.inBounds(pos) {
		return
	}
	c := &w.cells[w.idx(pos)]
	for i := uint8(0); i < c.count; i++ {
		if c.entities[i] == id {
			c.count--
			if i < c.count {
				c.entities[i] = c.entities[c.count]
			}
			return
		}
	}
}

// SetStockpile sets a team's resource balance.
func (w *World) SetStockpile(team core.TeamID, resource core.EntityKind, count int) {
	m, ok := w.stockpile[team]
	if !ok {
		m = make(map[core.EntityKind]int)
		w.stockpile[team] = m
	}
	m[resource] = count
}

// SetStep sets the current world step (for episode-reset tests: set a lower
// value than before to simulate a reset).
func (w *World) SetStep(step int64) { w.step = step }

// Advance increments the world step by one.
func (w *World) Advance() { w.step++ }
