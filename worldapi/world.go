// Package worldapi defines the read-mostly capability surface the
// controller consumes from the simulation world. The world itself (tile
// grid, entity registry, spatial index, stockpile accounting, action
// execution) is an external collaborator; this package only describes the
// boundary between the two, so a system on one side never reaches past it
// to mutate state owned by the other.
package worldapi

import "github.com/kestrel-sim/skirmish/core"

// TerrainKind enumerates the ground types a tile can have.
type TerrainKind int32

const (
	TerrainOpen TerrainKind = iota
	TerrainWater
	TerrainRamp
	TerrainMagma
	TerrainWall
)

// Stance gates auto-attack and chase behavior for an agent.
type Stance int32

const (
	StanceAggressive Stance = iota
	StanceDefensive
	StanceStandGround
	StanceNoAttack
)

// AgentClass distinguishes the hard-coded special cases the decision
// pipeline branches on (siege range/targets, goblin flee/seek, scout
// auto-mode, settler migration).
type AgentClass int32

const (
	ClassMeleeRanged AgentClass = iota
	ClassSiege
	ClassScout
	ClassGoblin
	ClassSettler
)

// BuildKey identifies a placeable building kind.
type BuildKey int32

// Cost is a single (resource, count) line of a stockpile spend check.
type Cost struct {
	Resource core.EntityKind
	Count    int
}

// EntitySnapshot is a read-only view of a world entity returned by queries.
// Controllers never mutate world entities directly; this is a value copy.
type EntitySnapshot struct {
	ID           core.AgentID
	Team         core.TeamID
	Kind         core.EntityKind
	Pos          core.Position
	Class        AgentClass
	Alive        bool
	Harvestable  bool // true if the entity currently yields a resource (trees depleted -> false)
	IsStructure  bool
	IsCorruption bool // tumor/spawner-class hostile structures, see auto-attack target priority
}

// World is the capability set the core consumes every tick. Every method is
// total: out-of-range ids, positions, or kinds return the zero value rather
// than erroring, so the controller never needs defensive error handling on
// a routine query.
type World interface {
	// --- Grid queries ---
	Tile(pos core.Position) TerrainKind
	IsValid(pos core.Position) bool
	IsEmpty(pos core.Position) bool
	HasDoor(pos core.Position) bool
	IsTileFrozen(pos core.Position) bool
	ThingAt(pos core.Position) (EntitySnapshot, bool)
	BackgroundThingAt(pos core.Position) (EntitySnapshot, bool)
	TerrainAllows(agent core.AgentID, pos core.Position) bool
	CanTraverseElevation(from, to core.Position) bool
	IsWaterBlockedForAgent(agent core.AgentID, pos core.Position) bool
	CanAgentPassDoor(agent core.AgentID, pos core.Position) bool
	CanPlace(pos core.Position) bool
	IsRamp(pos core.Position) bool

	// --- Entity index ---
	NearestOfKind(pos core.Position, kind core.EntityKind, maxDist int) (EntitySnapshot, bool)
	NearestFriendlyOfKind(pos core.Position, team core.TeamID, kind core.EntityKind, maxDist int) (EntitySnapshot, bool)
	CollectInRange(pos core.Position, kind core.EntityKind, radius int, out []EntitySnapshot) []EntitySnapshot
	EnumerateByKind(kind core.EntityKind) []EntitySnapshot
	AgentSnapshot(id core.AgentID) (EntitySnapshot, bool)
	EnemiesInRange(self core.AgentID, pos core.Position, radius int) []EntitySnapshot

	// --- Team stockpile ---
	StockpileCount(team core.TeamID, resource core.EntityKind) int
	CanSpend(team core.TeamID, costs []Cost) bool
	CanAffordBuild(agent core.AgentID, buildKey BuildKey) bool

	// --- Step number ---
	CurrentStep() int64

	// --- Action execution ---
	// ExecuteAction applies the decoded action for the given agent. The
	// core calls this implicitly only through DecideAction's return value
	// in the reference worldsim; production integrations apply the
	// returned core.Action themselves and never call this directly.
	ExecuteAction(agent core.AgentID, action core.Action)
}
