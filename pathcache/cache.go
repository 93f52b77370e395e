package pathcache

import "github.com/kestrel-sim/skirmish/core"

// MaxPathGoals bounds the number of alternate goal cells considered when the
// requested target itself is not passable.
const MaxPathGoals = 8

// MaxPathLength bounds the reconstructed path length.
const MaxPathLength = 64

// MaxNodesExpanded is the hard per-call A* exploration cap. Exceeding it
// means the caller falls back to greedy/spiral rather than the search
// running unbounded.
const MaxNodesExpanded = 250

// PathCache holds the generation-indexed scratch arrays A* reuses across
// calls. Any cell whose *_gen slot doesn't match the current Generation is
// logically unset, so invalidation is O(1) regardless of map size: bumping
// Generation makes every previously-set slot stale without having to zero
// the backing arrays.
type PathCache struct {
	Width, Height int

	Generation uint32

	cameFromGen []uint32
	cameFromVal []int32 // flat index of predecessor, -1 at the start cell
	gScoreGen   []uint32
	gScoreVal   []int
	closedGen   []uint32
	inOpenGen   []uint32

	heap openHeap

	goalBuf [MaxPathGoals]core.Position
	pathBuf [MaxPathLength]core.Position
}

// NewPathCache preallocates all Width*Height scratch arrays once; callers
// should allocate it at controller creation and never again per call.
func NewPathCache(width, height int) *PathCache {
	size := width * height
	return &PathCache{
		Width:       width,
		Height:      height,
		Generation:  0,
		cameFromGen: make([]uint32, size),
		cameFromVal: make([]int32, size),
		gScoreGen:   make([]uint32, size),
		gScoreVal:   make([]int, size),
		closedGen:   make([]uint32, size),
		inOpenGen:   make([]uint32, size),
		heap:        make(openHeap, 0, size/4),
	}
}

func (c *PathCache) idx(pos core.Position) int {
	return pos.Y*c.Width + pos.X
}

func (c *PathCache) inBounds(pos core.Position) bool {
	return pos.X >= 0 && pos.X < c.Width && pos.Y >= 0 && pos.Y < c.Height
}

func (c *PathCache) isClosed(idx int) bool {
	return c.closedGen[idx] == c.Generation
}

func (c *PathCache) setClosed(idx int) {
	c.closedGen[idx] = c.Generation
}

func (c *PathCache) gScore(idx int) (int, bool) {
	if c.gScoreGen[idx] != c.Generation {
		return 0, false
	}
	return c.gScoreVal[idx], true
}

func (c *PathCache) setGScore(idx, v int) {
	c.gScoreGen[idx] = c.Generation
	c.gScoreVal[idx] = v
}

func (c *PathCache) cameFrom(idx int) (int32, bool) {
	if c.cameFromGen[idx] != c.Generation {
		return 0, false
	}
	return c.cameFromVal[idx], true
}

func (c *PathCache) setCameFrom(idx int, pred int32) {
	c.cameFromGen[idx] = c.Generation
	c.cameFromVal[idx] = pred
}
