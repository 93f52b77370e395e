package spiral

import "github.com/kestrel-sim/skirmish/core"

// FogGrid is a per-team boolean reveal grid, dense-packed as one flat
// row-major slice.
type FogGrid struct {
	Width, Height int
	revealed      []bool
}

// NewFogGrid creates an unrevealed grid of the given size.
func NewFogGrid(width, height int) *FogGrid {
	return &FogGrid{Width: width, Height: height, revealed: make([]bool, width*height)}
}

func (g *FogGrid) idx(pos core.Position) int { return pos.Y*g.Width + pos.X }

func (g *FogGrid) inBounds(pos core.Position) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// IsRevealed reports whether a cell has been revealed.
func (g *FogGrid) IsRevealed(pos core.Position) bool {
	if !g.inBounds(pos) {
		return false
	}
	return g.revealed[g.idx(pos)]
}

// Reveal marks every cell within Chebyshev radius `r` of center as
// revealed. Skips the whole sweep when all 4 corners of the square are
// already revealed and the center was previously revealed, so a
// stationary agent doesn't re-walk its own vision square every tick.
func (g *FogGrid) Reveal(center core.Position, r int) {
	if r < 0 {
		return
	}
	corners := [4]core.Position{
		center.Add(-r, -r), center.Add(r, -r),
		center.Add(-r, r), center.Add(r, r),
	}
	allCornersRevealed := true
	for _, c := range corners {
		if !g.IsRevealed(c) {
			allCornersRevealed = false
			break
		}
	}
	if allCornersRevealed && g.IsRevealed(center) {
		return
	}

	minX, maxX := center.X-r, center.X+r
	minY, maxY := center.Y-r, center.Y+r
	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= g.Height {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= g.Width {
				continue
			}
			g.revealed[y*g.Width+x] = true
		}
	}
}
