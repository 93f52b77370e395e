package spiral

import (
	"testing"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
)

func TestSpiralExpandsAndRebases(t *testing.T) {
	s := agentstate.New(core.Position{X: 50, Y: 50})
	seen := map[core.Position]bool{s.BasePosition: true}
	// 100 arcs take 2550 steps; 3000 steps cross one rebase.
	for i := 0; i < 3000; i++ {
		p := NextStep(s, 200, 200, 0)
		seen[p] = true
	}
	if s.BasePosition.Equal(core.Position{X: 50, Y: 50}) {
		t.Fatalf("expected the spiral to rebase away from its original base after %d arcs", RebaseAfterArcs)
	}
	if s.SpiralArcsCompleted < 0 || s.SpiralArcsCompleted >= RebaseAfterArcs {
		t.Fatalf("arcs completed out of expected post-rebase range: %d", s.SpiralArcsCompleted)
	}
	if len(seen) < 100 {
		t.Fatalf("spiral did not expand to a reasonable number of distinct cells: %d", len(seen))
	}
}

func TestFogRevealCoversRadius(t *testing.T) {
	g := NewFogGrid(50, 50)
	center := core.Position{X: 25, Y: 25}
	g.Reveal(center, 5)
	for dx := -5; dx <= 5; dx++ {
		for dy := -5; dy <= 5; dy++ {
			p := center.Add(dx, dy)
			if !g.IsRevealed(p) {
				t.Fatalf("expected %v revealed within radius 5 of %v", p, center)
			}
		}
	}
	if g.IsRevealed(center.Add(7, 0)) {
		t.Fatalf("did not expect reveal beyond radius")
	}
}

func TestFogRevealSkipsStationaryAgent(t *testing.T) {
	g := NewFogGrid(50, 50)
	center := core.Position{X: 25, Y: 25}
	g.Reveal(center, 3)
	g.revealed[g.idx(center.Add(1, 1))] = false
	g.Reveal(center, 3)
	if g.IsRevealed(center.Add(1, 1)) {
		t.Fatalf("second reveal at same center/radius should be skipped, not re-scan")
	}
}
