package pathcache

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// MoveTowards picks a single greedy step from `from` toward `to`, optionally
// avoiding `avoidDir` to break oscillation. Returns core.DirNone if all 8
// directions are blocked.
//  1. Clamp `to` into the playable region. If the clamp folds the target
//     onto `from`, pick the adjacent cell maximizing the minimum distance to
//     the playable border, breaking ties by choosing the most recently
//     avoided direction last.
//  2. Try the direct-line direction first.
//  3. Otherwise pick the adjacent valid cell minimizing Chebyshev distance
//     to the clamped target.
//  4. Avoid avoidDir unless it is the only option.
func MoveTowards(w worldapi.World, agent core.AgentID, from, to core.Position, avoidDir core.Direction, width, height, border int) core.Direction {
	clamped := ClampToPlayable(to, width, height, border)

	canEnter := func(d core.Direction) (core.Position, bool) {
		dx, dy := core.OrientationToVec(d)
		cand := from.Add(dx, dy)
		return cand, CanEnterForMove(w, agent, from, cand, width, height, border)
	}

	if clamped.Equal(from) {
		return bestBorderRetreat(w, agent, from, avoidDir, width, height, border, canEnter)
	}

	direct := core.VecToOrientation(clamped.X-from.X, clamped.Y-from.Y)
	if direct != core.DirNone {
		if cand, ok := canEnter(direct); ok {
			if direct != avoidDir || onlyOption(canEnter, direct) {
				return direct
			}
			_ = cand
		}
	}

	return bestByDistance(canEnter, clamped, avoidDir)
}

// bestBorderRetreat handles the degenerate case where the clamped target
// collapses onto the agent's own cell: step toward whichever adjacent cell
// keeps the most room from the playable border.
func bestBorderRetreat(w worldapi.World, agent core.AgentID, from core.Position, avoidDir core.Direction, width, height, border int, canEnter func(core.Direction) (core.Position, bool)) core.Direction {
	bestDir := core.DirNone
	bestScore := -1
	var avoidCandidate core.Direction = core.DirNone
	avoidScore := -1

	for d := core.Direction(0); d < core.DirCount; d++ {
		cand, ok := canEnter(d)
		if !ok {
			continue
		}
		score := minDistToBorder(cand, width, height, border)
		if d == avoidDir {
			if score > avoidScore {
				avoidScore = score
				avoidCandidate = d
			}
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDir = d
		}
	}
	if bestDir != core.DirNone {
		return bestDir
	}
	return avoidCandidate
}

func minDistToBorder(pos core.Position, width, height, border int) int {
	left := pos.X - border
	right := (width - border - 1) - pos.X
	top := pos.Y - border
	bottom := (height - border - 1) - pos.Y
	m := left
	if right < m {
		m = right
	}
	if top < m {
		m = top
	}
	if bottom < m {
		m = bottom
	}
	return m
}

// bestByDistance scans all 8 directions and returns the one whose
// destination minimizes Chebyshev distance to target, preferring to avoid
// avoidDir unless it is the only valid option.
func bestByDistance(canEnter func(core.Direction) (core.Position, bool), target core.Position, avoidDir core.Direction) core.Direction {
	bestDir := core.DirNone
	bestDist := 1 << 30
	var fallbackDir core.Direction = core.DirNone
	fallbackDist := 1 << 30

	for d := core.Direction(0); d < core.DirCount; d++ {
		cand, ok := canEnter(d)
		if !ok {
			continue
		}
		dist := cand.Chebyshev(target)
		if d == avoidDir {
			if dist < fallbackDist {
				fallbackDist = dist
				fallbackDir = d
			}
			continue
		}
		if dist < bestDist {
			bestDist = dist
			bestDir = d
		}
	}
	if bestDir != core.DirNone {
		return bestDir
	}
	return fallbackDir
}

func onlyOption(canEnter func(core.Direction) (core.Position, bool), chosen core.Direction) bool {
	count := 0
	for d := core.Direction(0); d < core.DirCount; d++ {
		if _, ok := canEnter(d); ok {
			count++
		}
	}
	return count == 1 && chosen >= 0
}
