package pathcache

import "github.com/kestrel-sim/skirmish/core"
import "github.com/kestrel-sim/skirmish/worldapi"

// FindPath runs a bounded, generation-cached A* from `from` to `target`.
// Returns the path from `from` to the reached goal (inclusive), or nil if
// the target is unreachable within MaxNodesExpanded expansions. The
// returned slice aliases the cache's internal buffer and is only valid
// until the next FindPath call on the same cache.
func FindPath(cache *PathCache, w worldapi.World, agent core.AgentID, from, target core.Position, width, height, border int) []core.Position {
	cache.Generation++
	cache.heap = cache.heap[:0]

	goals := buildGoals(cache, w, agent, target)
	if len(goals) == 0 {
		return nil
	}

	if !cache.inBounds(from) {
		return nil
	}
	if goalIndex(cache, goals, from) >= 0 {
		return append(cache.pathBuf[:0], from)
	}

	startIdx := cache.idx(from)
	cache.setGScore(startIdx, 0)
	cache.setCameFrom(startIdx, -1)
	cache.heap.push(openEntry{idx: startIdx, f: heuristic(from, goals)})

	expanded := 0
	for !cache.heap.empty() {
		cur := cache.heap.pop()
		if cache.isClosed(cur.idx) {
			continue
		}
		cache.setClosed(cur.idx)
		expanded++
		if expanded > MaxNodesExpanded {
			return nil
		}

		curPos := core.Position{X: cur.idx % cache.Width, Y: cur.idx / cache.Width}
		if goalIndex(cache, goals, curPos) >= 0 {
			return reconstruct(cache, cur.idx, from)
		}

		curG, _ := cache.gScore(cur.idx)

		for d := core.Direction(0); d < core.DirCount; d++ {
			dx, dy := core.OrientationToVec(d)
			next := curPos.Add(dx, dy)
			if !cache.inBounds(next) {
				continue
			}
			if !CanEnterForMove(w, agent, curPos, next, width, height, border) {
				continue
			}
			nextIdx := cache.idx(next)
			if cache.isClosed(nextIdx) {
				continue
			}
			tentativeG := curG + 1
			if existing, ok := cache.gScore(nextIdx); ok && existing <= tentativeG {
				continue
			}
			cache.setGScore(nextIdx, tentativeG)
			cache.setCameFrom(nextIdx, int32(cur.idx))
			f := tentativeG + heuristic(next, goals)
			cache.heap.push(openEntry{idx: nextIdx, f: f})
		}
	}

	return nil
}

// buildGoals resolves the goal set: the target itself if passable,
// otherwise its passable 8-neighbors (up to MaxPathGoals).
func buildGoals(cache *PathCache, w worldapi.World, agent core.AgentID, target core.Position) []core.Position {
	n := 0
	if cache.inBounds(target) && IsPassable(w, agent, target) {
		cache.goalBuf[0] = target
		n = 1
	} else {
		for d := core.Direction(0); d < core.DirCount && n < MaxPathGoals; d++ {
			dx, dy := core.OrientationToVec(d)
			cand := target.Add(dx, dy)
			if cache.inBounds(cand) && IsPassable(w, agent, cand) {
				cache.goalBuf[n] = cand
				n++
			}
		}
	}
	return cache.goalBuf[:n]
}

func goalIndex(cache *PathCache, goals []core.Position, pos core.Position) int {
	for i, g := range goals {
		if g.Equal(pos) {
			return i
		}
	}
	return -1
}

// heuristic is the minimum Chebyshev distance to any goal: admissible and
// consistent under uniform unit step cost over 8-connected movement.
func heuristic(pos core.Position, goals []core.Position) int {
	best := 1 << 30
	for _, g := range goals {
		if d := pos.Chebyshev(g); d < best {
			best = d
		}
	}
	return best
}

// reconstruct walks came_from from goalIdx back to start, then reverses,
// writing into the cache's reusable path buffer.
func reconstruct(cache *PathCache, goalIdx int, start core.Position) []core.Position {
	var scratch [MaxPathLength]int32
	n := 0
	idx := int32(goalIdx)
	for {
		if n >= MaxPathLength {
			break
		}
		scratch[n] = idx
		n++
		pred, ok := cache.cameFrom(int(idx))
		if !ok || pred < 0 {
			break
		}
		idx = pred
	}

	out := cache.pathBuf[:0]
	for i := n - 1; i >= 0; i-- {
		flat := scratch[i]
		out = append(out, core.Position{X: int(flat) % cache.Width, Y: int(flat) / cache.Width})
	}
	return out
}
