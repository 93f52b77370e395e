package option

import (
	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/worldapi"
)

// RunOptions runs the executor against an ordered, priority-decreasing
// option list. It returns the action chosen this tick (0 if none acted)
// and leaves s.ActiveOptionID/ActiveOptionTicks updated per the invariant:
// ActiveOptionID is either agentstate.NoRole or a valid index into opts.
func RunOptions(opts []Option, ctx Context, w worldapi.World, agent core.AgentID, s *agentstate.AgentState) core.Action {
	if s.ActiveOptionID != agentstate.NoRole && s.ActiveOptionID >= 0 && s.ActiveOptionID < len(opts) {
		active := opts[s.ActiveOptionID]

		if active.Interruptible() {
			for i := 0; i < s.ActiveOptionID; i++ {
				if opts[i].CanStart(ctx, w, agent, s) {
					s.ActiveOptionID = i
					s.ActiveOptionTicks = 0
					active = opts[i]
					break
				}
			}
		}

		s.ActiveOptionTicks++
		action := active.Act(ctx, w, agent, s)
		if action != 0 {
			if active.ShouldTerminate(ctx, w, agent, s) {
				s.ActiveOptionID = agentstate.NoRole
				s.ActiveOptionTicks = 0
			}
			return action
		}
		// act returned 0: the active slot is cleared and a fresh scan
		// runs immediately, rather than resuming from the next option in
		// priority order.
		s.ActiveOptionID = agentstate.NoRole
		s.ActiveOptionTicks = 0
	}

	for i, opt := range opts {
		if !opt.CanStart(ctx, w, agent, s) {
			continue
		}
		s.ActiveOptionID = i
		s.ActiveOptionTicks = 1
		action := opt.Act(ctx, w, agent, s)
		if action != 0 {
			if opt.ShouldTerminate(ctx, w, agent, s) {
				s.ActiveOptionID = agentstate.NoRole
				s.ActiveOptionTicks = 0
			}
			return action
		}
		s.ActiveOptionID = agentstate.NoRole
		s.ActiveOptionTicks = 0
	}

	return core.Action(0)
}
