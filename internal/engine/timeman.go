package engine

import "time"

// timeManager splits a fixed per-move budget into a soft and a hard limit.
// The soft limit (optimum) decides whether another iteration is worth
// starting; the hard limit (deadline) aborts an iteration mid-flight. An
// iteration typically costs several times its predecessor, so starting one
// past the optimum point mostly burns time without finishing.
type timeManager struct {
	start    time.Time
	optimum  time.Duration
	deadline time.Time

	// stability counts consecutive iterations returning the same best
	// move. A stable best move shortens the soft limit.
	stability int
}

func newTimeManager(moveTime time.Duration) timeManager {
	tm := timeManager{start: time.Now()}
	if moveTime > 0 {
		tm.optimum = moveTime * 6 / 10
		tm.deadline = tm.start.Add(moveTime)
	}
	return tm
}

func (tm *timeManager) elapsed() time.Duration {
	return time.Since(tm.start)
}

// adjust records whether the latest iteration kept the previous best move.
func (tm *timeManager) adjust(sameBest bool) {
	if sameBest {
		if tm.stability < 8 {
			tm.stability++
		}
	} else {
		tm.stability = 0
	}
}

// pastOptimum reports whether starting another iteration is likely wasted.
func (tm *timeManager) pastOptimum() bool {
	if tm.optimum == 0 {
		return false
	}
	scale := time.Duration(100 - 5*tm.stability)
	return tm.elapsed() >= tm.optimum*scale/100
}
