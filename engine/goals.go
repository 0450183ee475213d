package engine

import "context"

// CompleteGoal pays a one-time goal's reward (doubled under a matching
// GOAL_X2 outcome) and stamps its completion time. The stamp is permanent.
func (e *Engine) CompleteGoal(ctx context.Context, goalID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	var opErr error
	if i, ok := e.state.GoalByID(goalID); !ok {
		opErr = ErrNotFound
	} else if g := &e.state.Goals[i]; g.Completed() {
		opErr = ErrAlreadyCompleted
	} else {
		reward := g.Reward
		if e.rouletteDoublesGoal(g.ID) {
			reward *= 2
			e.addExtra(e.today(), "Roulette bonus: goal x2 "+g.Title, g.Reward)
		}
		e.addBalance(reward)
		now := e.now()
		g.CompletedAt = &now
		e.log.Info("goal completed", "goal", g.ID, "reward", reward)
	}

	if err := e.commit(ctx, prev); err != nil {
		return err
	}
	return opErr
}
