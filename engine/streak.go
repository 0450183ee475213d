/*
streak.go - Per-task consecutive-completion tracking

PURPOSE:
  Streak counters only exist for streak-enabled tasks. A completion
  increments the counter and pays the flat bonus on every seventh
  consecutive day; daily maintenance zeroes the counter when yesterday
  was missed.
*/
package engine

// recordStreakCompletion bumps the counter for a just-completed task and
// pays the periodic bonus. No-op for tasks without streaks.
func (e *Engine) recordStreakCompletion(def TaskDefinition) {
	if !def.StreakEnabled {
		return
	}
	streak := e.state.User.Streaks[def.ID] + 1
	e.state.User.Streaks[def.ID] = streak
	if streak%streakLength == 0 {
		e.addBalance(streakBonus)
	}
}

// resetStreaksIfMissedYesterday zeroes counters for streak-enabled tasks
// not completed yesterday. Runs under settlement/maintenance.
func (e *Engine) resetStreaksIfMissedYesterday() {
	yesterday := e.today().AddDays(-1)
	for _, def := range e.state.Tasks {
		if !def.StreakEnabled {
			continue
		}
		if !e.isTaskDone(yesterday, def.ID) && e.state.User.Streaks[def.ID] != 0 {
			e.state.User.Streaks[def.ID] = 0
			e.log.Info("streak reset", "task", def.ID, "missed", yesterday.Key())
		}
	}
}
