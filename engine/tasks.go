/*
tasks.go - Recording task completions

PURPOSE:
  The single entry point for daily activity: a minutes delta for MINUTES
  tasks, a check-off for CHECK tasks. A task pays its daily reward at most
  once per day, with the roulette doubling applied at award time.
*/
package engine

import "context"

// RecordCompletion applies a completion to today's log. Unknown task ids
// and repeat completions are silent no-ops; a non-positive minutes delta
// for a MINUTES task is rejected with ErrInvalidInput.
func (e *Engine) RecordCompletion(ctx context.Context, taskID string, minutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	var opErr error
	if def, ok := e.state.TaskByID(taskID); ok {
		opErr = e.applyCompletion(def, minutes)
	}
	if err := e.commit(ctx, prev); err != nil {
		return err
	}
	return opErr
}

func (e *Engine) applyCompletion(def TaskDefinition, minutes int) error {
	today := e.today()

	switch def.Kind {
	case KindMinutes:
		if minutes <= 0 {
			return &InvalidInputError{Field: "minutes", Message: "delta must be positive"}
		}
		l := e.state.Day(today)
		l.Minutes[def.ID] += minutes
		if l.MinutesAwarded[def.ID] {
			return nil
		}
		if def.MinutesPerDay > 0 && l.Minutes[def.ID] >= def.MinutesPerDay {
			l.MinutesAwarded[def.ID] = true
			e.awardTaskReward(def.ID, def.DailyReward)
			e.recordStreakCompletion(def)
		}

	case KindCheck:
		l := e.state.Day(today)
		if l.Checks[def.ID] {
			return nil
		}
		l.Checks[def.ID] = true
		e.awardTaskReward(def.ID, def.DailyReward)
		e.recordStreakCompletion(def)
	}
	return nil
}
