/*
boundary.go - Week/day boundary detection and settlement

PURPOSE:
  settleIfNeeded runs before every state-touching operation. It advances
  the week watermark across every completed week exactly once (weekly
  minutes-goal bonus/penalty plus per-task deficit penalties), then
  resolves a pending DAILY_X2 roulette penalty the first time a later day
  is observed.

IDEMPOTENCE:
  Re-invoking after the watermark reached the current week is a no-op.
  The roulette penalty flips PenaltyApplied exactly once.

SETTLEMENT ORDER:
  Weeks settle before the roulette penalty so a multi-week gap replays in
  calendar order. All effects are plain balance/extras bookkeeping; nothing
  here can fail on well-formed catalog data.
*/
package engine

// settleIfNeeded processes all uncrossed boundaries since the last
// invocation. Mutations stay in memory; the calling operation commits.
func (e *Engine) settleIfNeeded() {
	e.settleWeeks()
	e.settleRoulettePenalty()
}

// firstFullWeekStart is the Monday of the first complete week after
// installation. Earlier partial weeks never settle.
func (e *Engine) firstFullWeekStart() Date {
	return FirstMondayAfter(DateOf(e.state.InstalledAt))
}

func (e *Engine) settleWeeks() {
	today := e.today()
	currentWeekStart := today.WeekStart()

	if e.state.LastProcessedWeekStart == "" {
		e.state.LastProcessedWeekStart = currentWeekStart.Key()
		return
	}
	marker, err := ParseDate(e.state.LastProcessedWeekStart)
	if err != nil {
		// Corrupt watermark: re-anchor rather than settle garbage.
		e.log.Error("invalid week watermark, re-anchoring", "value", e.state.LastProcessedWeekStart)
		e.state.LastProcessedWeekStart = currentWeekStart.Key()
		return
	}

	first := e.firstFullWeekStart()
	for marker.Before(currentWeekStart) {
		if marker.AfterOrEqual(first) {
			e.settleWeek(marker)
		}
		marker = marker.AddWeeks(1)
	}
	if marker.Key() != e.state.LastProcessedWeekStart {
		e.state.LastProcessedWeekStart = marker.Key()
		e.log.Info("week watermark advanced", "weekStart", marker.Key())
	}
}

// settleWeek applies the completed week's effects: the primary minutes-goal
// bonus/penalty and per-task completion-deficit penalties.
func (e *Engine) settleWeek(weekStart Date) {
	if primary, ok := e.state.PrimaryWeeklyMinutesTask(); ok {
		minutes := e.sumWeekMinutes(weekStart, primary.ID)
		if minutes >= primary.WeeklyMinutesGoal {
			e.addBalance(weeklyGoalBonus)
		} else {
			e.addBalance(weeklyGoalPenalty)
		}
	}

	today := e.today()
	for _, def := range e.state.Tasks {
		done := e.countDoneInWeek(weekStart, def.ID)
		deficit := def.WeeklyRequirement() - done
		if deficit <= 0 {
			continue
		}
		pen := -weeklyDeficitRate * abs(def.DailyReward) * deficit
		if pen != 0 {
			e.addBalanceWithExtra(today, "Weekly penalty: "+def.Title, pen)
		}
	}
}

// settleRoulettePenalty resolves a DAILY_X2 outcome from a past day: if the
// chosen task was never completed on that day, its base reward is clawed
// back. The outcome is consumed exactly once even when no task was chosen.
func (e *Engine) settleRoulettePenalty() {
	rs := e.state.User.Roulette
	if rs == nil || rs.Effect != EffectDailyX2 || rs.PenaltyApplied {
		return
	}
	spun, err := ParseDate(rs.Date)
	if err != nil || !spun.Before(e.today()) {
		return
	}

	rs.PenaltyApplied = true
	if rs.TaskID == "" {
		return
	}
	base := rs.TaskBaseReward
	if base == 0 {
		if def, ok := e.state.TaskByID(rs.TaskID); ok {
			base = def.DailyReward
			rs.TaskBaseReward = base
		}
	}
	if base == 0 || e.isTaskDone(spun, rs.TaskID) {
		return
	}
	pen := -abs(base)
	// The penalty belongs to the day the doubled task was missed.
	e.addBalanceWithExtra(spun, "Missed roulette task: "+e.state.taskTitle(rs.TaskID), pen)
	e.log.Info("roulette penalty applied", "task", rs.TaskID, "date", rs.Date, "penalty", pen)
}

// =============================================================================
// COMPLETION QUERIES
// =============================================================================

// isTaskDone reports whether a task was completed on a date: threshold
// reached for MINUTES tasks, check present for CHECK tasks.
func (e *Engine) isTaskDone(d Date, taskID string) bool {
	def, ok := e.state.TaskByID(taskID)
	if !ok {
		return false
	}
	return taskDone(e.state.User.Days[d.Key()], def)
}

func taskDone(l *DayLog, def TaskDefinition) bool {
	if l == nil {
		return false
	}
	if def.Kind == KindMinutes {
		return def.MinutesPerDay > 0 && l.Minutes[def.ID] >= def.MinutesPerDay
	}
	return l.Checks[def.ID]
}

// sumWeekMinutes totals a task's minutes across the seven days starting at
// weekStart.
func (e *Engine) sumWeekMinutes(weekStart Date, taskID string) int {
	sum := 0
	for i := 0; i < 7; i++ {
		if l := e.state.User.Days[weekStart.AddDays(i).Key()]; l != nil {
			sum += l.Minutes[taskID]
		}
	}
	return sum
}

// countDoneInWeek counts days the task was completed in the week.
func (e *Engine) countDoneInWeek(weekStart Date, taskID string) int {
	cnt := 0
	for i := 0; i < 7; i++ {
		if e.isTaskDone(weekStart.AddDays(i), taskID) {
			cnt++
		}
	}
	return cnt
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
