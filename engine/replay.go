/*
replay.go - Deterministic full-history recomputation

PURPOSE:
  When a past day's raw log is edited directly, the running balance and
  streak counters are no longer trustworthy. Replay throws them away and
  rebuilds both by walking every calendar day from the first recorded date
  through today, applying exactly the accounting the live path applies.

PURITY:
  Replay is a pure function of its input: no engine, no clock, no store.
  Running it twice over the same history yields identical output. The
  engine wrapper commits the result as one snapshot write.

WHAT REPLAYS FROM WHERE:
  - task daily rewards      recomputed from day logs vs. the catalog
  - streak bonuses          recomputed from consecutive completions
  - goal rewards            goal completion timestamps
  - purchases               cost snapshots (never re-priced)
  - weekly minutes goal     recomputed on each closing Sunday
  - everything else         the extras record (roulette payouts/penalties,
                            weekly deficit penalties, gifts, admin edits)
*/
package engine

// ReplayInput is the full history the rebuild depends on.
type ReplayInput struct {
	Tasks              []TaskDefinition
	Days               map[string]*DayLog
	Goals              []Goal
	Purchases          []Purchase
	Extras             map[string][]Entry
	FirstFullWeekStart Date
	Today              Date
}

// ReplayResult is the rebuilt aggregate.
type ReplayResult struct {
	Balance int
	Streaks map[string]int
}

// Replay rebuilds balance and streaks from zero.
func Replay(in ReplayInput) ReplayResult {
	res := ReplayResult{Streaks: map[string]int{}}

	first, ok := earliestDate(in)
	if !ok {
		return res
	}

	add := func(delta int) { res.Balance = max(0, res.Balance+delta) }

	primary, hasPrimary := primaryWeeklyMinutesTask(in.Tasks)

	for d := first; d.BeforeOrEqual(in.Today); d = d.AddDays(1) {
		key := d.Key()
		l := in.Days[key]

		// Daily rewards in catalog order.
		for _, def := range in.Tasks {
			if taskDone(l, def) {
				add(def.DailyReward)
			}
		}

		// Streak counters and periodic bonuses.
		for _, def := range in.Tasks {
			if !def.StreakEnabled {
				continue
			}
			if taskDone(l, def) {
				res.Streaks[def.ID]++
				if res.Streaks[def.ID]%streakLength == 0 {
					add(streakBonus)
				}
			} else {
				res.Streaks[def.ID] = 0
			}
		}

		for _, g := range in.Goals {
			if g.CompletedAt != nil && DateOf(*g.CompletedAt).Equal(d) {
				add(g.Reward)
			}
		}

		for _, p := range in.Purchases {
			if DateOf(p.PurchasedAt).Equal(d) {
				add(-p.Cost)
			}
		}

		for _, extra := range in.Extras[key] {
			add(extra.Points)
		}

		// A Sunday closes the week it belongs to.
		if hasPrimary && d.Equal(d.WeekEnd()) {
			weekStart := d.WeekStart()
			if weekStart.AfterOrEqual(in.FirstFullWeekStart) {
				minutes := 0
				for i := 0; i < 7; i++ {
					if wl := in.Days[weekStart.AddDays(i).Key()]; wl != nil {
						minutes += wl.Minutes[primary.ID]
					}
				}
				if minutes >= primary.WeeklyMinutesGoal {
					add(weeklyGoalBonus)
				} else {
					add(weeklyGoalPenalty)
				}
			}
		}
	}

	return res
}

// earliestDate finds the first date appearing anywhere in the history.
func earliestDate(in ReplayInput) (Date, bool) {
	var first Date
	found := false
	consider := func(d Date) {
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}

	for key := range in.Days {
		if d, err := ParseDate(key); err == nil {
			consider(d)
		}
	}
	for key := range in.Extras {
		if d, err := ParseDate(key); err == nil {
			consider(d)
		}
	}
	for _, g := range in.Goals {
		if g.CompletedAt != nil {
			consider(DateOf(*g.CompletedAt))
		}
	}
	for _, p := range in.Purchases {
		consider(DateOf(p.PurchasedAt))
	}
	return first, found
}

func primaryWeeklyMinutesTask(tasks []TaskDefinition) (TaskDefinition, bool) {
	for _, def := range tasks {
		if def.Kind == KindMinutes && def.WeeklyMinutesGoal > 0 {
			return def, true
		}
	}
	return TaskDefinition{}, false
}

// recalcFromScratch replaces the running balance and streaks with the
// replayed values. Caller holds the lock and commits.
func (e *Engine) recalcFromScratch() {
	res := Replay(ReplayInput{
		Tasks:              e.state.Tasks,
		Days:               e.state.User.Days,
		Goals:              e.state.Goals,
		Purchases:          e.state.User.Purchases,
		Extras:             e.state.User.Extras,
		FirstFullWeekStart: e.firstFullWeekStart(),
		Today:              e.today(),
	})
	e.state.User.Balance = res.Balance
	e.state.User.Streaks = res.Streaks
	e.log.Info("history replayed", "balance", res.Balance)
}
