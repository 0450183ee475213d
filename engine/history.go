/*
history.go - Derived day/month reporting

PURPOSE:
  Reporting is reconstructed from the same sources replay reads: raw day
  logs, goal/purchase timestamps, and the extras record. A day's item list
  therefore sums to exactly what replay credits that day (before the
  zero-floor clamp), so an edited past stays consistent between the
  balance and what the history screens show.
*/
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DayHistory is one date's itemized point report.
type DayHistory struct {
	Date  string  `json:"date"`
	Total int     `json:"total"`
	Items []Entry `json:"items"`
}

// MonthHistory aggregates a calendar month.
type MonthHistory struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Days         []DayHistory    `json:"days"`
	Total        int             `json:"total"`
	DailyAverage decimal.Decimal `json:"dailyAverage"`
}

// DayHistory reports one date.
func (e *Engine) DayHistory(ctx context.Context, dateStr string) (DayHistory, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return DayHistory{}, &InvalidInputError{Field: "date", Message: "want YYYY-MM-DD"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if err := e.commit(ctx, prev); err != nil {
		return DayHistory{}, err
	}

	b := e.newHistoryBuilder()
	return b.day(d), nil
}

// MonthHistory reports every day of a calendar month, most totals derived
// with exact decimal arithmetic for the summary row.
func (e *Engine) MonthHistory(ctx context.Context, year, month int) (MonthHistory, error) {
	if month < 1 || month > 12 || year < 1 {
		return MonthHistory{}, &InvalidInputError{Field: "month", Message: "out of range"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if err := e.commit(ctx, prev); err != nil {
		return MonthHistory{}, err
	}

	b := e.newHistoryBuilder()
	first, last := MonthRange(year, time.Month(month))

	out := MonthHistory{Year: year, Month: month}
	for d := first; d.BeforeOrEqual(last); d = d.AddDays(1) {
		dh := b.day(d)
		out.Total += dh.Total
		out.Days = append(out.Days, dh)
	}
	out.DailyAverage = decimal.NewFromInt(int64(out.Total)).
		Div(decimal.NewFromInt(int64(len(out.Days)))).Round(2)
	return out, nil
}

// =============================================================================
// HISTORY BUILDER
// =============================================================================

// historyBuilder precomputes the streak-bonus timeline once, then serves
// any number of per-day queries against it.
type historyBuilder struct {
	state         *State
	firstFull     Date
	today         Date
	streakBonuses map[string][]Entry
}

func (e *Engine) newHistoryBuilder() *historyBuilder {
	b := &historyBuilder{
		state:     e.state,
		firstFull: e.firstFullWeekStart(),
		today:     e.today(),
	}
	b.streakBonuses = b.buildStreakBonuses(b.today)
	return b
}

// buildStreakBonuses walks every calendar day (gaps reset streaks, exactly
// as replay counts them) and records where each 7th consecutive completion
// landed.
func (b *historyBuilder) buildStreakBonuses(today Date) map[string][]Entry {
	out := map[string][]Entry{}

	first, ok := earliestDate(ReplayInput{
		Days:      b.state.User.Days,
		Goals:     b.state.Goals,
		Purchases: b.state.User.Purchases,
		Extras:    b.state.User.Extras,
	})
	if !ok {
		return out
	}

	for _, def := range b.state.Tasks {
		if !def.StreakEnabled {
			continue
		}
		streak := 0
		for d := first; d.BeforeOrEqual(today); d = d.AddDays(1) {
			if taskDone(b.state.User.Days[d.Key()], def) {
				streak++
				if streak%streakLength == 0 {
					key := d.Key()
					out[key] = append(out[key], Entry{
						Label:  "Streak: " + def.Title + " (7 days)",
						Points: streakBonus,
					})
				}
			} else {
				streak = 0
			}
		}
	}
	return out
}

// day itemizes one date in replay order: dailies, streak bonuses, goals,
// purchases, extras, week settlement.
func (b *historyBuilder) day(d Date) DayHistory {
	key := d.Key()
	l := b.state.User.Days[key]

	var items []Entry
	for _, def := range b.state.Tasks {
		if taskDone(l, def) {
			items = append(items, Entry{Label: "Daily: " + def.Title, Points: def.DailyReward})
		}
	}

	items = append(items, b.streakBonuses[key]...)

	for _, g := range b.state.Goals {
		if g.CompletedAt != nil && DateOf(*g.CompletedAt).Equal(d) {
			items = append(items, Entry{Label: "Goal: " + g.Title, Points: g.Reward})
		}
	}

	for _, p := range b.state.User.Purchases {
		if DateOf(p.PurchasedAt).Equal(d) {
			items = append(items, Entry{Label: "Purchase: " + p.Title, Points: -p.Cost})
		}
	}

	items = append(items, b.state.User.Extras[key]...)

	// Future Sundays carry no settlement yet.
	if primary, ok := primaryWeeklyMinutesTask(b.state.Tasks); ok && d.Equal(d.WeekEnd()) && d.BeforeOrEqual(b.today) {
		weekStart := d.WeekStart()
		if weekStart.AfterOrEqual(b.firstFull) {
			minutes := 0
			for i := 0; i < 7; i++ {
				if wl := b.state.User.Days[weekStart.AddDays(i).Key()]; wl != nil {
					minutes += wl.Minutes[primary.ID]
				}
			}
			if minutes >= primary.WeeklyMinutesGoal {
				items = append(items, Entry{Label: "Weekly goal bonus", Points: weeklyGoalBonus})
			} else {
				items = append(items, Entry{Label: "Weekly goal penalty", Points: weeklyGoalPenalty})
			}
		}
	}

	total := 0
	for _, it := range items {
		total += it.Points
	}
	return DayHistory{Date: key, Total: total, Items: items}
}
