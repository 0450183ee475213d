/*
status.go - Current-state snapshot for callers

PURPOSE:
  One read model covering the dashboard: balance, per-task today/streak
  annotations, week aggregate vs. the primary minutes goal, and the
  catalogs annotated with today's effective state.
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// TaskStatus annotates a definition with today's progress.
type TaskStatus struct {
	TaskDefinition
	TodayMinutes int  `json:"todayMinutes"`
	TodayDone    bool `json:"todayDone"`
	Streak       int  `json:"streak"`
}

// WeeklyTaskStatus reports this week's completion count vs. requirement.
type WeeklyTaskStatus struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Required int    `json:"required"`
	Done     int    `json:"done"`
}

// ShopItemStatus carries the cost after today's roulette modifiers.
type ShopItemStatus struct {
	ShopItem
	EffectiveCost int `json:"effectiveCost"`
}

type Status struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Balance   int    `json:"balance"`

	WeekMinutes         int             `json:"weekMinutes"`
	WeekGoalMinutes     int             `json:"weekGoalMinutes"`
	WeekProgressPercent decimal.Decimal `json:"weekProgressPercent"`
	WeekEndEpochSeconds int64           `json:"weekEndEpochSeconds"`
	CurrentWeekStart    string          `json:"currentWeekStart"`

	Tasks  []TaskStatus       `json:"tasks"`
	Weekly []WeeklyTaskStatus `json:"weekly"`
	Goals  []Goal             `json:"goals"`
	Shop   []ShopItemStatus   `json:"shop"`
	Gifts  []Gift             `json:"gifts"`
}

// Status settles owed boundaries, then reports the current aggregate.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if err := e.commit(ctx, prev); err != nil {
		return Status{}, err
	}

	today := e.today()
	weekStart := today.WeekStart()
	todayLog := e.state.User.Days[today.Key()]

	out := Status{
		Username:            e.state.User.Username,
		AvatarURL:           e.state.User.AvatarURL,
		Balance:             e.state.User.Balance,
		WeekEndEpochSeconds: today.WeekEndInstant(e.zone).Unix(),
		CurrentWeekStart:    weekStart.Key(),
		Goals:               append([]Goal{}, e.state.Goals...),
		Gifts:               append([]Gift{}, e.state.User.Gifts...),
	}

	if primary, ok := e.state.PrimaryWeeklyMinutesTask(); ok {
		out.WeekGoalMinutes = primary.WeeklyMinutesGoal
		out.WeekMinutes = e.sumWeekMinutes(weekStart, primary.ID)
		out.WeekProgressPercent = decimal.NewFromInt(int64(out.WeekMinutes)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(primary.WeeklyMinutesGoal))).Round(1)
	}

	for _, def := range e.state.Tasks {
		ts := TaskStatus{TaskDefinition: def, TodayDone: e.isTaskDone(today, def.ID)}
		if todayLog != nil {
			ts.TodayMinutes = todayLog.Minutes[def.ID]
		}
		if def.StreakEnabled {
			ts.Streak = e.state.User.Streaks[def.ID]
		}
		out.Tasks = append(out.Tasks, ts)

		out.Weekly = append(out.Weekly, WeeklyTaskStatus{
			ID:       def.ID,
			Title:    def.Title,
			Required: def.WeeklyRequirement(),
			Done:     e.countDoneInWeek(weekStart, def.ID),
		})
	}

	for _, it := range e.state.Shop {
		out.Shop = append(out.Shop, ShopItemStatus{
			ShopItem:      it,
			EffectiveCost: e.effectiveCost(it.ID, it.Cost),
		})
	}

	return out, nil
}
