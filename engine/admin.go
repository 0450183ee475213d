/*
admin.go - Manual corrections

PURPOSE:
  Operations that rewrite history or adjust the ledger directly: editing a
  past day's raw log (followed by a full recomputation), setting or
  shifting the balance, granting gifts, and replacing the catalogs.
*/
package engine

import (
	"context"
	"fmt"
)

// AdminEditDay replaces the raw log for a date, then recomputes balance and
// streaks from the whole history. Returns the rebuilt day view and the new
// balance. Award flags are rederived from the per-day thresholds, so a
// corrected minutes value grants or revokes the daily reward on replay.
func (e *Engine) AdminEditDay(ctx context.Context, dateStr string, minutes map[string]int, checks []string) (DayHistory, int, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return DayHistory{}, 0, &InvalidInputError{Field: "date", Message: "want YYYY-MM-DD"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	l := NewDayLog()
	for id, m := range minutes {
		def, ok := e.state.TaskByID(id)
		if !ok || def.Kind != KindMinutes {
			continue
		}
		if m < 0 {
			m = 0
		}
		l.Minutes[id] = m
		if def.MinutesPerDay > 0 && m >= def.MinutesPerDay {
			l.MinutesAwarded[id] = true
		}
	}
	for _, id := range checks {
		if def, ok := e.state.TaskByID(id); ok && def.Kind == KindCheck {
			l.Checks[id] = true
		}
	}
	e.state.User.Days[d.Key()] = l

	e.recalcFromScratch()

	if err := e.commit(ctx, prev); err != nil {
		return DayHistory{}, 0, err
	}

	b := e.newHistoryBuilder()
	return b.day(d), e.state.User.Balance, nil
}

// AdminAddBalance shifts the balance by delta and records the adjustment in
// the day's extras so recomputation reproduces it.
func (e *Engine) AdminAddBalance(ctx context.Context, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if delta != 0 {
		e.addBalanceWithExtra(e.today(), "Admin: balance adjustment", delta)
	}
	if err := e.commit(ctx, prev); err != nil {
		return 0, err
	}
	return e.state.User.Balance, nil
}

// AdminSetBalance forces the balance to value (floored at zero). The move is
// recorded as a delta extra, keeping the ledger replayable.
func (e *Engine) AdminSetBalance(ctx context.Context, value int) (int, error) {
	if value < 0 {
		value = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if delta := value - e.state.User.Balance; delta != 0 {
		e.addBalanceWithExtra(e.today(), "Admin: balance set", delta)
	}
	if err := e.commit(ctx, prev); err != nil {
		return 0, err
	}
	return e.state.User.Balance, nil
}

// AdminAddGift queues a gift for the user to accept later.
func (e *Engine) AdminAddGift(ctx context.Context, title string, amount int) ([]Gift, error) {
	if title == "" {
		return nil, &InvalidInputError{Field: "title", Message: "required"}
	}
	if amount <= 0 {
		return nil, &InvalidInputError{Field: "amount", Message: "must be positive"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	e.state.User.Gifts = append(e.state.User.Gifts, Gift{
		ID:     fmt.Sprintf("gift-%d", e.now().UnixNano()),
		Title:  title,
		Amount: amount,
	})
	if err := e.commit(ctx, prev); err != nil {
		return nil, err
	}
	return append([]Gift{}, e.state.User.Gifts...), nil
}

// SetTasks replaces the task catalog. History referencing removed tasks is
// kept; recomputation simply stops valuing those entries.
func (e *Engine) SetTasks(ctx context.Context, tasks []TaskDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	e.state.Tasks = append([]TaskDefinition{}, tasks...)
	e.recalcFromScratch()
	return e.commit(ctx, prev)
}

// SetGoals replaces the one-time goal catalog.
func (e *Engine) SetGoals(ctx context.Context, goals []Goal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	e.state.Goals = append([]Goal{}, goals...)
	e.recalcFromScratch()
	return e.commit(ctx, prev)
}

// SetShop replaces the shop catalog. Past purchases keep their snapshotted
// title and cost.
func (e *Engine) SetShop(ctx context.Context, items []ShopItem) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	e.state.Shop = append([]ShopItem{}, items...)
	return e.commit(ctx, prev)
}
