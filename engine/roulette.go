/*
roulette.go - Once-per-day randomized modifier

PURPOSE:
  One spin per calendar day. The draw maps [0,100) to an effect by
  cumulative bucket, then resolves effect-specific payload against the
  current catalogs. Immediate bonuses pay out on the spot; DAILY_X2 defers
  its downside to the next boundary crossing (boundary.go).

STATE MACHINE (per date):
  Unspun -> Spun(effect)          spin()
  Spun(DAILY_X2) -> PenaltyResolved   first observation of a later day

AUDIT:
  Every resolution leaves an extras entry for the spin date: the paid
  amount for immediate bonuses, a zero-point marker otherwise. Replay
  therefore reproduces spin payouts from the extras record alone.
*/
package engine

import (
	"context"
	"fmt"
	"time"
)

// RouletteView is the caller-facing description of today's outcome.
type RouletteView struct {
	Date             string         `json:"date"`
	Effect           RouletteEffect `json:"effect,omitempty"`
	TaskID           string         `json:"taskId,omitempty"`
	TaskBaseReward   int            `json:"taskBaseReward,omitempty"`
	GoalID           string         `json:"goalId,omitempty"`
	BonusPoints      int            `json:"bonusPoints,omitempty"`
	DiscountedShopID string         `json:"discountedShopId,omitempty"`
	FreeShopID       string         `json:"freeShopId,omitempty"`
	CanSpin          bool           `json:"canSpin"`
	Message          string         `json:"message"`
	NextSpinAt       time.Time      `json:"nextSpinAt"`
}

// TodayRoulette returns today's outcome, or a placeholder with CanSpin set
// when no spin happened yet. The outcome itself is never mutated here.
func (e *Engine) TodayRoulette(ctx context.Context) (RouletteView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if err := e.commit(ctx, prev); err != nil {
		return RouletteView{}, err
	}

	today := e.today()
	if rs := e.state.User.Roulette; rs != nil && rs.Date == today.Key() {
		return e.rouletteView(rs, false), nil
	}
	return RouletteView{
		Date:       today.Key(),
		CanSpin:    true,
		Message:    "Spin the wheel",
		NextSpinAt: e.nextSpinAt(today),
	}, nil
}

// SpinRoulette draws and records today's outcome. A second call on the same
// date returns the original outcome unchanged together with ErrAlreadySpun.
func (e *Engine) SpinRoulette(ctx context.Context) (RouletteView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	today := e.today()
	if rs := e.state.User.Roulette; rs != nil && rs.Date == today.Key() {
		if err := e.commit(ctx, prev); err != nil {
			return RouletteView{}, err
		}
		return e.rouletteView(rs, false), ErrAlreadySpun
	}

	rs := e.draw(today)
	e.state.User.Roulette = rs
	if err := e.commit(ctx, prev); err != nil {
		return RouletteView{}, err
	}
	e.log.Info("roulette spun", "date", rs.Date, "effect", rs.Effect)
	return e.rouletteView(rs, false), nil
}

// draw resolves one uniformly random effect against the current catalogs.
func (e *Engine) draw(today Date) *RouletteOutcome {
	rs := &RouletteOutcome{Date: today.Key()}

	roll := e.rng.Intn(100)
	switch {
	case roll < 40:
		rs.Effect = EffectDailyX2
	case roll < 70:
		rs.Effect = EffectGoalX2
	case roll < 80:
		rs.Effect = EffectBonusPoints
	case roll < 90:
		rs.Effect = EffectShopDiscount
	default:
		rs.Effect = EffectShopFreeUnder
	}

	switch rs.Effect {
	case EffectDailyX2:
		if len(e.state.Tasks) > 0 {
			def := e.state.Tasks[e.rng.Intn(len(e.state.Tasks))]
			rs.TaskID = def.ID
			rs.TaskBaseReward = def.DailyReward
			e.addExtra(today, "Roulette: daily x2 "+def.Title, 0)
		}

	case EffectGoalX2:
		var incomplete []Goal
		for _, g := range e.state.Goals {
			if !g.Completed() {
				incomplete = append(incomplete, g)
			}
		}
		if len(incomplete) > 0 {
			g := incomplete[e.rng.Intn(len(incomplete))]
			rs.GoalID = g.ID
			e.addExtra(today, "Roulette: goal x2 "+g.Title, 0)
		} else {
			// No goal left to double: degrade to an immediate bonus.
			rs.Effect = EffectBonusPoints
			rs.BonusPoints = 1 + e.rng.Intn(bonusPointsMax)
			e.addBalanceWithExtra(today, "Roulette bonus points", rs.BonusPoints)
		}

	case EffectBonusPoints:
		rs.BonusPoints = 1 + e.rng.Intn(bonusPointsMax)
		e.addBalanceWithExtra(today, "Roulette bonus points", rs.BonusPoints)

	case EffectShopDiscount:
		if len(e.state.Shop) > 0 {
			it := e.state.Shop[e.rng.Intn(len(e.state.Shop))]
			rs.DiscountedShopID = it.ID
			e.addExtra(today, "Roulette: 50% off "+it.Title, 0)
		}

	case EffectShopFreeUnder:
		var cheap []ShopItem
		for _, it := range e.state.Shop {
			if it.Cost < freeItemCostCap {
				cheap = append(cheap, it)
			}
		}
		if len(cheap) > 0 {
			it := cheap[e.rng.Intn(len(cheap))]
			rs.FreeShopID = it.ID
			e.addExtra(today, "Roulette: free "+it.Title, 0)
		} else if len(e.state.Shop) > 0 {
			// Nothing under the cap: fall back to a discount over the
			// full catalog.
			it := e.state.Shop[e.rng.Intn(len(e.state.Shop))]
			rs.Effect = EffectShopDiscount
			rs.DiscountedShopID = it.ID
			e.addExtra(today, "Roulette: 50% off "+it.Title, 0)
		}
	}

	return rs
}

// =============================================================================
// TODAY'S MODIFIER QUERIES
// =============================================================================

// rouletteDoublesTask reports whether today's outcome doubles this task.
func (e *Engine) rouletteDoublesTask(taskID string) bool {
	rs := e.state.User.Roulette
	return rs != nil && rs.Date == e.today().Key() &&
		rs.Effect == EffectDailyX2 && rs.TaskID == taskID
}

// rouletteDoublesGoal reports whether today's outcome doubles this goal.
func (e *Engine) rouletteDoublesGoal(goalID string) bool {
	rs := e.state.User.Roulette
	return rs != nil && rs.Date == e.today().Key() &&
		rs.Effect == EffectGoalX2 && rs.GoalID == goalID
}

// effectiveCost applies today's shop modifiers to a base cost.
func (e *Engine) effectiveCost(itemID string, base int) int {
	rs := e.state.User.Roulette
	if rs == nil || rs.Date != e.today().Key() {
		return base
	}
	if itemID == rs.FreeShopID && rs.FreeShopID != "" {
		return 0
	}
	if itemID == rs.DiscountedShopID && rs.DiscountedShopID != "" {
		return max(0, base/2)
	}
	return base
}

func (e *Engine) nextSpinAt(today Date) time.Time {
	next := today.AddDays(1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, e.zone)
}

func (e *Engine) rouletteView(rs *RouletteOutcome, canSpin bool) RouletteView {
	d, _ := ParseDate(rs.Date)
	return RouletteView{
		Date:             rs.Date,
		Effect:           rs.Effect,
		TaskID:           rs.TaskID,
		TaskBaseReward:   rs.TaskBaseReward,
		GoalID:           rs.GoalID,
		BonusPoints:      rs.BonusPoints,
		DiscountedShopID: rs.DiscountedShopID,
		FreeShopID:       rs.FreeShopID,
		CanSpin:          canSpin,
		Message:          e.effectMessage(rs),
		NextSpinAt:       e.nextSpinAt(d),
	}
}

func (e *Engine) effectMessage(rs *RouletteOutcome) string {
	switch rs.Effect {
	case EffectDailyX2:
		return fmt.Sprintf("Today %q pays x2, but missing it costs %d",
			e.state.taskTitle(rs.TaskID), abs(rs.TaskBaseReward))
	case EffectGoalX2:
		return "Goal pays x2 today: " + e.goalTitle(rs.GoalID)
	case EffectBonusPoints:
		return fmt.Sprintf("Instant bonus: +%d", rs.BonusPoints)
	case EffectShopDiscount:
		return "50% off today: " + e.shopTitle(rs.DiscountedShopID)
	case EffectShopFreeUnder:
		return "Free today: " + e.shopTitle(rs.FreeShopID)
	}
	return ""
}

func (e *Engine) goalTitle(id string) string {
	if i, ok := e.state.GoalByID(id); ok {
		return e.state.Goals[i].Title
	}
	return id
}

func (e *Engine) shopTitle(id string) string {
	if it, ok := e.state.ShopItemByID(id); ok {
		return it.Title
	}
	return id
}
