/*
roulette_test.go - Daily roulette behavior

The random source is scripted: the first roll selects the effect bucket
([0,40) DAILY_X2, [40,70) GOAL_X2, [70,80) BONUS_POINTS, [80,90)
SHOP_DISCOUNT_50, [90,100) SHOP_FREE_UNDER_100), subsequent rolls select
the payload.
*/
package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/points-engine/engine"
)

func TestRoulette_BeforeSpin_CanSpin(t *testing.T) {
	// GIVEN: No spin today
	// WHEN: Today's roulette is read
	// THEN: CanSpin is set and no effect is present

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)

	view, err := eng.TodayRoulette(ctx)
	if err != nil {
		t.Fatalf("TodayRoulette: %v", err)
	}
	if !view.CanSpin {
		t.Error("expected CanSpin before any spin")
	}
	if view.Effect != "" {
		t.Errorf("unexpected effect before spin: %q", view.Effect)
	}
}

func TestRoulette_SecondSpinSameDay_ReturnsExistingOutcome(t *testing.T) {
	// GIVEN: A spin that landed BONUS_POINTS
	// WHEN: Spinning again the same day
	// THEN: ErrAlreadySpun with the original outcome, balance unchanged

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday, 75, 3) // BONUS_POINTS, 1+3 = 4

	first, err := eng.SpinRoulette(ctx)
	if err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if first.Effect != engine.EffectBonusPoints || first.BonusPoints != 4 {
		t.Fatalf("unexpected outcome: %+v", first)
	}
	if got := balance(t, eng); got != 4 {
		t.Fatalf("bonus not paid immediately: got %d", got)
	}

	second, err := eng.SpinRoulette(ctx)
	if !errors.Is(err, engine.ErrAlreadySpun) {
		t.Fatalf("expected ErrAlreadySpun, got: %v", err)
	}
	if second.Effect != first.Effect || second.BonusPoints != first.BonusPoints {
		t.Errorf("second spin changed the outcome: %+v vs %+v", second, first)
	}
	if got := balance(t, eng); got != 4 {
		t.Errorf("second spin moved the balance: got %d", got)
	}
}

func TestRoulette_DailyX2_CompletedTask_PaysDoubleNoPenalty(t *testing.T) {
	// GIVEN: DAILY_X2 landed on the only task (reward 1)
	// WHEN: The task is completed the same day and the next day arrives
	// THEN: The completion paid 2 and no penalty follows

	ctx := context.Background()
	eng, clock := newTestEngine(t, monday, 0, 0) // DAILY_X2, task index 0
	setTasks(t, eng, checkTask("sport", 1, false))

	if _, err := eng.SpinRoulette(ctx); err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if err := eng.RecordCompletion(ctx, "sport", 0); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}
	if got := balance(t, eng); got != 2 {
		t.Fatalf("doubled reward: got %d, want 2", got)
	}

	clock.advanceDays(1)
	if err := eng.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}
	if got := balance(t, eng); got != 2 {
		t.Errorf("penalty applied despite completion: got %d", got)
	}
}

func TestRoulette_DailyX2_MissedTask_PenalizedOnceOnSpinDate(t *testing.T) {
	// GIVEN: DAILY_X2 landed on the only task (reward 1), never completed
	// WHEN: The next day is first observed
	// THEN: The base reward is clawed back exactly once, and the audit
	//       entry lands on the day the task was missed

	ctx := context.Background()
	eng, clock := newTestEngine(t, monday, 0, 0)
	setTasks(t, eng, checkTask("sport", 1, false))

	if _, err := eng.AdminSetBalance(ctx, 10); err != nil {
		t.Fatalf("AdminSetBalance: %v", err)
	}
	if _, err := eng.SpinRoulette(ctx); err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}

	clock.advanceDays(1)
	if err := eng.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}
	if got := balance(t, eng); got != 9 {
		t.Fatalf("penalty balance: got %d, want 9", got)
	}

	// Idempotent: the outcome is consumed
	if err := eng.RunMaintenance(ctx); err != nil {
		t.Fatalf("second RunMaintenance: %v", err)
	}
	if got := balance(t, eng); got != 9 {
		t.Errorf("penalty applied twice: got %d", got)
	}

	day, err := eng.DayHistory(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("DayHistory: %v", err)
	}
	found := false
	for _, it := range day.Items {
		if it.Label == "Missed roulette task: sport" && it.Points == -1 {
			found = true
		}
	}
	if !found {
		t.Errorf("missed-task entry not on the spin date: %+v", day.Items)
	}
}

func TestRoulette_GoalX2_DoublesGoalReward(t *testing.T) {
	// GIVEN: GOAL_X2 landed on the first incomplete goal (reward 6)
	// WHEN: That goal is completed the same day
	// THEN: It pays 12

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday, 45, 0) // GOAL_X2, incomplete index 0

	view, err := eng.SpinRoulette(ctx)
	if err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if view.Effect != engine.EffectGoalX2 || view.GoalID != "sunrise" {
		t.Fatalf("unexpected outcome: %+v", view)
	}

	if err := eng.CompleteGoal(ctx, "sunrise"); err != nil {
		t.Fatalf("CompleteGoal: %v", err)
	}
	if got := balance(t, eng); got != 12 {
		t.Errorf("doubled goal reward: got %d, want 12", got)
	}
}

func TestRoulette_ShopDiscount_HalvesEffectiveCost(t *testing.T) {
	// GIVEN: SHOP_DISCOUNT_50 landed on the 30-point coffee outing
	// WHEN: It is bought the same day
	// THEN: The purchase debits 15

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday, 85, 4) // SHOP_DISCOUNT_50, shop index 4

	if _, err := eng.AdminSetBalance(ctx, 100); err != nil {
		t.Fatalf("AdminSetBalance: %v", err)
	}
	view, err := eng.SpinRoulette(ctx)
	if err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if view.Effect != engine.EffectShopDiscount || view.DiscountedShopID != "coffee-out" {
		t.Fatalf("unexpected outcome: %+v", view)
	}

	st, err := eng.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	for _, it := range st.Shop {
		if it.ID == "coffee-out" && it.EffectiveCost != 15 {
			t.Errorf("effective cost: got %d, want 15", it.EffectiveCost)
		}
	}

	receipt, err := eng.Buy(ctx, "coffee-out")
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if receipt.Cost != 15 {
		t.Errorf("receipt cost: got %d, want 15", receipt.Cost)
	}
	if got := balance(t, eng); got != 85 {
		t.Errorf("balance after discounted buy: got %d, want 85", got)
	}
}

func TestRoulette_FreeUnderCap_CostsNothing(t *testing.T) {
	// GIVEN: SHOP_FREE_UNDER_100 landed on the cheapest eligible walk item
	// WHEN: It is bought the same day
	// THEN: The purchase is free and still recorded

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday, 95, 0) // FREE_UNDER_100, eligible index 0

	view, err := eng.SpinRoulette(ctx)
	if err != nil {
		t.Fatalf("SpinRoulette: %v", err)
	}
	if view.Effect != engine.EffectShopFreeUnder || view.FreeShopID != "walk" {
		t.Fatalf("unexpected outcome: %+v", view)
	}

	receipt, err := eng.Buy(ctx, "walk")
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if receipt.Cost != 0 {
		t.Errorf("free item cost: got %d, want 0", receipt.Cost)
	}
	if got := balance(t, eng); got != 0 {
		t.Errorf("free buy moved the balance: got %d", got)
	}

	purchases, err := eng.Purchases(ctx)
	if err != nil {
		t.Fatalf("Purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].ItemID != "walk" {
		t.Errorf("purchase not recorded: %+v", purchases)
	}
}
