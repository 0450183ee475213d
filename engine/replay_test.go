/*
replay_test.go - Full-history recomputation and admin day edits
*/
package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/warp/points-engine/engine"
)

func TestAdminEditDay_RecomputesBalanceFromHistory(t *testing.T) {
	// GIVEN: A week that settled at a penalty because only 200 of 1080
	//        minutes were logged
	// WHEN: The day is edited after the fact to 1100 minutes
	// THEN: The balance is rebuilt as if the goal had been met all along

	ctx := context.Background()
	eng, clock := newTestEngine(t, monday)
	setTasks(t, eng, minutesTask("focus", 2, 180, 1080))

	clock.now = nextMonday.AddDate(0, 0, 1)
	if err := eng.RecordCompletion(ctx, "focus", 200); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	clock.now = nextMonday.AddDate(0, 0, 7)
	if err := eng.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}
	// 2 daily - 20 penalty, floored at zero
	if got := balance(t, eng); got != 0 {
		t.Fatalf("pre-edit balance: got %d, want 0", got)
	}

	day, newBalance, err := eng.AdminEditDay(ctx, "2026-01-13", map[string]int{"focus": 1100}, nil)
	if err != nil {
		t.Fatalf("AdminEditDay: %v", err)
	}
	// 2 daily + 14 weekly bonus under the corrected history
	if newBalance != 16 {
		t.Errorf("recomputed balance: got %d, want 16", newBalance)
	}
	if day.Total != 2 {
		t.Errorf("edited day total: got %d, want 2 (daily reward)", day.Total)
	}

	// Recomputation is deterministic: the same edit yields the same result
	_, again, err := eng.AdminEditDay(ctx, "2026-01-13", map[string]int{"focus": 1100}, nil)
	if err != nil {
		t.Fatalf("second AdminEditDay: %v", err)
	}
	if again != newBalance {
		t.Errorf("recomputation not idempotent: %d then %d", newBalance, again)
	}
}

func TestAdminEditDay_BadDate_Rejected(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)

	if _, _, err := eng.AdminEditDay(ctx, "13/01/2026", nil, nil); err == nil {
		t.Error("expected invalid date to be rejected")
	}
}

func TestReplay_ClampsEachStepNotJustTheEnd(t *testing.T) {
	// GIVEN: A purchase that overdraws an empty balance, then a credit
	// WHEN: History is replayed
	// THEN: The overdraw floors at zero first, so the credit survives in
	//       full instead of paying off hidden debt

	day1 := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)

	res := engine.Replay(engine.ReplayInput{
		Purchases: []engine.Purchase{
			{ItemID: "walk", Title: "walk", Cost: 50, PurchasedAt: day1},
		},
		Extras: map[string][]engine.Entry{
			"2026-01-06": {{Label: "Gift: welcome", Points: 10}},
		},
		Today: engine.NewDate(2026, time.January, 7),
	})

	if res.Balance != 10 {
		t.Errorf("balance: got %d, want 10 (clamped before the credit)", res.Balance)
	}
}

func TestReplay_EmptyHistory_YieldsZero(t *testing.T) {
	res := engine.Replay(engine.ReplayInput{
		Today: engine.NewDate(2026, time.January, 7),
	})
	if res.Balance != 0 || len(res.Streaks) != 0 {
		t.Errorf("empty history: %+v", res)
	}
}

func TestReplay_RebuildsStreakCounters(t *testing.T) {
	// GIVEN: Nine consecutive check-offs ending today
	// WHEN: History is replayed
	// THEN: The streak is 9 and exactly one 7-day bonus was paid

	task := checkTask("sport", 1, true)
	days := map[string]*engine.DayLog{}
	start := engine.NewDate(2026, time.January, 5)
	for i := 0; i < 9; i++ {
		l := engine.NewDayLog()
		l.Checks["sport"] = true
		days[start.AddDays(i).Key()] = l
	}

	res := engine.Replay(engine.ReplayInput{
		Tasks:              []engine.TaskDefinition{task},
		Days:               days,
		FirstFullWeekStart: engine.NewDate(2026, time.January, 12),
		Today:              start.AddDays(8),
	})

	if res.Streaks["sport"] != 9 {
		t.Errorf("streak: got %d, want 9", res.Streaks["sport"])
	}
	// 9 daily + 7 bonus
	if res.Balance != 16 {
		t.Errorf("balance: got %d, want 16", res.Balance)
	}
}
