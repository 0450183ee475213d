/*
streak_test.go - Consecutive-completion streak behavior

Streak accounting:
  - Every 7th consecutive completion of a streak-enabled task pays +7 on
    top of the daily reward.
  - A missed day observed by maintenance zeroes the counter; the next
    completion starts a fresh run.
*/
package engine_test

import (
	"context"
	"testing"
)

func TestStreak_SevenConsecutiveDays_PaysBonus(t *testing.T) {
	// GIVEN: A streak-enabled check task worth 1
	// WHEN: It is completed seven days in a row
	// THEN: The balance holds 7 daily rewards plus the 7-day bonus

	ctx := context.Background()
	eng, clock := newTestEngine(t, monday)
	setTasks(t, eng, checkTask("sport", 1, true))

	for i := 0; i < 7; i++ {
		clock.now = monday.AddDate(0, 0, i)
		if err := eng.RecordCompletion(ctx, "sport", 0); err != nil {
			t.Fatalf("day %d: %v", i+1, err)
		}
	}

	if got := balance(t, eng); got != 14 {
		t.Errorf("balance: got %d, want 14 (7 daily + 7 streak bonus)", got)
	}

	st, err := eng.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Tasks[0].Streak != 7 {
		t.Errorf("streak counter: got %d, want 7", st.Tasks[0].Streak)
	}
}

func TestStreak_MissedDay_ResetsWithoutBonus(t *testing.T) {
	// GIVEN: Six consecutive completions, then a missed seventh day
	// WHEN: Maintenance observes the gap and the task is done again
	// THEN: The counter restarts at 1 and no 7-day bonus was paid

	ctx := context.Background()
	eng, clock := newTestEngine(t, monday)
	setTasks(t, eng, checkTask("sport", 1, true))

	for i := 0; i < 6; i++ {
		clock.now = monday.AddDate(0, 0, i)
		if err := eng.RecordCompletion(ctx, "sport", 0); err != nil {
			t.Fatalf("day %d: %v", i+1, err)
		}
	}

	// Skip Sunday entirely; next observation is the following Monday.
	clock.now = monday.AddDate(0, 0, 7)
	if err := eng.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance: %v", err)
	}

	st, err := eng.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Tasks[0].Streak != 0 {
		t.Fatalf("streak not reset after gap: got %d", st.Tasks[0].Streak)
	}

	if err := eng.RecordCompletion(ctx, "sport", 0); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	st, err = eng.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Tasks[0].Streak != 1 {
		t.Errorf("streak after restart: got %d, want 1", st.Tasks[0].Streak)
	}
	// 6 + 1 daily rewards, no streak bonus anywhere
	if st.Balance != 7 {
		t.Errorf("balance: got %d, want 7", st.Balance)
	}
}
