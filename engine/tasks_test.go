/*
tasks_test.go - Daily completion recording
*/
package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/points-engine/engine"
)

func TestMinutesTask_ThresholdCrossing_AwardsExactlyOnce(t *testing.T) {
	// GIVEN: A minutes task with a 180-minute daily threshold, reward 2
	// WHEN: 100 then 90 then 300 more minutes are logged the same day
	// THEN: The reward pays on the crossing and never again that day

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)
	setTasks(t, eng, minutesTask("nutrition", 2, 180, 900))

	if err := eng.RecordCompletion(ctx, "nutrition", 100); err != nil {
		t.Fatalf("first log: %v", err)
	}
	if got := balance(t, eng); got != 0 {
		t.Fatalf("below threshold should not pay: got %d", got)
	}

	if err := eng.RecordCompletion(ctx, "nutrition", 90); err != nil {
		t.Fatalf("second log: %v", err)
	}
	if got := balance(t, eng); got != 2 {
		t.Fatalf("threshold crossing should pay 2: got %d", got)
	}

	if err := eng.RecordCompletion(ctx, "nutrition", 300); err != nil {
		t.Fatalf("third log: %v", err)
	}
	if got := balance(t, eng); got != 2 {
		t.Errorf("reward paid twice in one day: got %d", got)
	}

	st, err := eng.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Tasks[0].TodayMinutes != 490 {
		t.Errorf("accumulated minutes: got %d, want 490", st.Tasks[0].TodayMinutes)
	}
}

func TestMinutesTask_NonPositiveDelta_Rejected(t *testing.T) {
	// GIVEN: A minutes task
	// WHEN: A zero or negative delta is logged
	// THEN: ErrInvalidInput and no state change

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)
	setTasks(t, eng, minutesTask("nutrition", 2, 180, 900))

	for _, delta := range []int{0, -30} {
		err := eng.RecordCompletion(ctx, "nutrition", delta)
		if !errors.Is(err, engine.ErrInvalidInput) {
			t.Errorf("delta %d: expected ErrInvalidInput, got: %v", delta, err)
		}
	}
	if got := balance(t, eng); got != 0 {
		t.Errorf("rejected delta moved the balance: got %d", got)
	}
}

func TestCheckTask_RepeatCheck_Idempotent(t *testing.T) {
	// GIVEN: A check task worth 1
	// WHEN: It is checked off twice on the same day
	// THEN: The second check is a silent no-op

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)
	setTasks(t, eng, checkTask("yoga", 1, false))

	if err := eng.RecordCompletion(ctx, "yoga", 0); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if err := eng.RecordCompletion(ctx, "yoga", 0); err != nil {
		t.Fatalf("repeat check should be a no-op, got: %v", err)
	}
	if got := balance(t, eng); got != 1 {
		t.Errorf("balance: got %d, want 1", got)
	}
}

func TestUnknownTask_SilentNoOp(t *testing.T) {
	// GIVEN: A catalog without task "rowing"
	// WHEN: A completion for it is recorded
	// THEN: No error and no state change

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)
	setTasks(t, eng, checkTask("yoga", 1, false))

	if err := eng.RecordCompletion(ctx, "rowing", 45); err != nil {
		t.Fatalf("unknown task should be silent, got: %v", err)
	}
	if got := balance(t, eng); got != 0 {
		t.Errorf("unknown task moved the balance: got %d", got)
	}
}

func TestGoal_CompletesOnce(t *testing.T) {
	// GIVEN: A seeded goal catalog
	// WHEN: A goal is completed twice
	// THEN: The first pays its reward, the second returns ErrAlreadyCompleted

	ctx := context.Background()
	eng, _ := newTestEngine(t, monday)

	if err := eng.CompleteGoal(ctx, "sunrise"); err != nil {
		t.Fatalf("CompleteGoal: %v", err)
	}
	if got := balance(t, eng); got != 6 {
		t.Fatalf("goal reward: got %d, want 6", got)
	}

	err := eng.CompleteGoal(ctx, "sunrise")
	if !errors.Is(err, engine.ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted, got: %v", err)
	}
	if err := eng.CompleteGoal(ctx, "no-such-goal"); !engine.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
