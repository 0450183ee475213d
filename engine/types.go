/*
Package engine provides the temporal bookkeeping core of the points system.

PURPOSE:
  This package turns raw daily habit logs into a single integer point
  balance. It advances state across day and week boundaries exactly once
  each, tracks per-task completion streaks, resolves a once-per-day
  randomized modifier (the roulette), and can deterministically rebuild
  the whole balance from the full history of raw logs.

KEY CONCEPTS IN THIS FILE (types.go):
  - TaskDefinition: A configured habit (minutes-based or check-off)
  - DayLog: One calendar day's raw activity
  - RouletteOutcome: The single resolved modifier for one date
  - Entry: A labeled point delta kept for audit/history display
  - State: The aggregate root holding the one user record

DESIGN PRINCIPLES:
  1. Raw logs are the source of truth: balance and streaks are derived
     and can always be rebuilt by replaying the logs (replay.go)
  2. Idempotent settlement: re-running boundary processing is a no-op
  3. Integer points with a zero floor: the balance never goes negative
  4. Injected clock and randomness: deterministic under test

SEE ALSO:
  - boundary.go: Week/day boundary settlement
  - roulette.go: Daily modifier state machine
  - replay.go: Full-history recomputation
  - history.go: Day/month reporting derived from the same accounting
*/
package engine

import (
	"time"
)

// =============================================================================
// TASK CATALOG
// =============================================================================

// TaskKind distinguishes how a task is completed for a day.
type TaskKind string

const (
	// KindMinutes tasks accumulate minutes and complete when the daily
	// threshold is reached.
	KindMinutes TaskKind = "MINUTES"
	// KindCheck tasks are a single check-off per day.
	KindCheck TaskKind = "CHECK"
)

// TaskDefinition is one configured habit. The catalog is ordered and
// read-only to the engine.
type TaskDefinition struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Kind                TaskKind `json:"kind"`
	DailyReward         int      `json:"dailyReward"`
	MinutesPerDay       int      `json:"minutesPerDay,omitempty"`       // MINUTES only, required > 0
	WeeklyMinutesGoal   int      `json:"weeklyMinutesGoal,omitempty"`   // MINUTES only, optional
	StreakEnabled       bool     `json:"streakEnabled"`
	WeeklyRequiredCount int      `json:"weeklyRequiredCount,omitempty"` // defaults to 1 when unset
}

// =============================================================================
// RAW DAY LOG
// =============================================================================

// DayLog is one calendar date's raw activity. Entries are created lazily on
// first activity and never deleted.
type DayLog struct {
	// Minutes accumulated per MINUTES task id.
	Minutes map[string]int `json:"minutes,omitempty"`
	// Checks completed for CHECK task ids.
	Checks map[string]bool `json:"checks,omitempty"`
	// MinutesAwarded marks MINUTES tasks already paid out this day, so a
	// threshold crossed twice still pays once.
	MinutesAwarded map[string]bool `json:"minutesAwarded,omitempty"`
}

func NewDayLog() *DayLog {
	return &DayLog{
		Minutes:        map[string]int{},
		Checks:         map[string]bool{},
		MinutesAwarded: map[string]bool{},
	}
}

func (l *DayLog) Clone() *DayLog {
	if l == nil {
		return nil
	}
	c := NewDayLog()
	for k, v := range l.Minutes {
		c.Minutes[k] = v
	}
	for k, v := range l.Checks {
		c.Checks[k] = v
	}
	for k, v := range l.MinutesAwarded {
		c.MinutesAwarded[k] = v
	}
	return c
}

// =============================================================================
// GOALS / SHOP / GIFTS
// =============================================================================

// Goal is a one-time reward-bearing objective. CompletedAt is never cleared
// once set.
type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Reward      int        `json:"reward"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (g Goal) Completed() bool { return g.CompletedAt != nil }

type ShopItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cost  int    `json:"cost"`
}

// Purchase records a completed buy. Title and cost are snapshots so later
// catalog edits do not rewrite history.
type Purchase struct {
	ItemID      string    `json:"itemId"`
	Title       string    `json:"title"`
	Cost        int       `json:"cost"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// Gift is an admin-granted point credit waiting to be accepted.
type Gift struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Amount int    `json:"amount"`
}

// =============================================================================
// ROULETTE OUTCOME
// =============================================================================

type RouletteEffect string

const (
	EffectDailyX2       RouletteEffect = "DAILY_X2"            // random task pays x2 today, penalty if missed
	EffectGoalX2        RouletteEffect = "GOAL_X2"             // random incomplete goal pays x2 today
	EffectBonusPoints   RouletteEffect = "BONUS_POINTS"        // immediate +1..5
	EffectShopDiscount  RouletteEffect = "SHOP_DISCOUNT_50"    // one item at half cost today
	EffectShopFreeUnder RouletteEffect = "SHOP_FREE_UNDER_100" // one item under 100 free today
)

// RouletteOutcome is the single resolved modifier for one date.
//
// The per-date state machine is Unspun (no outcome), Spun (outcome recorded,
// terminal for the day), and PenaltyResolved (DAILY_X2 only, set by boundary
// settlement exactly once when a later day is first observed).
type RouletteOutcome struct {
	Date   string         `json:"date"` // day the outcome applies to
	Effect RouletteEffect `json:"effect"`

	// DAILY_X2
	TaskID         string `json:"taskId,omitempty"`
	TaskBaseReward int    `json:"taskBaseReward,omitempty"`
	PenaltyApplied bool   `json:"penaltyApplied,omitempty"`

	// GOAL_X2
	GoalID string `json:"goalId,omitempty"`

	// BONUS_POINTS
	BonusPoints int `json:"bonusPoints,omitempty"`

	// Shop effects
	DiscountedShopID string `json:"discountedShopId,omitempty"`
	FreeShopID       string `json:"freeShopId,omitempty"`
}

// =============================================================================
// LEDGER EXTRAS
// =============================================================================

// Entry is one labeled point delta in the audit trail. Entries do not move
// the balance by themselves; callers that also change balance record both.
type Entry struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// =============================================================================
// AGGREGATE STATE
// =============================================================================

// UserState is the single user record the engine mutates.
type UserState struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Balance   int    `json:"balance"`

	// Raw day logs keyed by "2006-01-02".
	Days map[string]*DayLog `json:"days"`

	// Consecutive-completion counters per streak-enabled task id.
	Streaks map[string]int `json:"streaks"`

	// Append-only labeled deltas keyed by date.
	Extras map[string][]Entry `json:"extras"`

	Purchases []Purchase `json:"purchases"`
	Gifts     []Gift     `json:"gifts"`

	// Today's roulette outcome; superseded by the next day's spin.
	Roulette *RouletteOutcome `json:"roulette,omitempty"`
}

// State is the aggregate root: the user record plus the catalogs and the
// week-settlement watermark. It is loaded once and mutated in place under
// the engine's lock.
type State struct {
	InstalledAt time.Time `json:"installedAt"`
	// Monday of the last settled week; only ever moves forward.
	LastProcessedWeekStart string `json:"lastProcessedWeekStart,omitempty"`

	User UserState `json:"user"`

	Tasks []TaskDefinition `json:"tasks"`
	Goals []Goal           `json:"goals"`
	Shop  []ShopItem       `json:"shop"`
}

// NewState builds a fresh state installed at the given instant, with the
// current week already marked processed so no phantom settlement fires.
func NewState(installedAt time.Time) *State {
	return &State{
		InstalledAt:            installedAt,
		LastProcessedWeekStart: DateOf(installedAt).WeekStart().Key(),
		User: UserState{
			Days:      map[string]*DayLog{},
			Streaks:   map[string]int{},
			Extras:    map[string][]Entry{},
			Purchases: []Purchase{},
			Gifts:     []Gift{},
		},
	}
}

// Day returns the log for a date, creating it lazily.
func (s *State) Day(d Date) *DayLog {
	key := d.Key()
	l, ok := s.User.Days[key]
	if !ok {
		l = NewDayLog()
		s.User.Days[key] = l
	}
	return l
}

// Clone deep-copies the state. Used to roll back an operation whose
// snapshot write failed.
func (s *State) Clone() *State {
	c := &State{
		InstalledAt:            s.InstalledAt,
		LastProcessedWeekStart: s.LastProcessedWeekStart,
		User: UserState{
			Username:  s.User.Username,
			AvatarURL: s.User.AvatarURL,
			Balance:   s.User.Balance,
			Days:      make(map[string]*DayLog, len(s.User.Days)),
			Streaks:   make(map[string]int, len(s.User.Streaks)),
			Extras:    make(map[string][]Entry, len(s.User.Extras)),
			Purchases: append([]Purchase{}, s.User.Purchases...),
			Gifts:     append([]Gift{}, s.User.Gifts...),
		},
		Tasks: append([]TaskDefinition{}, s.Tasks...),
		Goals: append([]Goal{}, s.Goals...),
		Shop:  append([]ShopItem{}, s.Shop...),
	}
	for k, v := range s.User.Days {
		c.User.Days[k] = v.Clone()
	}
	for k, v := range s.User.Streaks {
		c.User.Streaks[k] = v
	}
	for k, v := range s.User.Extras {
		c.User.Extras[k] = append([]Entry{}, v...)
	}
	if s.User.Roulette != nil {
		r := *s.User.Roulette
		c.User.Roulette = &r
	}
	return c
}
