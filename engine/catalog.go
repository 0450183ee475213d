/*
catalog.go - Task/goal/shop catalog access and seed data

PURPOSE:
  Read-only views over the ordered catalogs held in State. The engine never
  mutates a definition during a computation; admin replacement swaps whole
  lists and triggers no retroactive accounting (history is derived from raw
  logs against whatever catalog is current, matching the original system).
*/
package engine

// TaskByID returns the definition for an id, or false when unknown.
func (s *State) TaskByID(id string) (TaskDefinition, bool) {
	for _, def := range s.Tasks {
		if def.ID == id {
			return def, true
		}
	}
	return TaskDefinition{}, false
}

// PrimaryWeeklyMinutesTask returns the first MINUTES task carrying a
// positive weekly minutes goal. Weekly goal settlement intentionally uses
// only this one task; additional configured goals are ignored.
func (s *State) PrimaryWeeklyMinutesTask() (TaskDefinition, bool) {
	for _, def := range s.Tasks {
		if def.Kind == KindMinutes && def.WeeklyMinutesGoal > 0 {
			return def, true
		}
	}
	return TaskDefinition{}, false
}

// WeeklyRequirement returns how many completions a task owes per week.
// Unset or non-positive counts default to one.
func (def TaskDefinition) WeeklyRequirement() int {
	if def.WeeklyRequiredCount <= 0 {
		return 1
	}
	return def.WeeklyRequiredCount
}

func (s *State) GoalByID(id string) (int, bool) {
	for i, g := range s.Goals {
		if g.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) ShopItemByID(id string) (ShopItem, bool) {
	for _, it := range s.Shop {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

func (s *State) taskTitle(id string) string {
	if def, ok := s.TaskByID(id); ok {
		return def.Title
	}
	return id
}

// =============================================================================
// SEED CATALOGS - Defaults for a fresh installation
// =============================================================================

func SeedTasks() []TaskDefinition {
	return []TaskDefinition{
		{ID: "nutrition", Title: "Nutrition (3h/day)", Kind: KindMinutes, DailyReward: 2,
			MinutesPerDay: 180, WeeklyMinutesGoal: 900, WeeklyRequiredCount: 1},
		{ID: "english", Title: "English (1h/day)", Kind: KindMinutes, DailyReward: 1,
			MinutesPerDay: 60, StreakEnabled: true, WeeklyRequiredCount: 1},
		{ID: "sport", Title: "Sport", Kind: KindCheck, DailyReward: 1,
			StreakEnabled: true, WeeklyRequiredCount: 1},
		{ID: "yoga", Title: "Yoga", Kind: KindCheck, DailyReward: 1,
			WeeklyRequiredCount: 1},
		{ID: "viet", Title: "5 Vietnamese words", Kind: KindCheck, DailyReward: 1,
			StreakEnabled: true, WeeklyRequiredCount: 1},
	}
}

func SeedGoals() []Goal {
	return []Goal{
		{ID: "sunrise", Title: "See the sunrise", Reward: 6},
		{ID: "meet-vn-girl", Title: "Meet a Vietnamese girl", Reward: 15},
		{ID: "date-vn-girl", Title: "Date a Vietnamese girl", Reward: 20},
	}
}

func SeedShop() []ShopItem {
	return []ShopItem{
		{ID: "lazy-day", Title: "Lazy day (no judgment)", Cost: 100},
		{ID: "walk", Title: "Walk of choice", Cost: 20},
		{ID: "nikita-sport", Title: "Nikita sports session", Cost: 30},
		{ID: "nikita-shopping", Title: "Shopping trip for Nikita", Cost: 50},
		{ID: "coffee-out", Title: "Coffee outing (or coffee at home)", Cost: 30},
		{ID: "coffee-sweet", Title: "Coffee with candy and compliments", Cost: 10},
		{ID: "day-trip", Title: "Day trip anywhere you want", Cost: 250},
		{ID: "movie-night", Title: "Movie night (from dinner to bedtime)", Cost: 75},
		{ID: "no-gadgets", Title: "Gadget-free day together", Cost: 200},
		{ID: "secret-gift", Title: "Secret gift", Cost: 300},
	}
}
