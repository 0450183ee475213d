package engine

import (
	"time"
)

// =============================================================================
// DATE - Day-granular calendar value (the engine's ledger keys are days)
// =============================================================================

// Date is a calendar day in the user's zone, normalized to UTC midnight
// internally so comparisons and map keys are stable regardless of zone.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a wall-clock instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddWeeks(n int) Date  { return d.AddDays(7 * n) }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Key returns the canonical "2006-01-02" form used as a log key.
func (d Date) Key() string    { return d.t.Format("2006-01-02") }
func (d Date) String() string { return d.Key() }

// WeekStart returns the Monday of the week containing d.
func (d Date) WeekStart() Date {
	shift := int(d.Weekday()) - int(time.Monday)
	if shift < 0 {
		shift += 7 // Sunday
	}
	return d.AddDays(-shift)
}

// WeekEnd returns the Sunday of the week containing d (inclusive).
func (d Date) WeekEnd() Date {
	return d.WeekStart().AddDays(6)
}

// WeekEndInstant returns 23:59:59 on the closing Sunday in the given zone.
func (d Date) WeekEndInstant(zone *time.Location) time.Time {
	sun := d.WeekEnd()
	return time.Date(sun.Year(), sun.Month(), sun.Day(), 23, 59, 59, 0, zone)
}

// FirstMondayAfter returns the first Monday strictly after d.
// Used to anchor the first full week following installation.
func FirstMondayAfter(d Date) Date {
	next := d.AddDays(1)
	for next.Weekday() != time.Monday {
		next = next.AddDays(1)
	}
	return next
}

func MonthRange(year int, month time.Month) (first, last Date) {
	first = NewDate(year, month, 1)
	last = first.AddMonths(1).AddDays(-1)
	return first, last
}

// =============================================================================
// CLOCK - Injected time source (tests substitute a fixed clock)
// =============================================================================

// Clock supplies the current instant. The engine converts it to the
// configured zone before deriving the current day.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper, also handy for
// replaying a scenario at a known date.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
