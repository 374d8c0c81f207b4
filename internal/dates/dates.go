package dates

import "time"

// DayKeyFormat is the canonical calendar-day key layout (no time component).
const DayKeyFormat = "2006-01-02"

// Clock supplies the current time. The repository takes a Clock instead of
// calling time.Now directly so tests can pin "today".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the local wall clock.
func System() Clock { return systemClock{} }

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

// DayKey returns the date key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// Today returns the date key for the clock's current local day.
func Today(c Clock) string {
	return DayKey(c.Now())
}

// ParseDayKey validates a YYYY-MM-DD string.
func ParseDayKey(s string) (time.Time, error) {
	return time.Parse(DayKeyFormat, s)
}

// TrailingDays returns the date keys for the n calendar days ending with
// today, oldest first.
func TrailingDays(c Clock, n int) []string {
	now := c.Now()
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, DayKey(now.AddDate(0, 0, -i)))
	}
	return days
}

// DayLabel returns the short weekday name ("Mon") for a date key, or "?" if
// the key does not parse.
func DayLabel(key string) string {
	t, err := ParseDayKey(key)
	if err != nil {
		return "?"
	}
	return t.Weekday().String()[:3]
}
