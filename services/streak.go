package services

import "time"

// Streaks are never credited beyond 30 days. The cap is part of the
// achievement contract ("consecutiveDays" thresholds are calibrated to it),
// so it must not be raised casually.
const streakLookbackDays = 30

// ConsecutiveDays counts calendar days ending today that each contain at
// least one journal entry. Day boundaries are midnight in today's location;
// time of day is ignored. A gap stops the count.
func ConsecutiveDays(entryTimes []time.Time, today time.Time) int {
	if len(entryTimes) == 0 {
		return 0
	}

	loc := today.Location()
	days := make(map[time.Time]bool, len(entryTimes))
	for _, t := range entryTimes {
		days[startOfDay(t.In(loc))] = true
	}

	streak := 0
	day := startOfDay(today)
	for i := 0; i < streakLookbackDays; i++ {
		if !days[day.AddDate(0, 0, -i)] {
			break
		}
		streak++
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
