package services

import (
	"testing"
	"time"
)

func day(t time.Time, offset int, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
}

func TestConsecutiveDays(t *testing.T) {
	today := time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entries []time.Time
		want    int
	}{
		{
			name:    "no entries",
			entries: nil,
			want:    0,
		},
		{
			name:    "single entry today",
			entries: []time.Time{day(today, 0, 9)},
			want:    1,
		},
		{
			name:    "three consecutive days ending today",
			entries: []time.Time{day(today, 0, 8), day(today, 1, 22), day(today, 2, 1)},
			want:    3,
		},
		{
			name:    "gap yesterday stops the streak",
			entries: []time.Time{day(today, 0, 8), day(today, 2, 8)},
			want:    1,
		},
		{
			name:    "no entry today means no streak",
			entries: []time.Time{day(today, 1, 8), day(today, 2, 8)},
			want:    0,
		},
		{
			name: "multiple entries on one day count once",
			entries: []time.Time{
				day(today, 0, 8), day(today, 0, 12), day(today, 0, 23),
				day(today, 1, 8),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsecutiveDays(tt.entries, today); got != tt.want {
				t.Errorf("ConsecutiveDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConsecutiveDaysCappedAt30(t *testing.T) {
	today := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	var entries []time.Time
	for i := 0; i < 45; i++ {
		entries = append(entries, day(today, i, 10))
	}

	if got := ConsecutiveDays(entries, today); got != 30 {
		t.Errorf("ConsecutiveDays() = %d, want the 30-day cap", got)
	}
}

func TestConsecutiveDaysIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2024, 5, 20, 0, 0, 1, 0, time.UTC)

	entries := []time.Time{
		time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC),
	}

	if got := ConsecutiveDays(entries, today); got != 2 {
		t.Errorf("ConsecutiveDays() = %d, want 2", got)
	}
}
