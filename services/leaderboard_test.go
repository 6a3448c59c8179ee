package services

import (
	"errors"
	"testing"

	"github.com/Nitteswaran/Routely/models"
	"gorm.io/gorm"
)

func seedRankedUsers(t *testing.T, gdb *gorm.DB, points ...int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(points))
	for i, p := range points {
		u := createTestUser(t, gdb, rankName(i))
		setUserStats(t, gdb, u.ID, map[string]interface{}{"points": p})
		u.Points = p
		users = append(users, u)
	}
	return users
}

func rankName(i int) string {
	return string(rune('a'+i)) + "-player"
}

func TestLeaderboardTopOrderAndRanks(t *testing.T) {
	gdb := setupTestDB(t)
	seedRankedUsers(t, gdb, 10, 100, 50, 50)

	entries, total, err := LeaderboardTop(10, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}

	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d: rank = %d, want %d", i, e.Rank, i+1)
		}
		if i > 0 && entries[i-1].Points < e.Points {
			t.Errorf("entry %d: points %d above %d, not sorted", i, entries[i-1].Points, e.Points)
		}
	}
	if entries[0].Points != 100 || entries[3].Points != 10 {
		t.Errorf("order = %v", entries)
	}
}

func TestLeaderboardPagination(t *testing.T) {
	gdb := setupTestDB(t)
	seedRankedUsers(t, gdb, 40, 30, 20, 10)

	entries, total, err := LeaderboardTop(2, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(entries) != 2 {
		t.Fatalf("page size = %d, want 2", len(entries))
	}
	if entries[0].Rank != 3 || entries[1].Rank != 4 {
		t.Errorf("ranks = %d, %d, want 3, 4", entries[0].Rank, entries[1].Rank)
	}
	if entries[0].Points != 20 || entries[1].Points != 10 {
		t.Errorf("points = %d, %d, want 20, 10", entries[0].Points, entries[1].Points)
	}
}

func TestMyRankSharesTies(t *testing.T) {
	gdb := setupTestDB(t)
	users := seedRankedUsers(t, gdb, 100, 50, 50, 10)

	wantRanks := []int{1, 2, 2, 4}
	for i, u := range users {
		info, err := MyRank(u.ID)
		if err != nil {
			t.Fatalf("rank for %s: %v", u.Name, err)
		}
		if info.Rank != wantRanks[i] {
			t.Errorf("%s: rank = %d, want %d", u.Name, info.Rank, wantRanks[i])
		}
		if info.Points != u.Points {
			t.Errorf("%s: points = %d, want %d", u.Name, info.Points, u.Points)
		}
		if info.TotalUsers != 4 {
			t.Errorf("%s: total = %d, want 4", u.Name, info.TotalUsers)
		}
	}
}

func TestMyRankMonotonicInPoints(t *testing.T) {
	gdb := setupTestDB(t)
	users := seedRankedUsers(t, gdb, 5, 80, 200, 80, 33)

	ranks := make(map[uint]int, len(users))
	for _, u := range users {
		info, err := MyRank(u.ID)
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		ranks[u.ID] = info.Rank
	}
	for _, a := range users {
		for _, b := range users {
			if a.Points > b.Points && ranks[a.ID] >= ranks[b.ID] {
				t.Errorf("%d points ranked %d, but %d points ranked %d",
					a.Points, ranks[a.ID], b.Points, ranks[b.ID])
			}
		}
	}
}

func TestMyRankUnknownUser(t *testing.T) {
	setupTestDB(t)
	if _, err := MyRank(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
