package services

import (
	"testing"
	"time"

	"github.com/Nitteswaran/Routely/achievements"
	"github.com/Nitteswaran/Routely/models"
	"gorm.io/gorm"
)

func seedAchievement(t *testing.T, gdb *gorm.DB, a models.Achievement) {
	t.Helper()
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("seed achievement %s: %v", a.ID, err)
	}
}

func setUserStats(t *testing.T, gdb *gorm.DB, userID uint, stats map[string]interface{}) {
	t.Helper()
	if err := gdb.Model(&models.User{}).Where("id = ?", userID).
		Updates(stats).Error; err != nil {
		t.Fatalf("set user stats: %v", err)
	}
}

func TestFirstJournalUnlocksOnce(t *testing.T) {
	gdb := setupTestDB(t)
	if err := achievements.Seed(gdb); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	user := createTestUser(t, gdb, "journaler")
	now := time.Now()

	if _, err := CreateJournalEntry(user.ID, JournalInput{Title: "t", Content: "c"}, now); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	unlocked, err := EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0] != "first_journal" {
		t.Fatalf("unlocked = %v, want [first_journal]", unlocked)
	}

	// 10 for the entry plus the 10 point achievement bonus.
	got := reloadUser(t, gdb, user.ID)
	if got.Points != 20 {
		t.Errorf("points = %d, want 20", got.Points)
	}
	// The bonus must not count as journal activity.
	if got.JournalEntriesCount != 1 {
		t.Errorf("journal count = %d, want 1", got.JournalEntriesCount)
	}

	// A second evaluation changes nothing.
	unlocked, err = EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("re-evaluate unlocked %v, want none", unlocked)
	}
	if got := reloadUser(t, gdb, user.ID); got.Points != 20 {
		t.Errorf("points after re-evaluate = %d, want 20", got.Points)
	}

	var rows int64
	gdb.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("unlock rows = %d, want 1", rows)
	}
}

func TestAllRequirementsMustHold(t *testing.T) {
	gdb := setupTestDB(t)
	seedAchievement(t, gdb, models.Achievement{
		ID:   "well_rounded",
		Name: "Well Rounded",
		Requirements: models.RequirementMap{
			achievements.ReqJournalEntries:    1,
			achievements.ReqIncidentsReported: 1,
		},
		PointsReward: 30,
	})
	user := createTestUser(t, gdb, "partial")
	now := time.Now()

	setUserStats(t, gdb, user.ID, map[string]interface{}{"journal_entries_count": 1})
	unlocked, err := EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked %v with only one requirement met", unlocked)
	}

	setUserStats(t, gdb, user.ID, map[string]interface{}{"incidents_reported_count": 1})
	unlocked, err = EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0] != "well_rounded" {
		t.Fatalf("unlocked = %v, want [well_rounded]", unlocked)
	}
	if got := reloadUser(t, gdb, user.ID); got.Points != 30 {
		t.Errorf("points = %d, want 30", got.Points)
	}
}

func TestUnknownRequirementKeyStaysLocked(t *testing.T) {
	gdb := setupTestDB(t)
	seedAchievement(t, gdb, models.Achievement{
		ID:           "mystery",
		Name:         "Mystery",
		Requirements: models.RequirementMap{"loginDays": 1},
		PointsReward: 10,
	})
	user := createTestUser(t, gdb, "veteran")
	setUserStats(t, gdb, user.ID, map[string]interface{}{
		"points":                   9999,
		"journal_entries_count":    50,
		"incidents_reported_count": 50,
	})

	unlocked, err := EvaluateAchievements(user.ID, time.Now())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("unknown requirement key unlocked %v", unlocked)
	}
}

func TestEmptyRequirementsNeverUnlock(t *testing.T) {
	gdb := setupTestDB(t)
	seedAchievement(t, gdb, models.Achievement{
		ID:           "freebie",
		Name:         "Freebie",
		Requirements: models.RequirementMap{},
		PointsReward: 10,
	})
	user := createTestUser(t, gdb, "anyone")

	unlocked, err := EvaluateAchievements(user.ID, time.Now())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("empty requirements unlocked %v", unlocked)
	}
}

func TestConsecutiveDayAchievement(t *testing.T) {
	gdb := setupTestDB(t)
	seedAchievement(t, gdb, models.Achievement{
		ID:           "three_in_a_row",
		Name:         "Three in a Row",
		Requirements: models.RequirementMap{achievements.ReqConsecutiveDays: 3},
		PointsReward: 25,
	})
	user := createTestUser(t, gdb, "regular")
	now := time.Now()

	// Entries today, yesterday and the day before.
	for offset := 0; offset < 3; offset++ {
		entry := models.JournalEntry{
			UserID:    user.ID,
			Title:     "day",
			Content:   "walk",
			CreatedAt: now.AddDate(0, 0, -offset),
		}
		if err := gdb.Create(&entry).Error; err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	unlocked, err := EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0] != "three_in_a_row" {
		t.Fatalf("unlocked = %v, want [three_in_a_row]", unlocked)
	}
}

func TestIncidentTypeAchievements(t *testing.T) {
	gdb := setupTestDB(t)
	seedAchievement(t, gdb, models.Achievement{
		ID:           "smog_watch",
		Name:         "Smog Watch",
		Requirements: models.RequirementMap{achievements.ReqPollutionIncidents: 2},
		PointsReward: 15,
	})
	user := createTestUser(t, gdb, "observer")
	now := time.Now()

	// A flood report does not count toward pollution.
	for _, typ := range []string{models.IncidentAirPollution, models.IncidentFlood} {
		input := IncidentInput{Type: typ, Description: "seen", Lat: 3, Lng: 101}
		if _, err := CreateIncident(&user.ID, input, now); err != nil {
			t.Fatalf("create %s incident: %v", typ, err)
		}
	}
	unlocked, err := EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked %v with one pollution report", unlocked)
	}

	input := IncidentInput{Type: models.IncidentAirPollution, Description: "haze", Lat: 3, Lng: 101}
	if _, err := CreateIncident(&user.ID, input, now.Add(time.Minute)); err != nil {
		t.Fatalf("create second pollution incident: %v", err)
	}
	unlocked, err = EvaluateAchievements(user.ID, now)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0] != "smog_watch" {
		t.Fatalf("unlocked = %v, want [smog_watch]", unlocked)
	}
}
