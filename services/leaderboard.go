package services

import (
	"errors"
	"fmt"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"gorm.io/gorm"
)

type LeaderboardEntry struct {
	UserID                 uint   `json:"user_id"`
	Name                   string `json:"name"`
	Points                 int    `json:"points"`
	JournalEntriesCount    int    `json:"journal_entries_count"`
	IncidentsReportedCount int    `json:"incidents_reported_count"`
	AchievementsCount      int    `json:"achievements_count"`
	Rank                   int    `json:"rank"`
}

type RankInfo struct {
	Rank       int   `json:"rank"`
	Points     int   `json:"points"`
	TotalUsers int64 `json:"total_users"`
}

// LeaderboardTop returns one page of users ordered by points. Rank is the
// position on the page (offset + index + 1); ties fall in persisted order.
// Always recomputed from current balances, no cache in between.
func LeaderboardTop(limit, offset int) ([]LeaderboardEntry, int64, error) {
	var users []models.User
	if err := db.DB.
		Order("points DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("load leaderboard page: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		var achCount int64
		if err := db.DB.Model(&models.UserAchievement{}).
			Where("user_id = ?", u.ID).
			Count(&achCount).Error; err != nil {
			return nil, 0, fmt.Errorf("count achievements: %w", err)
		}
		entries = append(entries, LeaderboardEntry{
			UserID:                 u.ID,
			Name:                   u.Name,
			Points:                 u.Points,
			JournalEntriesCount:    u.JournalEntriesCount,
			IncidentsReportedCount: u.IncidentsReportedCount,
			AchievementsCount:      int(achCount),
			Rank:                   offset + i + 1,
		})
	}

	var total int64
	if err := db.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return entries, total, nil
}

// MyRank counts strictly richer users, so everyone sharing a balance shares
// a rank. This deliberately differs from the positional rank LeaderboardTop
// assigns; both behaviors are kept for client compatibility.
func MyRank(userID uint) (*RankInfo, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	var richer int64
	if err := db.DB.Model(&models.User{}).
		Where("points > ?", user.Points).
		Count(&richer).Error; err != nil {
		return nil, fmt.Errorf("count higher-ranked users: %w", err)
	}

	var total int64
	if err := db.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return &RankInfo{
		Rank:       int(richer) + 1,
		Points:     user.Points,
		TotalUsers: total,
	}, nil
}
