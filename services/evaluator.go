package services

import (
	"fmt"
	"time"

	"github.com/Nitteswaran/Routely/achievements"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statSnapshot is the user's progress at evaluation time. Per-type incident
// counts are recomputed fresh from the incidents table, not cached.
type statSnapshot struct {
	journalEntries     int
	incidentsReported  int
	pollutionIncidents int
	trafficIncidents   int
	safetyIncidents    int
	totalPoints        int
	consecutiveDays    int
}

// satisfies maps a requirement key to the snapshot stat. Unknown keys are
// never satisfied, so an achievement carrying one stays locked rather than
// silently unlocking.
func (s statSnapshot) satisfies(key string, threshold int) bool {
	switch key {
	case achievements.ReqJournalEntries:
		return s.journalEntries >= threshold
	case achievements.ReqIncidentsReported:
		return s.incidentsReported >= threshold
	case achievements.ReqPollutionIncidents:
		return s.pollutionIncidents >= threshold
	case achievements.ReqTrafficIncidents:
		return s.trafficIncidents >= threshold
	case achievements.ReqSafetyIncidents:
		return s.safetyIncidents >= threshold
	case achievements.ReqTotalPoints:
		return s.totalPoints >= threshold
	case achievements.ReqConsecutiveDays:
		return s.consecutiveDays >= threshold
	default:
		return false
	}
}

func gatherStats(tx *gorm.DB, user *models.User, now time.Time) (statSnapshot, error) {
	snap := statSnapshot{
		journalEntries:    user.JournalEntriesCount,
		incidentsReported: user.IncidentsReportedCount,
		totalPoints:       user.Points,
	}

	typeCounts := map[string]int{}
	type typeCount struct {
		Type  string
		Count int
	}
	var rows []typeCount
	if err := tx.Model(&models.Incident{}).
		Select("type, count(*) as count").
		Where("user_id = ?", user.ID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return snap, fmt.Errorf("count incidents by type: %w", err)
	}
	for _, r := range rows {
		typeCounts[r.Type] = r.Count
	}
	snap.pollutionIncidents = typeCounts[models.IncidentAirPollution]
	snap.trafficIncidents = typeCounts[models.IncidentRoadBlock] + typeCounts[models.IncidentAccident]
	snap.safetyIncidents = typeCounts[models.IncidentAccident]

	var entryTimes []time.Time
	since := startOfDay(now).AddDate(0, 0, -streakLookbackDays)
	if err := tx.Model(&models.JournalEntry{}).
		Where("user_id = ? AND created_at >= ?", user.ID, since).
		Pluck("created_at", &entryTimes).Error; err != nil {
		return snap, fmt.Errorf("load journal timestamps: %w", err)
	}
	snap.consecutiveDays = ConsecutiveDays(entryTimes, now)

	return snap, nil
}

// EvaluateAchievements checks the catalog against the user's current stats
// and unlocks everything newly satisfied, awarding bonus points without
// touching activity counters. It runs in its own per-user locked transaction
// so two concurrent evaluations cannot double-unlock. Returns the ids
// unlocked by this call.
func EvaluateAchievements(userID uint, now time.Time) ([]string, error) {
	var unlockedNow []string

	err := withUser(userID, func(tx *gorm.DB, user *models.User) error {
		unlockedNow = unlockedNow[:0]

		var catalog []models.Achievement
		if err := tx.Find(&catalog).Error; err != nil {
			return fmt.Errorf("load achievement catalog: %w", err)
		}

		var owned []models.UserAchievement
		if err := tx.Where("user_id = ?", user.ID).Find(&owned).Error; err != nil {
			return fmt.Errorf("load unlocked achievements: %w", err)
		}
		ownedSet := make(map[string]bool, len(owned))
		for _, ua := range owned {
			ownedSet[ua.AchievementID] = true
		}

		snap, err := gatherStats(tx, user, now)
		if err != nil {
			return err
		}

		for _, a := range catalog {
			if ownedSet[a.ID] || len(a.Requirements) == 0 {
				continue
			}

			// All requirement keys must pass.
			satisfied := true
			for key, threshold := range a.Requirements {
				if !snap.satisfies(key, threshold) {
					satisfied = false
					break
				}
			}
			if !satisfied {
				continue
			}

			unlock := models.UserAchievement{
				UserID:        user.ID,
				AchievementID: a.ID,
				UnlockedAt:    now,
			}
			if err := tx.Create(&unlock).Error; err != nil {
				return fmt.Errorf("unlock achievement %s: %w", a.ID, err)
			}
			if a.PointsReward > 0 {
				if err := awardBonus(tx, user, a.PointsReward); err != nil {
					return err
				}
				// The bonus may satisfy totalPoints achievements later in
				// this same pass.
				snap.totalPoints = user.Points
			}

			unlockedNow = append(unlockedNow, a.ID)
			utils.AchievementsUnlocked.WithLabelValues(a.ID).Inc()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unlockedNow, nil
}

// CheckAchievements is the fire-and-forget wrapper handlers call after a
// committed award or refund. Evaluation failures are logged and swallowed;
// they never roll back the points the user already earned.
func CheckAchievements(userID uint) []string {
	unlocked, err := EvaluateAchievements(userID, time.Now())
	if err != nil {
		utils.Logger.Error("achievement_evaluation_failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	for _, id := range unlocked {
		utils.Logger.Info("achievement_unlocked",
			zap.Uint("user_id", userID),
			zap.String("achievement_id", id),
		)
	}
	return unlocked
}
