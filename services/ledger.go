package services

import (
	"fmt"
	"time"

	"github.com/Nitteswaran/Routely/models"
	"gorm.io/gorm"
)

// recordAndCount prunes window-expired actions, counts the remaining actions
// of the same type, then records the new one. The returned count excludes
// the action being recorded, matching what EvaluateAction expects. Pruning
// happens before counting so evicted entries can never be counted. When the
// limiter rejects, the surrounding transaction rolls the record back, so a
// rejection never writes anything.
func recordAndCount(tx *gorm.DB, userID uint, action string, now time.Time) (int, error) {
	cutoff := now.Add(-ActionWindow)
	if err := tx.Where("user_id = ? AND timestamp <= ?", userID, cutoff).
		Delete(&models.UserAction{}).Error; err != nil {
		return 0, fmt.Errorf("prune action log: %w", err)
	}

	var count int64
	if err := tx.Model(&models.UserAction{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count recent actions: %w", err)
	}

	entry := models.UserAction{UserID: userID, Action: action, Timestamp: now}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("record action: %w", err)
	}

	return int(count), nil
}
