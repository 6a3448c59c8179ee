package services

import (
	"fmt"
	"time"

	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"gorm.io/gorm"
)

// award credits points for an action and bumps the matching activity counter
// and last-action timestamp. A zero amount still counts the activity. Must
// run inside a withUser transaction; if the write fails nothing is committed.
func award(tx *gorm.DB, user *models.User, amount int, action string, now time.Time) error {
	user.Points += amount
	updates := map[string]interface{}{"points": user.Points}

	switch action {
	case models.ActionJournal:
		user.JournalEntriesCount++
		updates["journal_entries_count"] = user.JournalEntriesCount
		updates["last_journal_entry_at"] = now
	case models.ActionIncident:
		user.IncidentsReportedCount++
		updates["incidents_reported_count"] = user.IncidentsReportedCount
		updates["last_incident_reported_at"] = now
	default:
		return fmt.Errorf("unknown action type %q", action)
	}

	if err := tx.Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	utils.PointsAwarded.WithLabelValues(action).Add(float64(amount))
	return nil
}

// refund reverses an award on content deletion. Both the balance and the
// counter clamp at zero so a duplicate delete request can never drive either
// negative.
func refund(tx *gorm.DB, user *models.User, amount int, action string) error {
	user.Points -= amount
	if user.Points < 0 {
		user.Points = 0
	}
	updates := map[string]interface{}{"points": user.Points}

	switch action {
	case models.ActionJournal:
		if user.JournalEntriesCount > 0 {
			user.JournalEntriesCount--
		}
		updates["journal_entries_count"] = user.JournalEntriesCount
	case models.ActionIncident:
		if user.IncidentsReportedCount > 0 {
			user.IncidentsReportedCount--
		}
		updates["incidents_reported_count"] = user.IncidentsReportedCount
	default:
		return fmt.Errorf("unknown action type %q", action)
	}

	if err := tx.Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("refund points: %w", err)
	}
	utils.PointsRefunded.WithLabelValues(action).Add(float64(amount))
	return nil
}

// awardBonus credits achievement reward points only. Activity counters are
// untouched; an unlock is not an activity.
func awardBonus(tx *gorm.DB, user *models.User, amount int) error {
	user.Points += amount
	if err := tx.Model(user).Update("points", user.Points).Error; err != nil {
		return fmt.Errorf("award bonus points: %w", err)
	}
	return nil
}
