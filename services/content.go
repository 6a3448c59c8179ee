package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IncidentInput struct {
	Type        string
	Description string
	Lat         float64
	Lng         float64
	Timestamp   time.Time
}

type JournalInput struct {
	Title        string
	Content      string
	LocationName string
	Lat          *float64
	Lng          *float64
	Tags         []string
	Mood         string
}

// CreateIncident persists an incident report. Authenticated reports pass
// through the rate limiter and earn tiered points; the content write and the
// points mutation commit or fail together. Anonymous reports bypass the
// limiter and always earn nothing, since points need an account to land on.
// Achievement evaluation is the caller's job, after this commits.
func CreateIncident(userID *uint, in IncidentInput, now time.Time) (*models.Incident, error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = now
	}

	if userID == nil {
		incident := &models.Incident{
			Type:        in.Type,
			Description: in.Description,
			Lat:         in.Lat,
			Lng:         in.Lng,
			Timestamp:   in.Timestamp,
		}
		if err := db.DB.Create(incident).Error; err != nil {
			return nil, fmt.Errorf("create incident: %w", err)
		}
		return incident, nil
	}

	var incident *models.Incident
	err := withUser(*userID, func(tx *gorm.DB, user *models.User) error {
		recent, err := recordAndCount(tx, user.ID, models.ActionIncident, now)
		if err != nil {
			return err
		}
		points, err := EvaluateAction(models.ActionIncident, recent)
		if err != nil {
			utils.RateLimitRejections.WithLabelValues(models.ActionIncident).Inc()
			utils.Logger.Info("rate_limit_rejected",
				zap.Uint("user_id", user.ID),
				zap.String("action", models.ActionIncident),
				zap.Int("recent_count", recent),
			)
			return err
		}

		incident = &models.Incident{
			UserID:        userID,
			Type:          in.Type,
			Description:   in.Description,
			Lat:           in.Lat,
			Lng:           in.Lng,
			Timestamp:     in.Timestamp,
			PointsAwarded: points,
		}
		if err := tx.Create(incident).Error; err != nil {
			return fmt.Errorf("create incident: %w", err)
		}
		return award(tx, user, points, models.ActionIncident, now)
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// DeleteIncident removes an incident. Only the owner gets a refund, and only
// when the report actually earned points; anyone else's delete just removes
// the record. A missing incident is ErrNotFound and never refunds.
func DeleteIncident(incidentID uint, requesterID *uint) (*models.Incident, error) {
	var incident models.Incident
	if err := db.DB.First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load incident: %w", err)
	}

	ownedByRequester := requesterID != nil && incident.UserID != nil && *incident.UserID == *requesterID

	if ownedByRequester && incident.PointsAwarded > 0 {
		err := withUser(*requesterID, func(tx *gorm.DB, user *models.User) error {
			res := tx.Delete(&models.Incident{}, incident.ID)
			if res.Error != nil {
				return fmt.Errorf("delete incident: %w", res.Error)
			}
			// A concurrent duplicate delete already refunded; do nothing.
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			return refund(tx, user, incident.PointsAwarded, models.ActionIncident)
		})
		if err != nil {
			return nil, err
		}
		return &incident, nil
	}

	res := db.DB.Delete(&models.Incident{}, incident.ID)
	if res.Error != nil {
		return nil, fmt.Errorf("delete incident: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &incident, nil
}

// CreateJournalEntry persists a journal entry for an authenticated user,
// applying the journal rate limit tier. Content write and points award are
// one atomic unit.
func CreateJournalEntry(userID uint, in JournalInput, now time.Time) (*models.JournalEntry, error) {
	var entry *models.JournalEntry
	err := withUser(userID, func(tx *gorm.DB, user *models.User) error {
		recent, err := recordAndCount(tx, user.ID, models.ActionJournal, now)
		if err != nil {
			return err
		}
		points, err := EvaluateAction(models.ActionJournal, recent)
		if err != nil {
			utils.RateLimitRejections.WithLabelValues(models.ActionJournal).Inc()
			utils.Logger.Info("rate_limit_rejected",
				zap.Uint("user_id", user.ID),
				zap.String("action", models.ActionJournal),
				zap.Int("recent_count", recent),
			)
			return err
		}

		entry = &models.JournalEntry{
			UserID:        user.ID,
			Title:         in.Title,
			Content:       in.Content,
			LocationName:  in.LocationName,
			Lat:           in.Lat,
			Lng:           in.Lng,
			Tags:          in.Tags,
			Mood:          in.Mood,
			PointsAwarded: points,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("create journal entry: %w", err)
		}
		return award(tx, user, points, models.ActionJournal, now)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteJournalEntry removes one of the user's own entries, refunding the
// points it earned. Entries are only visible to their owner, so a foreign id
// is indistinguishable from a missing one.
func DeleteJournalEntry(entryID, userID uint) error {
	var entry models.JournalEntry
	if err := db.DB.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load journal entry: %w", err)
	}

	if entry.PointsAwarded > 0 {
		return withUser(userID, func(tx *gorm.DB, user *models.User) error {
			res := tx.Delete(&models.JournalEntry{}, entry.ID)
			if res.Error != nil {
				return fmt.Errorf("delete journal entry: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			return refund(tx, user, entry.PointsAwarded, models.ActionJournal)
		})
	}

	res := db.DB.Delete(&models.JournalEntry{}, entry.ID)
	if res.Error != nil {
		return fmt.Errorf("delete journal entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
