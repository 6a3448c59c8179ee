package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Action types recorded in the per-user action log.
const (
	ActionJournal  = "journal"
	ActionIncident = "incident"
)

// Incident types accepted by the report endpoint.
const (
	IncidentAirPollution = "Air Pollution"
	IncidentFlood        = "Flood"
	IncidentRoadBlock    = "Road Block"
	IncidentAccident     = "Accident"
	IncidentOther        = "Other"
)

var ValidIncidentTypes = []string{
	IncidentAirPollution,
	IncidentFlood,
	IncidentRoadBlock,
	IncidentAccident,
	IncidentOther,
}

func IsValidIncidentType(t string) bool {
	for _, v := range ValidIncidentTypes {
		if v == t {
			return true
		}
	}
	return false
}

type User struct {
	ID                     uint              `gorm:"primaryKey" json:"id"`
	Name                   string            `json:"name"`
	Email                  string            `gorm:"unique" json:"email"`
	PasswordHash           string            `json:"-"`
	Phone                  string            `json:"phone,omitempty"`
	Points                 int               `gorm:"default:0" json:"points"`
	JournalEntriesCount    int               `gorm:"default:0" json:"journal_entries_count"`
	IncidentsReportedCount int               `gorm:"default:0" json:"incidents_reported_count"`
	LastJournalEntryAt     *time.Time        `json:"last_journal_entry_at,omitempty"`
	LastIncidentReportedAt *time.Time        `json:"last_incident_reported_at,omitempty"`
	CreatedAt              time.Time         `gorm:"autoCreateTime" json:"created_at"`
	Achievements           []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}

// UserAction is the sliding spam-prevention log. Rows older than the rate
// limit window are pruned on every access, so the table stays small.
type UserAction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

// UserAchievement marks an unlocked achievement. The unique index is the
// last line of defense against double-unlock; unlocks are never removed.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// RequirementMap stores achievement requirements as a JSON column,
// e.g. {"journalEntries": 10}.
type RequirementMap map[string]int

func (m RequirementMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	return string(data), err
}

func (m *RequirementMap) Scan(value interface{}) error {
	if value == nil {
		*m = RequirementMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported requirements type %T", value)
	}
}

// Achievement is a catalog record. The catalog is seeded idempotently from
// achievements.Default, so rows here always mirror the in-code definitions.
type Achievement struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Icon         string         `json:"icon"`
	Category     string         `json:"category"`
	Requirements RequirementMap `gorm:"type:text" json:"requirements"`
	PointsReward int            `gorm:"default:0" json:"points_reward"`
}

type Incident struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`
	Type          string    `gorm:"index" json:"type"`
	Description   string    `json:"description"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
	PointsAwarded int       `gorm:"default:0" json:"points_awarded"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// StringList stores journal tags as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported tags type %T", value)
	}
}

type JournalEntry struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index" json:"user_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	LocationName  string     `json:"location_name,omitempty"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	Tags          StringList `gorm:"type:text" json:"tags"`
	Mood          string     `json:"mood,omitempty"`
	PointsAwarded int        `gorm:"default:0" json:"points_awarded"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// Guardian is an emergency contact. Deletion is soft so alert history keeps
// a valid reference.
type Guardian struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index" json:"user_id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Relationship string     `gorm:"default:other" json:"relationship"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastNotified *time.Time `json:"last_notified,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
