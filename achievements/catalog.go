package achievements

import (
	"github.com/Nitteswaran/Routely/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Requirement keys understood by the evaluator. An achievement carrying any
// other key can never unlock.
const (
	ReqJournalEntries     = "journalEntries"
	ReqIncidentsReported  = "incidentsReported"
	ReqPollutionIncidents = "pollutionIncidents"
	ReqTrafficIncidents   = "trafficIncidents"
	ReqSafetyIncidents    = "safetyIncidents"
	ReqTotalPoints        = "totalPoints"
	ReqConsecutiveDays    = "consecutiveDays"
)

// Default is the fixed achievement catalog. It is upserted by id at startup
// and before catalog listings, so editing this list is how achievements are
// added or tuned.
var Default = []models.Achievement{
	{
		ID:           "first_journal",
		Name:         "First Journey",
		Description:  "Logged your first journey entry",
		Icon:         "📝",
		Category:     "journal",
		Requirements: models.RequirementMap{ReqJournalEntries: 1},
		PointsReward: 10,
	},
	{
		ID:           "journal_enthusiast",
		Name:         "Journal Enthusiast",
		Description:  "Logged 10 journey entries",
		Icon:         "📖",
		Category:     "journal",
		Requirements: models.RequirementMap{ReqJournalEntries: 10},
		PointsReward: 50,
	},
	{
		ID:           "first_incident",
		Name:         "Community Helper",
		Description:  "Reported your first incident",
		Icon:         "🚨",
		Category:     "incident",
		Requirements: models.RequirementMap{ReqIncidentsReported: 1},
		PointsReward: 20,
	},
	{
		ID:           "incident_reporter",
		Name:         "Active Reporter",
		Description:  "Reported 10 incidents",
		Icon:         "📢",
		Category:     "incident",
		Requirements: models.RequirementMap{ReqIncidentsReported: 10},
		PointsReward: 100,
	},
	{
		ID:           "pollution_warrior",
		Name:         "Pollution Warrior",
		Description:  "Reported 5 air pollution incidents",
		Icon:         "🌬️",
		Category:     "pollution",
		Requirements: models.RequirementMap{ReqPollutionIncidents: 5},
		PointsReward: 75,
	},
	{
		ID:           "traffic_spotter",
		Name:         "Traffic Spotter",
		Description:  "Reported 5 traffic incidents",
		Icon:         "🚗",
		Category:     "traffic",
		Requirements: models.RequirementMap{ReqTrafficIncidents: 5},
		PointsReward: 75,
	},
	{
		ID:           "safety_guardian",
		Name:         "Safety Guardian",
		Description:  "Reported 5 safety-related incidents",
		Icon:         "🛡️",
		Category:     "safety",
		Requirements: models.RequirementMap{ReqSafetyIncidents: 5},
		PointsReward: 75,
	},
	{
		ID:           "community_champion",
		Name:         "Community Champion",
		Description:  "Earned 500 points",
		Icon:         "👑",
		Category:     "community",
		Requirements: models.RequirementMap{ReqTotalPoints: 500},
		PointsReward: 150,
	},
	{
		ID:           "weekly_logger",
		Name:         "Consistent Logger",
		Description:  "Logged entries for 7 consecutive days",
		Icon:         "📅",
		Category:     "journal",
		Requirements: models.RequirementMap{ReqConsecutiveDays: 7},
		PointsReward: 100,
	},
}

// Seed upserts the default catalog. Safe to call repeatedly.
func Seed(db *gorm.DB) error {
	batch := make([]models.Achievement, len(Default))
	copy(batch, Default)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&batch).Error
}
