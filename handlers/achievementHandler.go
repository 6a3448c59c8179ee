package handlers

import (
	"net/http"

	"github.com/Nitteswaran/Routely/achievements"
	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/middleware"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetAchievements returns the full catalog. The seed runs first so the
// catalog endpoint is self-healing after a wiped database.
func GetAchievements(c *gin.Context) {
	if err := achievements.Seed(db.DB); err != nil {
		utils.Logger.Error("achievement_seed_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	var catalog []models.Achievement
	if err := db.DB.Order("category, points_reward DESC").Find(&catalog).Error; err != nil {
		utils.Logger.Error("achievement_list_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(catalog), "achievements": catalog})
}

type achievementStatus struct {
	models.Achievement
	Unlocked   bool        `json:"unlocked"`
	UnlockedAt interface{} `json:"unlocked_at"`
}

// GetMyAchievements joins the catalog with the caller's unlocks. Pure read:
// evaluation happens on content creation, not here.
func GetMyAchievements(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := achievements.Seed(db.DB); err != nil {
		utils.Logger.Error("achievement_seed_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	var catalog []models.Achievement
	if err := db.DB.Order("category, points_reward DESC").Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	var unlocked []models.UserAchievement
	if err := db.DB.Where("user_id = ?", user.ID).Find(&unlocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}
	unlockedAt := make(map[string]models.UserAchievement, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua
	}

	result := make([]achievementStatus, 0, len(catalog))
	for _, a := range catalog {
		status := achievementStatus{Achievement: a}
		if ua, ok := unlockedAt[a.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = ua.UnlockedAt
		}
		result = append(result, status)
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements":   result,
		"unlocked_count": len(unlocked),
		"total_count":    len(catalog),
	})
}
