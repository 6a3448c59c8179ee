package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/middleware"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/services"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type journalRequest struct {
	Title        string   `json:"title" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	LocationName string   `json:"location_name"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Tags         []string `json:"tags"`
	Mood         string   `json:"mood"`
}

func CreateJournalEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input journalRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	entry, err := services.CreateJournalEntry(user.ID, services.JournalInput{
		Title:        input.Title,
		Content:      input.Content,
		LocationName: input.LocationName,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Tags:         input.Tags,
		Mood:         input.Mood,
	}, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many journal entries. Please wait before creating another entry."})
			return
		}
		utils.Logger.Error("journal_create_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("create_journal", "persistence").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		return
	}

	newAchievements := services.CheckAchievements(user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Journal entry created successfully",
		"entry":            entry,
		"points_awarded":   entry.PointsAwarded,
		"new_achievements": newAchievements,
	})
}

func GetJournalEntries(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	page := 1
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	offset := (page - 1) * limit

	var entries []models.JournalEntry
	if err := db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		utils.Logger.Error("journal_list_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entries"})
		return
	}

	var total int64
	db.DB.Model(&models.JournalEntry{}).Where("user_id = ?", user.ID).Count(&total)

	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"total":   total,
		"entries": entries,
	})
}

func GetJournalEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var entry models.JournalEntry
	if err := db.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func DeleteJournalEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal entry ID"})
		return
	}

	if err := services.DeleteJournalEntry(uint(id), user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		utils.Logger.Error("journal_delete_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("delete_journal", "persistence").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted successfully"})
}
