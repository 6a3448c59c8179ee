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

type incidentRequest struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Timestamp   string   `json:"timestamp"`
}

// CreateIncident accepts authenticated and anonymous reports. Rate limiting
// happens before any write; a rejected report is never persisted.
func CreateIncident(c *gin.Context) {
	var input incidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if input.Type == "" || input.Lat == nil || input.Lng == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type, latitude, and longitude are required"})
		return
	}
	if !models.IsValidIncidentType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident type"})
		return
	}
	if *input.Lat < -90 || *input.Lat > 90 || *input.Lng < -180 || *input.Lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates. Lat must be between -90 and 90, Lng must be between -180 and 180"})
		return
	}

	var ts time.Time
	if input.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, input.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp"})
			return
		}
		ts = parsed
	}

	var userID *uint
	if user, ok := middleware.CurrentUser(c); ok {
		userID = &user.ID
	}

	incident, err := services.CreateIncident(userID, services.IncidentInput{
		Type:        input.Type,
		Description: input.Description,
		Lat:         *input.Lat,
		Lng:         *input.Lng,
		Timestamp:   ts,
	}, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many incident reports. Please wait before reporting another incident."})
			return
		}
		utils.Logger.Error("incident_create_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("create_incident", "persistence").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report incident"})
		return
	}

	// Points are committed; a failed achievement check must not undo them.
	var newAchievements []string
	if userID != nil {
		newAchievements = services.CheckAchievements(*userID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Incident reported successfully",
		"incident":         incident,
		"points_awarded":   incident.PointsAwarded,
		"new_achievements": newAchievements,
	})
}

func GetIncidents(c *gin.Context) {
	query := db.DB.Model(&models.Incident{})

	if t := c.Query("type"); t != "" && models.IsValidIncidentType(t) {
		query = query.Where("type = ?", t)
	}
	if start := c.Query("startDate"); start != "" {
		if parsed, err := time.Parse(time.RFC3339, start); err == nil {
			query = query.Where("timestamp >= ?", parsed)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if parsed, err := time.Parse(time.RFC3339, end); err == nil {
			query = query.Where("timestamp <= ?", parsed)
		}
	}

	limit := 100
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	var incidents []models.Incident
	if err := query.Order("timestamp DESC").Limit(limit).Find(&incidents).Error; err != nil {
		utils.Logger.Error("incident_list_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incidents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(incidents), "incidents": incidents})
}

func DeleteIncident(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var requesterID *uint
	if user, ok := middleware.CurrentUser(c); ok {
		requesterID = &user.ID
	}

	incident, err := services.DeleteIncident(uint(id), requesterID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		utils.Logger.Error("incident_delete_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("delete_incident", "persistence").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete incident"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Incident deleted successfully",
		"incident": incident,
	})
}
