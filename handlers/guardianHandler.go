package handlers

import (
	"net/http"
	"strings"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/middleware"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/services"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type guardianRequest struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	Relationship string `json:"relationship"`
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func GetGuardians(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var guardians []models.Guardian
	if err := db.DB.Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("created_at DESC").
		Find(&guardians).Error; err != nil {
		utils.Logger.Error("guardian_list_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guardians"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(guardians), "guardians": guardians})
}

func CreateGuardian(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input guardianRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required and email must be valid"})
		return
	}
	if input.Phone == "" && input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one contact method (phone or email) is required"})
		return
	}
	if input.Phone != "" {
		if d := countDigits(input.Phone); d < 7 || d > 15 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format. Please enter a valid phone number with 7-15 digits."})
			return
		}
	}

	// Reject duplicates on either contact method.
	dupQuery := db.DB.Where("user_id = ? AND is_active = ?", user.ID, true)
	switch {
	case input.Phone != "" && input.Email != "":
		dupQuery = dupQuery.Where("phone = ? OR email = ?", input.Phone, input.Email)
	case input.Phone != "":
		dupQuery = dupQuery.Where("phone = ?", input.Phone)
	default:
		dupQuery = dupQuery.Where("email = ?", input.Email)
	}
	var existing models.Guardian
	if err := dupQuery.First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A guardian with this phone or email already exists"})
		return
	}

	relationship := input.Relationship
	if relationship == "" {
		relationship = "other"
	}

	guardian := models.Guardian{
		UserID:       user.ID,
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		Relationship: relationship,
		IsActive:     true,
	}
	if err := db.DB.Create(&guardian).Error; err != nil {
		utils.Logger.Error("guardian_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guardian"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Guardian added successfully",
		"guardian": guardian,
	})
}

// DeleteGuardian soft-deletes so alert history keeps its reference.
func DeleteGuardian(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var guardian models.Guardian
	if err := db.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&guardian).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guardian not found"})
		return
	}

	if err := db.DB.Model(&guardian).Update("is_active", false).Error; err != nil {
		utils.Logger.Error("guardian_delete_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete guardian"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Guardian removed successfully",
		"guardian": guardian,
	})
}

func TestAlertGuardian(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var guardian models.Guardian
	if err := db.DB.Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), user.ID, true).
		First(&guardian).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guardian not found"})
		return
	}

	delivered, failed := services.DispatchAlerts([]services.AlertJob{
		{Guardian: guardian, Message: "This is a test alert from " + user.Name},
	}, 1)
	if failed > 0 || delivered == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Test alert sent to " + guardian.Name,
		"contact": guardian.Phone + guardian.Email,
	})
}
