package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/middleware"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	os.Exit(m.Run())
}

var handlerDBCounter int64

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&handlerDBCounter, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.UserAction{},
		&models.UserAchievement{},
		&models.Achievement{},
		&models.Incident{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db.DB = gdb
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

func incidentRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/incidents", middleware.OptionalAuth(), CreateIncident)
	return r
}

func postIncident(t *testing.T, r *gin.Engine, body map[string]interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/incidents", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validIncidentBody() map[string]interface{} {
	return map[string]interface{}{
		"type":        models.IncidentFlood,
		"description": "water level rising",
		"lat":         3.14,
		"lng":         101.69,
	}
}

func TestCreateIncidentValidation(t *testing.T) {
	setupHandlerDB(t)
	r := incidentRouter()

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing type", func(b map[string]interface{}) { delete(b, "type") }},
		{"unknown type", func(b map[string]interface{}) { b["type"] = "Meteor" }},
		{"missing lat", func(b map[string]interface{}) { delete(b, "lat") }},
		{"lat out of range", func(b map[string]interface{}) { b["lat"] = 91.0 }},
		{"lng out of range", func(b map[string]interface{}) { b["lng"] = -200.0 }},
		{"bad timestamp", func(b map[string]interface{}) { b["timestamp"] = "yesterday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validIncidentBody()
			tt.mutate(body)
			if w := postIncident(t, r, body, ""); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	// Nothing was persisted by the rejected requests.
	var count int64
	db.DB.Model(&models.Incident{}).Count(&count)
	if count != 0 {
		t.Errorf("persisted incidents = %d, want 0", count)
	}
}

func TestCreateIncidentAnonymous(t *testing.T) {
	setupHandlerDB(t)
	r := incidentRouter()

	w := postIncident(t, r, validIncidentBody(), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		PointsAwarded int `json:"points_awarded"`
		Incident      struct {
			UserID *uint `json:"user_id"`
		} `json:"incident"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PointsAwarded != 0 {
		t.Errorf("anonymous points = %d, want 0", resp.PointsAwarded)
	}
	if resp.Incident.UserID != nil {
		t.Error("anonymous report must have no owner")
	}
}

func TestCreateIncidentAuthenticatedRateLimit(t *testing.T) {
	gdb := setupHandlerDB(t)
	r := incidentRouter()

	user := models.User{Name: "reporter", Email: "reporter@example.com"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	for i := 0; i < 5; i++ {
		if w := postIncident(t, r, validIncidentBody(), token); w.Code != http.StatusCreated {
			t.Fatalf("report %d: status = %d, body %s", i+1, w.Code, w.Body.String())
		}
	}
	if w := postIncident(t, r, validIncidentBody(), token); w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th report: status = %d, want 429", w.Code)
	}

	var got models.User
	if err := gdb.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.Points != 60 {
		t.Errorf("points = %d, want 60", got.Points)
	}
}
