package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.Logger = zap.NewNop()
	os.Exit(m.Run())
}

var testDBCounter int64

// setupTestDB points the global connection at a fresh in-memory sqlite
// database. The postgres row-lock clause is only applied on the postgres
// dialect, so the service code runs unchanged here.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
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
		&models.JournalEntry{},
		&models.Guardian{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db.DB = gdb
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: name + "@example.com",
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, gdb *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := gdb.First(&user, id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &user
}
