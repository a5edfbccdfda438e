package services

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/taskhub-dev/taskhub/internal/config"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"github.com/taskhub-dev/taskhub/pkg/response"
	"gorm.io/gorm"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

var testDBSeq int64

// setupTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own named instance so tests stay isolated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:taskhub_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := models.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestDispatcher wires a dispatcher with email delivery disabled, so
// Notify only writes notification rows.
func newTestDispatcher(db *gorm.DB) *Dispatcher {
	emails := NewEmailService(&config.SMTPConfig{Enabled: false})
	return NewDispatcher(NewNotificationService(db), NewSyncQueue(emails), emails)
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Password: "not-a-real-hash", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, OwnerID: ownerID}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project %s: %v", name, err)
	}
	return project
}

func addTestMember(t *testing.T, db *gorm.DB, projectID, userID uint) {
	t.Helper()

	if err := db.Create(&models.ProjectMember{ProjectID: projectID, UserID: userID}).Error; err != nil {
		t.Fatalf("failed to add member %d to project %d: %v", userID, projectID, err)
	}
}

// countNotifications counts a user's notifications, optionally filtered
// by type (empty typ counts all).
func countNotifications(t *testing.T, db *gorm.DB, userID uint, typ string) int64 {
	t.Helper()

	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if typ != "" {
		query = query.Where("type = ?", typ)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}

func assertKind(t *testing.T, err error, kind response.Kind) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("error kind = %v (%q), expected %v", appErr.Kind, appErr.Message, kind)
	}
}
