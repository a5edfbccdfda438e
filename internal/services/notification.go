package services

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// NotificationService manages the per-recipient notification feed.
// Records are only created through the Dispatcher as side effects of
// other managers' mutations.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create inserts a notification record. Internal use only.
func (s *NotificationService) Create(n *models.Notification) error {
	return s.db.Create(n).Error
}

// List returns the recipient's feed, newest first.
func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	var items []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead flips the read flag on the recipient's own notification.
// Matching no rows is a no-op, not an error (updateMany semantics).
func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}

// MarkAllRead flips the read flag on all of the recipient's unread
// notifications.
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete removes the recipient's own notification; same ownership-scoped
// no-op semantics as MarkRead.
func (s *NotificationService) Delete(id, userID uint) error {
	return s.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{}).Error
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
