package repository

import (
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"

	"gorm.io/gorm"
)

type NotificationRepository struct{ DB *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *entity.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID uint, unreadOnly bool, page, limit int) ([]entity.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.DB.Model(&entity.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []entity.Notification
	err := q.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&out).Error
	return out, total, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}

// MarkRead is idempotent; a read notification is never flipped back.
func (r *NotificationRepository) MarkRead(userID, id uint) (int64, error) {
	res := r.DB.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) Delete(userID, id uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}

// PurgeExpired hard-deletes rows past their expiry, read or not.
func (r *NotificationRepository) PurgeExpired(now time.Time) (int64, error) {
	res := r.DB.Unscoped().
		Where("expires_at <= ?", now).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}
