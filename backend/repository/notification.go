package repository

import (
	"context"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"gorm.io/gorm"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, id uint) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id uint) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return apperr.Store("notification.create", r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepo) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, apperr.Store("notification.get", err)
	}
	return &n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("notification.list", err)
	}
	return rows, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Store("notification.count_unread", err)
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
	return apperr.Store("notification.mark_read", err)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	return apperr.Store("notification.mark_all_read", err)
}

func (r *notificationRepo) Delete(ctx context.Context, id uint) error {
	return apperr.Store("notification.delete", r.db.WithContext(ctx).Delete(&models.Notification{}, id).Error)
}
