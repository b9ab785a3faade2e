package repository

import (
	"context"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepo interface {
	Add(ctx context.Context, userID, courseID uint) error
	Remove(ctx context.Context, userID, courseID uint) error
	Exists(ctx context.Context, userID, courseID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserBookmark, error)
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (r *bookmarkRepo) Add(ctx context.Context, userID, courseID uint) error {
	err := r.db.WithContext(ctx).
		Omit("Course").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBookmark{UserID: userID, CourseID: courseID}).Error
	return apperr.Store("bookmark.add", err)
}

func (r *bookmarkRepo) Remove(ctx context.Context, userID, courseID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.UserBookmark{}).Error
	return apperr.Store("bookmark.remove", err)
}

func (r *bookmarkRepo) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserBookmark{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Store("bookmark.exists", err)
	}
	return count > 0, nil
}

func (r *bookmarkRepo) ListByUser(ctx context.Context, userID uint) ([]models.UserBookmark, error) {
	var rows []models.UserBookmark
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("bookmark.list", err)
	}
	return rows, nil
}
