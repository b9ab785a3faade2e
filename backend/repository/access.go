package repository

import (
	"context"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessRepo owns CourseAccessRecord rows, one per (user, course).
type AccessRepo interface {
	Get(ctx context.Context, userID, courseID uint) (*models.CourseAccessRecord, error)
	// Touch records a visit; lessonID == nil keeps the stored last lesson.
	Touch(ctx context.Context, userID, courseID uint, lessonID *uint, at time.Time) error
	// SetPercentage stores a recomputed completion percentage.
	SetPercentage(ctx context.Context, userID, courseID uint, pct int, lessonID *uint, at time.Time) error
	ListByUser(ctx context.Context, userID uint) ([]models.CourseAccessRecord, error)
	// ListIdle returns in-progress records not accessed since `before`.
	ListIdle(ctx context.Context, before time.Time) ([]models.CourseAccessRecord, error)
}

type accessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccessRepo(db *gorm.DB, baseLog *logger.Logger) AccessRepo {
	return &accessRepo{db: db, log: baseLog.With("repo", "AccessRepo")}
}

func (r *accessRepo) Get(ctx context.Context, userID, courseID uint) (*models.CourseAccessRecord, error) {
	var rec models.CourseAccessRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&rec).Error
	if err != nil {
		return nil, apperr.Store("access.get", err)
	}
	return &rec, nil
}

func (r *accessRepo) Touch(ctx context.Context, userID, courseID uint, lessonID *uint, at time.Time) error {
	columns := []string{"last_accessed_at", "updated_at"}
	if lessonID != nil {
		columns = append(columns, "last_lesson_id")
	}
	return r.upsert(ctx, "access.touch", &models.CourseAccessRecord{
		UserID:         userID,
		CourseID:       courseID,
		LastAccessedAt: at,
		LastLessonID:   lessonID,
	}, columns)
}

func (r *accessRepo) SetPercentage(ctx context.Context, userID, courseID uint, pct int, lessonID *uint, at time.Time) error {
	columns := []string{"completion_percentage", "last_accessed_at", "updated_at"}
	if lessonID != nil {
		columns = append(columns, "last_lesson_id")
	}
	return r.upsert(ctx, "access.set_percentage", &models.CourseAccessRecord{
		UserID:               userID,
		CourseID:             courseID,
		LastAccessedAt:       at,
		LastLessonID:         lessonID,
		CompletionPercentage: pct,
	}, columns)
}

func (r *accessRepo) upsert(ctx context.Context, op string, rec *models.CourseAccessRecord, columns []string) error {
	err := r.db.WithContext(ctx).
		Omit("Course").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(rec).Error
	return apperr.Store(op, err)
}

func (r *accessRepo) ListByUser(ctx context.Context, userID uint) ([]models.CourseAccessRecord, error) {
	var rows []models.CourseAccessRecord
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("access.list_by_user", err)
	}
	return rows, nil
}

func (r *accessRepo) ListIdle(ctx context.Context, before time.Time) ([]models.CourseAccessRecord, error) {
	var rows []models.CourseAccessRecord
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("completion_percentage > 0 AND completion_percentage < 100").
		Where("last_accessed_at < ?", before).
		Order("user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("access.list_idle", err)
	}
	return rows, nil
}
