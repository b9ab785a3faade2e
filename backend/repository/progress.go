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

// ProgressRepo reads and writes per-user lesson completion rows.
type ProgressRepo interface {
	// SetCompletion upserts a completed row stamped at `at`, or deletes the
	// row when completed is false.
	SetCompletion(ctx context.Context, userID, lessonID uint, completed bool, at time.Time) error
	IsCompleted(ctx context.Context, userID, lessonID uint) (bool, error)
	GetByUserAndLessonIDs(ctx context.Context, userID uint, lessonIDs []uint) ([]models.LessonCompletion, error)
	// CompletedSince lists completed rows with completed_at >= since, oldest
	// first, optionally restricted to one course.
	CompletedSince(ctx context.Context, userID uint, courseID *uint, since time.Time) ([]models.LessonCompletion, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) SetCompletion(ctx context.Context, userID, lessonID uint, completed bool, at time.Time) error {
	if !completed {
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Delete(&models.LessonCompletion{}).Error
		return apperr.Store("progress.delete", err)
	}

	completedAt := at
	row := models.LessonCompletion{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &completedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at"}),
		}).
		Create(&row).Error
	return apperr.Store("progress.upsert", err)
}

func (r *progressRepo) IsCompleted(ctx context.Context, userID, lessonID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ? AND completed = ?", userID, lessonID, true).
		Count(&count).Error
	if err != nil {
		return false, apperr.Store("progress.is_completed", err)
	}
	return count > 0, nil
}

func (r *progressRepo) GetByUserAndLessonIDs(ctx context.Context, userID uint, lessonIDs []uint) ([]models.LessonCompletion, error) {
	var rows []models.LessonCompletion
	if userID == 0 || len(lessonIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("progress.get_by_lessons", err)
	}
	return rows, nil
}

func (r *progressRepo) CompletedSince(ctx context.Context, userID uint, courseID *uint, since time.Time) ([]models.LessonCompletion, error) {
	q := r.db.WithContext(ctx).
		Model(&models.LessonCompletion{}).
		Select("lesson_completions.*").
		Where("lesson_completions.user_id = ? AND lesson_completions.completed = ?", userID, true).
		Where("lesson_completions.completed_at IS NOT NULL AND lesson_completions.completed_at >= ?", since)
	if courseID != nil {
		q = q.Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
			Joins("JOIN sections ON sections.id = lessons.section_id").
			Where("sections.course_id = ?", *courseID)
	}

	var rows []models.LessonCompletion
	if err := q.Order("lesson_completions.completed_at ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Store("progress.completed_since", err)
	}
	return rows, nil
}
