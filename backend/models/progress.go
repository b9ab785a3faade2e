package models

import "time"

// LessonCompletion is a pure completion log: un-marking a lesson deletes
// the row instead of flipping Completed off.
type LessonCompletion struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UserID      uint       `gorm:"uniqueIndex:idx_completion_user_lesson;not null" json:"user_id"`
	LessonID    uint       `gorm:"uniqueIndex:idx_completion_user_lesson;index;not null" json:"lesson_id"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at"`
}

// CourseAccessRecord caches the last visit and the completion percentage
// derived from LessonCompletion rows.
type CourseAccessRecord struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	UserID               uint      `gorm:"uniqueIndex:idx_access_user_course;not null" json:"user_id"`
	CourseID             uint      `gorm:"uniqueIndex:idx_access_user_course;index;not null" json:"course_id"`
	LastAccessedAt       time.Time `json:"last_accessed_at"`
	LastLessonID         *uint     `json:"last_lesson_id"`
	CompletionPercentage int       `gorm:"not null;default:0" json:"completion_percentage"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

type UserBookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"uniqueIndex:idx_bookmark_user_course;not null" json:"user_id"`
	CourseID  uint      `gorm:"uniqueIndex:idx_bookmark_user_course;index;not null" json:"course_id"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
