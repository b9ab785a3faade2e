package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationCourseCompletion     = "course_completion"
	NotificationCertificateGenerated = "certificate_generated"
	NotificationLearningReminder     = "learning_reminder"
	NotificationNewCourse            = "new_course"
	NotificationCourseRecommendation = "course_recommendation"
)

// Notification content is immutable after creation; only Read changes.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Type      string         `gorm:"size:32;not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `json:"message"`
	Data      datatypes.JSON `json:"data"`
	Read      bool           `gorm:"not null;default:false;index" json:"read"`
	ActionURL string         `json:"action_url,omitempty"`
}
