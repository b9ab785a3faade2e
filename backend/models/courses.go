package models

import "time"

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string    `json:"description"`
	Color       string    `gorm:"size:16" json:"color"`
}

type Course struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	CategoryID      *uint     `gorm:"index" json:"category_id"`
	DifficultyLevel string    `gorm:"size:16;default:beginner" json:"difficulty_level"`
	EstimatedHours  float64   `json:"estimated_hours"`
	IsPublished     bool      `gorm:"not null" json:"is_published"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section orders by SortOrder; admins may assign duplicates, so readers
// break ties on ID.
type Section struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"not null" json:"title"`
	SortOrder int       `gorm:"column:sort_order" json:"order"`

	Lessons []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SectionID      uint      `gorm:"index;not null" json:"section_id"`
	Title          string    `gorm:"not null" json:"title"`
	YoutubeVideoID string    `gorm:"size:16" json:"youtube_video_id"`
	SortOrder      int       `gorm:"column:sort_order" json:"order"`
	IsPreview      bool      `gorm:"default:false" json:"is_preview"`
}
