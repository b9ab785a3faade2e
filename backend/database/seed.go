package database

import (
	"coursehub/backend/models"

	"gorm.io/gorm"
)

// Seed loads a small demo catalog. It is safe to run more than once.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		category := models.Category{Name: "Programming", Description: "Software development", Color: "#2563eb"}
		if err := tx.Where(models.Category{Name: category.Name}).FirstOrCreate(&category).Error; err != nil {
			return err
		}

		course := models.Course{
			Title:           "Go Fundamentals",
			Description:     "Types, interfaces and concurrency in Go.",
			CategoryID:      &category.ID,
			DifficultyLevel: models.DifficultyBeginner,
			EstimatedHours:  6,
			IsPublished:     true,
		}
		var existing int64
		if err := tx.Model(&models.Course{}).Where("title = ?", course.Title).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		outline := []struct {
			title   string
			lessons []models.Lesson
		}{
			{"Getting Started", []models.Lesson{
				{Title: "Installing Go", YoutubeVideoID: "C8LgvuEBraI", SortOrder: 1, IsPreview: true},
				{Title: "Hello, World", YoutubeVideoID: "YS4e4q9oBaU", SortOrder: 2},
			}},
			{"Concurrency", []models.Lesson{
				{Title: "Goroutines and Channels", YoutubeVideoID: "LvgVSSpwND8", SortOrder: 1},
			}},
		}
		for i, s := range outline {
			section := models.Section{CourseID: course.ID, Title: s.title, SortOrder: i + 1}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			for _, lesson := range s.lessons {
				lesson.SectionID = section.ID
				if err := tx.Create(&lesson).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
