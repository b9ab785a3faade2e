package database

import (
	"coursehub/backend/models"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Course{},
		&models.Section{},
		&models.Lesson{},
		&models.LessonCompletion{},
		&models.CourseAccessRecord{},
		&models.UserBookmark{},
		&models.Certificate{},
		&models.Notification{},
	)
}
