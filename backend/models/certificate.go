package models

import (
	"time"

	"gorm.io/datatypes"
)

type Certificate struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UserID            uint           `gorm:"uniqueIndex:idx_certificate_user_course;not null" json:"user_id"`
	CourseID          uint           `gorm:"uniqueIndex:idx_certificate_user_course;index;not null" json:"course_id"`
	CertificateNumber string         `gorm:"uniqueIndex;size:32;not null" json:"certificate_number"`
	VerificationCode  string         `gorm:"uniqueIndex;size:16;not null" json:"verification_code"`
	IssuedAt          time.Time      `gorm:"not null" json:"issued_at"`
	TemplateDesign    datatypes.JSON `json:"template_design"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}
