package repository

import (
	"context"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"gorm.io/gorm"
)

type CertificateRepo interface {
	// Create inserts a certificate. A unique-key violation surfaces as
	// apperr.ErrConflict.
	Create(ctx context.Context, cert *models.Certificate) error
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Certificate, error)
	GetByID(ctx context.Context, id uint) (*models.Certificate, error)
	GetByVerificationCode(ctx context.Context, code string) (*models.Certificate, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(ctx context.Context, cert *models.Certificate) error {
	return apperr.Store("certificate.create", r.db.WithContext(ctx).Omit("Course", "User").Create(cert).Error)
}

func (r *certificateRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").Preload("User").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, apperr.Store("certificate.get_by_user_course", err)
	}
	return &cert, nil
}

func (r *certificateRepo) GetByID(ctx context.Context, id uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).Preload("Course").Preload("User").First(&cert, id).Error; err != nil {
		return nil, apperr.Store("certificate.get_by_id", err)
	}
	return &cert, nil
}

func (r *certificateRepo) GetByVerificationCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").Preload("User").
		Where("verification_code = ?", code).
		First(&cert).Error
	if err != nil {
		return nil, apperr.Store("certificate.get_by_code", err)
	}
	return &cert, nil
}

func (r *certificateRepo) ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	var rows []models.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").Preload("User").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("certificate.list_by_user", err)
	}
	return rows, nil
}
