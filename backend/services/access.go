package services

import (
	"context"
	"time"

	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

// AccessService records course visits for the "continue learning" view.
type AccessService struct {
	access  repository.AccessRepo
	catalog repository.CatalogRepo
	now     func() time.Time
	log     *logger.Logger
}

func NewAccessService(access repository.AccessRepo, catalog repository.CatalogRepo, now func() time.Time, baseLog *logger.Logger) *AccessService {
	return &AccessService{access: access, catalog: catalog, now: now, log: baseLog.With("service", "AccessService")}
}

// RecordAccess stamps the visit; a nil lessonID keeps the last lesson.
func (s *AccessService) RecordAccess(ctx context.Context, userID, courseID uint, lessonID *uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.catalog.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return s.access.Touch(ctx, userID, courseID, lessonID, s.now().UTC())
}

func (s *AccessService) ListAccess(ctx context.Context, userID uint) ([]models.CourseAccessRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.access.ListByUser(ctx, userID)
}
