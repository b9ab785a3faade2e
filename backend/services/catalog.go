package services

import (
	"context"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

// CatalogService serves the public course catalog.
type CatalogService struct {
	catalog repository.CatalogRepo
	access  *AccessService
	log     *logger.Logger
}

func NewCatalogService(catalog repository.CatalogRepo, access *AccessService, baseLog *logger.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, access: access, log: baseLog.With("service", "CatalogService")}
}

// ListCourses returns published courses only.
func (s *CatalogService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	filter.OnlyPublished = true
	return s.catalog.ListCourses(ctx, filter)
}

// GetCourseOutline hides unpublished courses behind NotFound.
func (s *CatalogService) GetCourseOutline(ctx context.Context, courseID uint) (*models.Course, error) {
	course, err := s.catalog.GetOutline(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, apperr.NotFound("course")
	}
	return course, nil
}

// GetLesson returns a lesson of a published course. Preview lessons are
// open to everyone; the rest need a signed-in user, whose visit is recorded.
func (s *CatalogService) GetLesson(ctx context.Context, courseID, lessonID, userID uint) (*models.Lesson, error) {
	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, apperr.NotFound("course")
	}
	lesson, err := s.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	lessonCourse, err := s.catalog.CourseIDForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lessonCourse != courseID {
		return nil, apperr.NotFound("lesson")
	}
	if !lesson.IsPreview && userID == 0 {
		return nil, apperr.Unauthorized("sign in to watch this lesson")
	}
	if userID != 0 {
		if err := s.access.RecordAccess(ctx, userID, courseID, &lesson.ID); err != nil {
			return nil, err
		}
	}
	return lesson, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.catalog.ListCategories(ctx)
}
