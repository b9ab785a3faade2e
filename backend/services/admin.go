package services

import (
	"context"
	"strings"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
	"coursehub/backend/validation"
)

type CourseInput struct {
	Title           string  `json:"title" validate:"notblank,min=3,max=100"`
	Description     string  `json:"description" validate:"max=2000"`
	ThumbnailURL    string  `json:"thumbnail_url" validate:"omitempty,url"`
	CategoryID      *uint   `json:"category_id"`
	DifficultyLevel string  `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedHours  float64 `json:"estimated_hours" validate:"gte=0"`
	IsPublished     bool    `json:"is_published"`
	// NotifyUsers announces a newly created course to every user.
	NotifyUsers bool `json:"notify_users"`
}

type SectionInput struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"notblank,min=2,max=80"`
	Order    int    `json:"order" validate:"gte=0"`
}

type LessonInput struct {
	SectionID      uint   `json:"section_id" validate:"required"`
	Title          string `json:"title" validate:"notblank,min=2,max=80"`
	YoutubeVideoID string `json:"youtube_video_id" validate:"youtube_id"`
	Order          int    `json:"order" validate:"gte=0"`
	IsPreview      bool   `json:"is_preview"`
}

// AdminService is the back-office; every method requires an admin actor.
type AdminService struct {
	catalog       repository.CatalogRepo
	users         repository.UserRepo
	notifications *NotificationService
	log           *logger.Logger
}

func NewAdminService(catalog repository.CatalogRepo, users repository.UserRepo, notifications *NotificationService, baseLog *logger.Logger) *AdminService {
	return &AdminService{catalog: catalog, users: users, notifications: notifications, log: baseLog.With("service", "AdminService")}
}

func (s *AdminService) requireAdmin(ctx context.Context, actorID uint) error {
	if err := requireUser(actorID); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, actorID)
	if isNotFound(err) {
		return apperr.Unauthorized("unknown user")
	}
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

func (in *CourseInput) apply(c *models.Course) {
	c.Title = strings.TrimSpace(in.Title)
	c.Description = strings.TrimSpace(in.Description)
	c.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	c.CategoryID = in.CategoryID
	c.DifficultyLevel = in.DifficultyLevel
	if c.DifficultyLevel == "" {
		c.DifficultyLevel = models.DifficultyBeginner
	}
	c.EstimatedHours = in.EstimatedHours
	c.IsPublished = in.IsPublished
}

func (s *AdminService) CreateCourse(ctx context.Context, actorID uint, in CourseInput) (*models.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	course := &models.Course{}
	in.apply(course)
	if err := s.catalog.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.log.Info("course created", "course_id", course.ID, "actor_id", actorID)

	if in.NotifyUsers {
		count, err := s.notifications.Broadcast(ctx, course.ID, course.Title)
		if err != nil {
			s.log.Warn("new course announcement failed", "course_id", course.ID, "error", err)
		} else {
			s.log.Info("new course announced", "course_id", course.ID, "recipients", count)
		}
	}
	return course, nil
}

func (s *AdminService) UpdateCourse(ctx context.Context, actorID, courseID uint, in CourseInput) (*models.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	in.apply(course)
	course.Category = nil
	if err := s.catalog.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AdminService) DeleteCourse(ctx context.Context, actorID, courseID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.catalog.DeleteCourse(ctx, courseID); err != nil {
		return err
	}
	s.log.Info("course deleted", "course_id", courseID, "actor_id", actorID)
	return nil
}

func (s *AdminService) CreateSection(ctx context.Context, actorID uint, in SectionInput) (*models.Section, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}
	section := &models.Section{CourseID: in.CourseID, Title: strings.TrimSpace(in.Title), SortOrder: in.Order}
	if err := s.catalog.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *AdminService) UpdateSection(ctx context.Context, actorID, sectionID uint, in SectionInput) (*models.Section, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	section, err := s.catalog.GetSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if in.CourseID != section.CourseID {
		if _, err := s.catalog.GetCourse(ctx, in.CourseID); err != nil {
			return nil, err
		}
	}
	section.CourseID = in.CourseID
	section.Title = strings.TrimSpace(in.Title)
	section.SortOrder = in.Order
	if err := s.catalog.UpdateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *AdminService) DeleteSection(ctx context.Context, actorID, sectionID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.catalog.DeleteSection(ctx, sectionID)
}

// normalize rewrites a pasted YouTube URL into the bare video id before
// validation.
func (in *LessonInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.YoutubeVideoID = validation.NormalizeYouTubeID(in.YoutubeVideoID)
}

func (s *AdminService) CreateLesson(ctx context.Context, actorID uint, in LessonInput) (*models.Lesson, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetSection(ctx, in.SectionID); err != nil {
		return nil, err
	}
	lesson := &models.Lesson{
		SectionID:      in.SectionID,
		Title:          in.Title,
		YoutubeVideoID: in.YoutubeVideoID,
		SortOrder:      in.Order,
		IsPreview:      in.IsPreview,
	}
	if err := s.catalog.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *AdminService) UpdateLesson(ctx context.Context, actorID, lessonID uint, in LessonInput) (*models.Lesson, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	lesson, err := s.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if in.SectionID != lesson.SectionID {
		if _, err := s.catalog.GetSection(ctx, in.SectionID); err != nil {
			return nil, err
		}
	}
	lesson.SectionID = in.SectionID
	lesson.Title = in.Title
	lesson.YoutubeVideoID = in.YoutubeVideoID
	lesson.SortOrder = in.Order
	lesson.IsPreview = in.IsPreview
	if err := s.catalog.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *AdminService) DeleteLesson(ctx context.Context, actorID, lessonID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.catalog.DeleteLesson(ctx, lessonID)
}

func (s *AdminService) ListCourses(ctx context.Context, actorID uint, filter repository.CourseFilter) ([]models.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	filter.OnlyPublished = false
	return s.catalog.ListCourses(ctx, filter)
}

func (s *AdminService) GetCourseOutline(ctx context.Context, actorID, courseID uint) (*models.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.catalog.GetOutline(ctx, courseID)
}

func (s *AdminService) Stats(ctx context.Context, actorID uint) (*repository.CatalogStats, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.catalog.Stats(ctx)
}

func (s *AdminService) SendLearningReminders(ctx context.Context, actorID uint, idleDays int) (int, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, err
	}
	return s.notifications.SendLearningReminders(ctx, idleDays)
}
