package services

import (
	"context"
	stderrors "errors"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

type ProgressStats struct {
	TotalLessons       int `json:"total_lessons"`
	CompletedLessons   int `json:"completed_lessons"`
	ProgressPercentage int `json:"progress_percentage"`
	CompletedSections  int `json:"completed_sections"`
	TotalSections      int `json:"total_sections"`
}

type LessonProgress struct {
	LessonID    uint       `json:"lesson_id"`
	LessonTitle string     `json:"lesson_title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type SectionProgress struct {
	SectionID          uint             `json:"section_id"`
	SectionTitle       string           `json:"section_title"`
	Lessons            []LessonProgress `json:"lessons"`
	CompletedCount     int              `json:"completed_count"`
	TotalCount         int              `json:"total_count"`
	ProgressPercentage int              `json:"progress_percentage"`
}

type NextLesson struct {
	SectionID   uint   `json:"section_id"`
	LessonID    uint   `json:"lesson_id"`
	LessonTitle string `json:"lesson_title"`
}

// completionSet maps a completed lesson id to its completion time.
type completionSet map[uint]*time.Time

func (s completionSet) has(lessonID uint) bool {
	_, ok := s[lessonID]
	return ok
}

// computeProgress aggregates an ordered outline against a completion set.
func computeProgress(course *models.Course, done completionSet) ProgressStats {
	stats := ProgressStats{TotalSections: len(course.Sections)}
	for _, section := range course.Sections {
		completedInSection := 0
		for _, lesson := range section.Lessons {
			stats.TotalLessons++
			if done.has(lesson.ID) {
				stats.CompletedLessons++
				completedInSection++
			}
		}
		if len(section.Lessons) > 0 && completedInSection == len(section.Lessons) {
			stats.CompletedSections++
		}
	}
	stats.ProgressPercentage = percentage(stats.CompletedLessons, stats.TotalLessons)
	return stats
}

func computeSectionProgress(course *models.Course, done completionSet) []SectionProgress {
	out := make([]SectionProgress, 0, len(course.Sections))
	for _, section := range course.Sections {
		sp := SectionProgress{
			SectionID:    section.ID,
			SectionTitle: section.Title,
			Lessons:      make([]LessonProgress, 0, len(section.Lessons)),
			TotalCount:   len(section.Lessons),
		}
		for _, lesson := range section.Lessons {
			lp := LessonProgress{LessonID: lesson.ID, LessonTitle: lesson.Title}
			if at, ok := done[lesson.ID]; ok {
				lp.Completed = true
				lp.CompletedAt = at
				sp.CompletedCount++
			}
			sp.Lessons = append(sp.Lessons, lp)
		}
		sp.ProgressPercentage = percentage(sp.CompletedCount, sp.TotalCount)
		out = append(out, sp)
	}
	return out
}

// findNextLesson returns the first incomplete lesson in outline order that
// is not the current one, or nil.
func findNextLesson(course *models.Course, done completionSet, currentLessonID uint) *NextLesson {
	for _, section := range course.Sections {
		for _, lesson := range section.Lessons {
			if lesson.ID == currentLessonID || done.has(lesson.ID) {
				continue
			}
			return &NextLesson{SectionID: section.ID, LessonID: lesson.ID, LessonTitle: lesson.Title}
		}
	}
	return nil
}

func lessonIDs(course *models.Course) []uint {
	var ids []uint
	for _, section := range course.Sections {
		for _, lesson := range section.Lessons {
			ids = append(ids, lesson.ID)
		}
	}
	return ids
}

// ProgressService tracks lesson completion and derives course progress.
type ProgressService struct {
	catalog       repository.CatalogRepo
	progress      repository.ProgressRepo
	access        repository.AccessRepo
	notifications *NotificationService
	certificates  *CertificateService
	now           func() time.Time
	log           *logger.Logger
}

func NewProgressService(
	catalog repository.CatalogRepo,
	progress repository.ProgressRepo,
	access repository.AccessRepo,
	notifications *NotificationService,
	certificates *CertificateService,
	now func() time.Time,
	baseLog *logger.Logger,
) *ProgressService {
	return &ProgressService{
		catalog:       catalog,
		progress:      progress,
		access:        access,
		notifications: notifications,
		certificates:  certificates,
		now:           now,
		log:           baseLog.With("service", "ProgressService"),
	}
}

// SetLessonCompletion marks a lesson complete (stamped now) or removes the
// completion row.
func (s *ProgressService) SetLessonCompletion(ctx context.Context, userID, lessonID uint, completed bool) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.catalog.GetLesson(ctx, lessonID); err != nil {
		return err
	}
	return s.progress.SetCompletion(ctx, userID, lessonID, completed, s.now().UTC())
}

func (s *ProgressService) IsLessonCompleted(ctx context.Context, userID, lessonID uint) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	if _, err := s.catalog.GetLesson(ctx, lessonID); err != nil {
		return false, err
	}
	return s.progress.IsCompleted(ctx, userID, lessonID)
}

// loadCourse fetches the ordered outline and, for a signed-in user, their
// completions within it.
func (s *ProgressService) loadCourse(ctx context.Context, courseID, userID uint) (*models.Course, completionSet, error) {
	course, err := s.catalog.GetOutline(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	done := completionSet{}
	if userID == 0 {
		return course, done, nil
	}
	rows, err := s.progress.GetByUserAndLessonIDs(ctx, userID, lessonIDs(course))
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		done[row.LessonID] = row.CompletedAt
	}
	return course, done, nil
}

// CalculateCourseProgress returns aggregate progress. userID 0 yields the
// anonymous preview with every completion count at zero.
func (s *ProgressService) CalculateCourseProgress(ctx context.Context, courseID, userID uint) (*ProgressStats, error) {
	course, done, err := s.loadCourse(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	stats := computeProgress(course, done)
	return &stats, nil
}

func (s *ProgressService) GetSectionProgress(ctx context.Context, courseID, userID uint) ([]SectionProgress, error) {
	course, done, err := s.loadCourse(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	return computeSectionProgress(course, done), nil
}

// GetNextLesson returns nil when every lesson other than the current one is
// complete.
func (s *ProgressService) GetNextLesson(ctx context.Context, courseID, userID, currentLessonID uint) (*NextLesson, error) {
	course, done, err := s.loadCourse(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	return findNextLesson(course, done, currentLessonID), nil
}

// ToggleLessonCompletion writes the completion, refreshes the cached course
// percentage and, at 100%, announces completion and issues the certificate.
func (s *ProgressService) ToggleLessonCompletion(ctx context.Context, userID, lessonID uint, completed bool) (*ProgressStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	courseID, err := s.catalog.CourseIDForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	previous := 0
	rec, err := s.access.Get(ctx, userID, courseID)
	switch {
	case err == nil:
		previous = rec.CompletionPercentage
	case !stderrors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	now := s.now().UTC()
	if err := s.progress.SetCompletion(ctx, userID, lessonID, completed, now); err != nil {
		return nil, err
	}

	course, done, err := s.loadCourse(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	stats := computeProgress(course, done)

	if err := s.access.SetPercentage(ctx, userID, courseID, stats.ProgressPercentage, &lessonID, now); err != nil {
		return nil, err
	}

	if stats.ProgressPercentage == 100 {
		if previous < 100 {
			s.notifications.CourseCompleted(ctx, userID, course.ID, course.Title)
		}
		if _, err := s.certificates.GenerateCertificate(ctx, userID, courseID); err != nil {
			s.log.Warn("certificate issuance after completion failed", "user_id", userID, "course_id", courseID, "error", err)
		}
	}
	return &stats, nil
}
