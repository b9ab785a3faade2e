package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"

	"gorm.io/datatypes"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService creates notifications for domain events and serves
// the per-user inbox. Trigger methods never return errors: a failed write
// is logged and the calling operation carries on.
type NotificationService struct {
	repo   repository.NotificationRepo
	users  repository.UserRepo
	access repository.AccessRepo
	now    func() time.Time
	log    *logger.Logger
}

func NewNotificationService(repo repository.NotificationRepo, users repository.UserRepo, access repository.AccessRepo, now func() time.Time, baseLog *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, access: access, now: now, log: baseLog.With("service", "NotificationService")}
}

func (s *NotificationService) emit(ctx context.Context, userID uint, kind, title, message, actionURL string, data map[string]interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.log.Error("encode notification payload", "type", kind, "error", err)
		return
	}
	n := &models.Notification{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      datatypes.JSON(payload),
		ActionURL: actionURL,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("notification write failed", "type", kind, "user_id", userID, "error", err)
		return
	}
	s.log.Debug("notification created", "type", kind, "user_id", userID, "notification_id", n.ID)
}

func courseURL(courseID uint) string { return fmt.Sprintf("/courses/%d", courseID) }

func (s *NotificationService) CourseCompleted(ctx context.Context, userID, courseID uint, courseName string) {
	s.emit(ctx, userID, models.NotificationCourseCompletion,
		"Course completed!",
		fmt.Sprintf("You completed %q. Congratulations!", courseName),
		courseURL(courseID),
		map[string]interface{}{"course_id": courseID, "course_name": courseName})
}

func (s *NotificationService) CertificateGenerated(ctx context.Context, userID uint, courseName string, certificateID uint) {
	s.emit(ctx, userID, models.NotificationCertificateGenerated,
		"Your certificate is ready",
		fmt.Sprintf("The certificate for %q has been issued.", courseName),
		fmt.Sprintf("/certificates/%d", certificateID),
		map[string]interface{}{"course_name": courseName, "certificate_id": certificateID})
}

func (s *NotificationService) LearningReminder(ctx context.Context, userID, courseID uint, courseName string) {
	s.emit(ctx, userID, models.NotificationLearningReminder,
		"Keep learning",
		fmt.Sprintf("Pick up where you left off in %q.", courseName),
		courseURL(courseID),
		map[string]interface{}{"course_id": courseID, "course_name": courseName})
}

func (s *NotificationService) NewCourse(ctx context.Context, userID, courseID uint, courseName string) {
	s.emit(ctx, userID, models.NotificationNewCourse,
		"New course available",
		fmt.Sprintf("%q was just added. Take a look!", courseName),
		courseURL(courseID),
		map[string]interface{}{"course_id": courseID, "course_name": courseName})
}

func (s *NotificationService) CourseRecommendation(ctx context.Context, userID, courseID uint, courseName, reason string) {
	s.emit(ctx, userID, models.NotificationCourseRecommendation,
		"A course picked for you",
		fmt.Sprintf("Based on %s, we recommend %q.", reason, courseName),
		courseURL(courseID),
		map[string]interface{}{"course_id": courseID, "course_name": courseName, "reason": reason})
}

// List returns the newest notifications; limit defaults to 20 and is capped
// at 100.
func (s *NotificationService) List(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) owned(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperr.Forbidden("notification belongs to another user")
	}
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SendLearningReminders nudges users about in-progress courses untouched
// for more than idleDays and returns how many reminders were attempted.
func (s *NotificationService) SendLearningReminders(ctx context.Context, idleDays int) (int, error) {
	if idleDays < 1 {
		return 0, apperr.Invalid("idle days must be positive")
	}
	before := s.now().UTC().AddDate(0, 0, -idleDays)
	records, err := s.access.ListIdle(ctx, before)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		title := ""
		if rec.Course != nil {
			title = rec.Course.Title
		}
		s.LearningReminder(ctx, rec.UserID, rec.CourseID, title)
		sent++
	}
	s.log.Info("learning reminders sent", "count", sent, "idle_days", idleDays)
	return sent, nil
}

// Broadcast announces a new course to every user.
func (s *NotificationService) Broadcast(ctx context.Context, courseID uint, courseName string) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.NewCourse(ctx, id, courseID, courseName)
	}
	return len(ids), nil
}

func isNotFound(err error) bool { return stderrors.Is(err, apperr.ErrNotFound) }
