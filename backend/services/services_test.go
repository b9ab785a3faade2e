package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursehub/backend/database/dbtest"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// harness seeds the two-section course used throughout these tests:
// section A holds L1 and L2, section B holds L3.
type harness struct {
	db       *gorm.DB
	repos    *repository.Repos
	svc      *Services
	clock    *testClock
	user     models.User
	other    models.User
	admin    models.User
	course   models.Course
	sections []models.Section
	lessons  []models.Lesson
}

type harnessOption func(*repository.Repos)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	db := dbtest.Open(t)
	h := &harness{
		db:    db,
		repos: repository.NewRepos(db, logger.Nop()),
		clock: &testClock{t: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)},
	}
	for _, opt := range opts {
		opt(h.repos)
	}
	h.svc = newServices(h.repos, time.UTC, 3, h.clock.now, logger.Nop())

	h.user = models.User{Username: "jane", Email: "jane.doe@example.io", PasswordHash: "x"}
	h.other = models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	h.admin = models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	for _, u := range []*models.User{&h.user, &h.other, &h.admin} {
		require.NoError(t, db.Create(u).Error)
	}

	h.course = models.Course{Title: "Go Basics", Description: "Start here", IsPublished: true, DifficultyLevel: models.DifficultyBeginner}
	require.NoError(t, db.Create(&h.course).Error)
	for i, title := range []string{"A", "B"} {
		s := models.Section{CourseID: h.course.ID, Title: title, SortOrder: i + 1}
		require.NoError(t, db.Create(&s).Error)
		h.sections = append(h.sections, s)
	}
	for _, l := range []models.Lesson{
		{SectionID: h.sections[0].ID, Title: "L1", SortOrder: 1, IsPreview: true},
		{SectionID: h.sections[0].ID, Title: "L2", SortOrder: 2},
		{SectionID: h.sections[1].ID, Title: "L3", SortOrder: 1},
	} {
		require.NoError(t, db.Create(&l).Error)
		h.lessons = append(h.lessons, l)
	}
	return h
}

// completeAll toggles every lesson of the seeded course for the user.
func (h *harness) completeAll(t *testing.T, userID uint) {
	t.Helper()
	for _, l := range h.lessons {
		_, err := h.svc.Progress.ToggleLessonCompletion(context.Background(), userID, l.ID, true)
		require.NoError(t, err)
	}
}

func (h *harness) notificationsOfType(t *testing.T, userID uint, kind string) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, h.db.Where("user_id = ? AND type = ?", userID, kind).Order("id ASC").Find(&rows).Error)
	return rows
}

type failingNotificationRepo struct {
	repository.NotificationRepo
}

func (failingNotificationRepo) Create(context.Context, *models.Notification) error {
	return errors.New("notifications table unavailable")
}

func withFailingNotifications(r *repository.Repos) {
	r.Notifications = failingNotificationRepo{r.Notifications}
}
