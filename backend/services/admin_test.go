package services

import (
	"context"
	"errors"
	"testing"

	"coursehub/backend/apperr"
	"coursehub/backend/models"
	"coursehub/backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRequiresRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Admin.CreateCourse(ctx, h.user.ID, CourseInput{Title: "Nope"})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = h.svc.Admin.Stats(ctx, 0)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = h.svc.Admin.Stats(ctx, 4242)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestAdminCreateCourseAnnouncesToEveryone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	course, err := h.svc.Admin.CreateCourse(ctx, h.admin.ID, CourseInput{
		Title:       "Concurrency in Go",
		IsPublished: true,
		NotifyUsers: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyBeginner, course.DifficultyLevel)

	for _, u := range []models.User{h.user, h.other, h.admin} {
		rows := h.notificationsOfType(t, u.ID, models.NotificationNewCourse)
		require.Len(t, rows, 1, u.Username)
		assert.Equal(t, courseURL(course.ID), rows[0].ActionURL)
	}

	_, err = h.svc.Admin.CreateCourse(ctx, h.admin.ID, CourseInput{Title: "Quiet", IsPublished: true})
	require.NoError(t, err)
	assert.Len(t, h.notificationsOfType(t, h.user.ID, models.NotificationNewCourse), 1)
}

func TestAdminValidatesInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Admin.CreateCourse(ctx, h.admin.ID, CourseInput{Title: "Go", DifficultyLevel: "expert"})
	require.Error(t, err)
	var fields apperr.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "difficulty_level")

	_, err = h.svc.Admin.CreateLesson(ctx, h.admin.ID, LessonInput{SectionID: h.sections[0].ID, Title: "Bad video", YoutubeVideoID: "https://vimeo.com/123"})
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "youtube_video_id")

	_, err = h.svc.Admin.CreateSection(ctx, h.admin.ID, SectionInput{CourseID: 9999, Title: "Orphan"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAdminLessonLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lesson, err := h.svc.Admin.CreateLesson(ctx, h.admin.ID, LessonInput{
		SectionID:      h.sections[1].ID,
		Title:          "  Channels  ",
		YoutubeVideoID: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10",
		Order:          2,
	})
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", lesson.YoutubeVideoID)
	assert.Equal(t, "Channels", lesson.Title)

	updated, err := h.svc.Admin.UpdateLesson(ctx, h.admin.ID, lesson.ID, LessonInput{
		SectionID:      h.sections[1].ID,
		Title:          "Channels and select",
		YoutubeVideoID: "https://youtu.be/dQw4w9WgXcQ",
		Order:          3,
		IsPreview:      true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPreview)
	assert.Equal(t, 3, updated.SortOrder)

	require.NoError(t, h.svc.Progress.SetLessonCompletion(ctx, h.user.ID, lesson.ID, true))
	require.NoError(t, h.svc.Admin.DeleteLesson(ctx, h.admin.ID, lesson.ID))

	var count int64
	h.db.Model(&models.LessonCompletion{}).Where("lesson_id = ?", lesson.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdminDeleteCourseCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.completeAll(t, h.user.ID)
	require.NoError(t, h.svc.Bookmarks.AddBookmark(ctx, h.user.ID, h.course.ID))

	stats, err := h.svc.Admin.Stats(ctx, h.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Certificates)
	assert.Equal(t, int64(3), stats.Completions)
	assert.Equal(t, int64(1), stats.PreviewLessons)

	require.NoError(t, h.svc.Admin.DeleteCourse(ctx, h.admin.ID, h.course.ID))

	stats, err = h.svc.Admin.Stats(ctx, h.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Courses)
	assert.Equal(t, int64(0), stats.Lessons)
	assert.Equal(t, int64(0), stats.Completions)
	assert.Equal(t, int64(0), stats.Certificates)

	err = h.svc.Admin.DeleteCourse(ctx, h.admin.ID, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAdminUpdateCourseCanUnpublish(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	course, err := h.svc.Admin.UpdateCourse(ctx, h.admin.ID, h.course.ID, CourseInput{Title: "Go Basics v2", IsPublished: false})
	require.NoError(t, err)
	assert.False(t, course.IsPublished)

	_, err = h.svc.Catalog.GetCourseOutline(ctx, h.course.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	all, err := h.svc.Admin.ListCourses(ctx, h.admin.ID, repository.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Go Basics v2", all[0].Title)
}
