package services

import (
	"context"
	"testing"

	"coursehub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestScoreCoursesNewUser(t *testing.T) {
	courses := []models.Course{
		{ID: 1, DifficultyLevel: models.DifficultyAdvanced},
		{ID: 2, DifficultyLevel: models.DifficultyBeginner},
		{ID: 3, DifficultyLevel: models.DifficultyBeginner},
	}
	ranked := scoreCourses(courses, nil, nil)
	require.Len(t, ranked, 3)
	assert.Equal(t, uint(2), ranked[0].Course.ID)
	assert.Equal(t, 25, ranked[0].Score)
	assert.Equal(t, ReasonBeginner, ranked[0].Reason)
	assert.Equal(t, uint(3), ranked[1].Course.ID)
	assert.Equal(t, ReasonPopular, ranked[2].Reason)
	assert.Equal(t, 0, ranked[2].Score)
}

func TestScoreCoursesWithHistory(t *testing.T) {
	web := uintPtr(7)
	courses := []models.Course{
		{ID: 1, CategoryID: web, DifficultyLevel: models.DifficultyBeginner},
		{ID: 2, CategoryID: web, DifficultyLevel: models.DifficultyIntermediate},
		{ID: 3, DifficultyLevel: models.DifficultyAdvanced},
		{ID: 4, DifficultyLevel: models.DifficultyIntermediate},
		{ID: 5, DifficultyLevel: models.DifficultyBeginner},
	}
	history := []models.CourseAccessRecord{
		{CourseID: 2, CompletionPercentage: 40},
		{CourseID: 1, CompletionPercentage: 100},
	}
	ranked := scoreCourses(courses, history, map[uint]bool{3: true})

	scores := map[uint]Recommendation{}
	for _, r := range ranked {
		scores[r.Course.ID] = r
	}
	require.NotContains(t, scores, uint(1))

	// category 50 + in progress 40 + next level 20
	assert.Equal(t, 110, scores[2].Score)
	assert.Equal(t, ReasonNextLevel, scores[2].Reason)
	assert.Equal(t, 30, scores[3].Score)
	assert.Equal(t, ReasonBookmarked, scores[3].Reason)
	assert.Equal(t, 20, scores[4].Score)
	assert.Equal(t, 10, scores[5].Score)
	assert.Equal(t, ReasonBeginner, scores[5].Reason)

	ids := make([]uint, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Course.ID)
	}
	assert.Equal(t, []uint{2, 3, 4, 5}, ids)
}

func TestSendTopRecommendation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	second := models.Course{Title: "Go Web", IsPublished: true, DifficultyLevel: models.DifficultyIntermediate}
	require.NoError(t, h.db.Create(&second).Error)

	h.completeAll(t, h.user.ID)
	sent, err := h.svc.Recommendations.SendTopRecommendation(ctx, h.user.ID)
	require.NoError(t, err)
	assert.True(t, sent)

	rows := h.notificationsOfType(t, h.user.ID, models.NotificationCourseRecommendation)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "Go Web")

	recs, err := h.svc.Recommendations.Recommend(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, h.course.ID, recs[0].Course.ID)
}
