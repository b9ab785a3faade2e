package services

import (
	"context"
	"math"
	"sort"
	"time"

	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

const (
	defaultTimeframeDays = 30
	dayLayout            = "2006-01-02"
)

type StudyMetrics struct {
	TotalStudyDays       int     `json:"total_study_days"`
	AverageLessonsPerDay float64 `json:"average_lessons_per_day"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_study_streak"`
}

type HistoryEntry struct {
	LessonID     uint      `json:"lesson_id"`
	LessonTitle  string    `json:"lesson_title"`
	SectionID    uint      `json:"section_id"`
	SectionTitle string    `json:"section_title"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	CompletedAt  time.Time `json:"completed_at"`
}

type DailyActivity struct {
	Days          map[string]int `json:"days"`
	CurrentStreak int            `json:"current_streak"`
	LongestStreak int            `json:"longest_streak"`
}

// studyDay truncates t to its calendar date in loc, expressed as UTC
// midnight so consecutive days are exactly 24h apart.
func studyDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeStudyMetrics derives day counts and streaks from completion times.
// A day is a calendar date in loc. The trailing run is the current streak
// only when it ends today or yesterday.
func ComputeStudyMetrics(completedAt []time.Time, now time.Time, loc *time.Location) StudyMetrics {
	if len(completedAt) == 0 {
		return StudyMetrics{}
	}
	seen := make(map[time.Time]struct{}, len(completedAt))
	for _, t := range completedAt {
		seen[studyDay(t, loc)] = struct{}{}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	today := studyDay(now, loc)
	if last := days[len(days)-1]; last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = run
	}

	avg := float64(len(completedAt)) / float64(len(days))
	return StudyMetrics{
		TotalStudyDays:       len(days),
		AverageLessonsPerDay: math.Round(avg*10) / 10,
		CurrentStreak:        current,
		LongestStreak:        longest,
	}
}

// windowStart is the lower bound of a look-back of days (default 30)
// ending at now. Any positive length is honoured.
func windowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = defaultTimeframeDays
	}
	return now.AddDate(0, 0, -days)
}

// MetricsService reports study habits from the completion log.
type MetricsService struct {
	progress repository.ProgressRepo
	catalog  repository.CatalogRepo
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

func NewMetricsService(progress repository.ProgressRepo, catalog repository.CatalogRepo, loc *time.Location, now func() time.Time, baseLog *logger.Logger) *MetricsService {
	if loc == nil {
		loc = time.UTC
	}
	return &MetricsService{progress: progress, catalog: catalog, loc: loc, now: now, log: baseLog.With("service", "MetricsService")}
}

func (s *MetricsService) completionTimes(ctx context.Context, userID uint, courseID *uint, since time.Time) ([]time.Time, error) {
	rows, err := s.progress.CompletedSince(ctx, userID, courseID, since.UTC())
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.CompletedAt != nil {
			times = append(times, *row.CompletedAt)
		}
	}
	return times, nil
}

// GetStudyMetrics looks back timeframeDays (default 30), optionally within
// one course.
func (s *MetricsService) GetStudyMetrics(ctx context.Context, userID uint, courseID *uint, timeframeDays int) (*StudyMetrics, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	now := s.now()
	times, err := s.completionTimes(ctx, userID, courseID, windowStart(now, timeframeDays))
	if err != nil {
		return nil, err
	}
	metrics := ComputeStudyMetrics(times, now, s.loc)
	return &metrics, nil
}

// GetLearningHistory lists completions of the last days (default 30), newest
// first, with their lesson, section and course titles.
func (s *MetricsService) GetLearningHistory(ctx context.Context, userID uint, days int) ([]HistoryEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows, err := s.progress.CompletedSince(ctx, userID, nil, windowStart(s.now(), days).UTC())
	if err != nil {
		return nil, err
	}

	lessonIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		lessonIDs = append(lessonIDs, row.LessonID)
	}
	lessons, err := s.catalog.LessonsByIDs(ctx, lessonIDs)
	if err != nil {
		return nil, err
	}
	lessonByID := make(map[uint]models.Lesson, len(lessons))
	sectionIDs := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		lessonByID[l.ID] = l
		sectionIDs = append(sectionIDs, l.SectionID)
	}
	sections, err := s.catalog.SectionsByIDs(ctx, sectionIDs)
	if err != nil {
		return nil, err
	}
	sectionByID := make(map[uint]models.Section, len(sections))
	courseIDs := make([]uint, 0, len(sections))
	for _, sec := range sections {
		sectionByID[sec.ID] = sec
		courseIDs = append(courseIDs, sec.CourseID)
	}
	courses, err := s.catalog.CoursesByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	courseByID := make(map[uint]models.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		lesson, ok := lessonByID[row.LessonID]
		if !ok || row.CompletedAt == nil {
			continue
		}
		section := sectionByID[lesson.SectionID]
		entries = append(entries, HistoryEntry{
			LessonID:     lesson.ID,
			LessonTitle:  lesson.Title,
			SectionID:    section.ID,
			SectionTitle: section.Title,
			CourseID:     section.CourseID,
			CourseTitle:  courseByID[section.CourseID].Title,
			CompletedAt:  *row.CompletedAt,
		})
	}
	return entries, nil
}

// GetDailyActivity counts completions per study-timezone date over the last
// days (default 30).
func (s *MetricsService) GetDailyActivity(ctx context.Context, userID uint, days int) (*DailyActivity, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	now := s.now()
	times, err := s.completionTimes(ctx, userID, nil, windowStart(now, days))
	if err != nil {
		return nil, err
	}
	activity := &DailyActivity{Days: make(map[string]int)}
	for _, t := range times {
		activity.Days[t.In(s.loc).Format(dayLayout)]++
	}
	metrics := ComputeStudyMetrics(times, now, s.loc)
	activity.CurrentStreak = metrics.CurrentStreak
	activity.LongestStreak = metrics.LongestStreak
	return activity, nil
}
