package services

import (
	"context"
	"sort"

	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

const (
	ReasonPopular    = "popular"
	ReasonCategory   = "category"
	ReasonInProgress = "in_progress"
	ReasonBookmarked = "bookmarked"
	ReasonNextLevel  = "next_level"
	ReasonBeginner   = "beginner"

	defaultRecommendationLimit = 6
)

var reasonText = map[string]string{
	ReasonPopular:    "a popular course",
	ReasonCategory:   "the category you are studying",
	ReasonInProgress: "a course you have started",
	ReasonBookmarked: "your bookmarks",
	ReasonNextLevel:  "the next level of what you finished",
	ReasonBeginner:   "a good starting point",
}

// nextLevel maps a completed difficulty to the one that follows it.
var nextLevel = map[string]string{
	models.DifficultyBeginner:     models.DifficultyIntermediate,
	models.DifficultyIntermediate: models.DifficultyAdvanced,
}

type Recommendation struct {
	Course models.Course `json:"course"`
	Score  int           `json:"score"`
	Reason string        `json:"reason"`
}

type RecommendationService struct {
	catalog       repository.CatalogRepo
	access        repository.AccessRepo
	bookmarks     repository.BookmarkRepo
	notifications *NotificationService
	log           *logger.Logger
}

func NewRecommendationService(catalog repository.CatalogRepo, access repository.AccessRepo, bookmarks repository.BookmarkRepo, notifications *NotificationService, baseLog *logger.Logger) *RecommendationService {
	return &RecommendationService{
		catalog:       catalog,
		access:        access,
		bookmarks:     bookmarks,
		notifications: notifications,
		log:           baseLog.With("service", "RecommendationService"),
	}
}

// scoreCourses ranks courses the user has not completed. history is
// ordered most recently accessed first. The reason is the last rule that
// contributed.
func scoreCourses(courses []models.Course, history []models.CourseAccessRecord, bookmarked map[uint]bool) []Recommendation {
	progress := make(map[uint]int, len(history))
	for _, rec := range history {
		progress[rec.CourseID] = rec.CompletionPercentage
	}

	byID := make(map[uint]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	var currentCategory *uint
	if len(history) > 0 {
		if rec := history[0]; rec.Course != nil {
			currentCategory = rec.Course.CategoryID
		} else if c, ok := byID[rec.CourseID]; ok {
			currentCategory = c.CategoryID
		}
	}

	completedLevels := map[string]bool{}
	for _, rec := range history {
		if rec.CompletionPercentage < 100 {
			continue
		}
		level := ""
		if rec.Course != nil {
			level = rec.Course.DifficultyLevel
		} else if c, ok := byID[rec.CourseID]; ok {
			level = c.DifficultyLevel
		}
		if level != "" {
			completedLevels[level] = true
		}
	}

	out := make([]Recommendation, 0, len(courses))
	for _, course := range courses {
		pct, started := progress[course.ID]
		if started && pct >= 100 {
			continue
		}
		r := Recommendation{Course: course, Reason: ReasonPopular}

		if currentCategory != nil && course.CategoryID != nil && *course.CategoryID == *currentCategory {
			r.Score += 50
			r.Reason = ReasonCategory
		}
		if started && pct > 0 {
			r.Score += 40
			r.Reason = ReasonInProgress
		}
		if bookmarked[course.ID] {
			r.Score += 30
			r.Reason = ReasonBookmarked
		}

		if len(history) > 0 {
			next := false
			for level := range completedLevels {
				if nextLevel[level] == course.DifficultyLevel {
					next = true
					break
				}
			}
			switch {
			case next:
				r.Score += 20
				r.Reason = ReasonNextLevel
			case course.DifficultyLevel == models.DifficultyBeginner:
				r.Score += 10
				r.Reason = ReasonBeginner
			}
		} else if course.DifficultyLevel == models.DifficultyBeginner {
			r.Score += 25
			r.Reason = ReasonBeginner
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Course.ID < out[j].Course.ID
	})
	return out
}

// Recommend returns up to limit published courses for the user. Anonymous
// callers get the new-user ranking.
func (s *RecommendationService) Recommend(ctx context.Context, userID uint, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	courses, err := s.catalog.ListCourses(ctx, repository.CourseFilter{OnlyPublished: true})
	if err != nil {
		return nil, err
	}

	var history []models.CourseAccessRecord
	bookmarked := map[uint]bool{}
	if userID != 0 {
		if history, err = s.access.ListByUser(ctx, userID); err != nil {
			return nil, err
		}
		marks, err := s.bookmarks.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, b := range marks {
			bookmarked[b.CourseID] = true
		}
	}

	ranked := scoreCourses(courses, history, bookmarked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SendTopRecommendation notifies the user about their best match. It
// reports false when there is nothing to recommend.
func (s *RecommendationService) SendTopRecommendation(ctx context.Context, userID uint) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	ranked, err := s.Recommend(ctx, userID, 1)
	if err != nil {
		return false, err
	}
	if len(ranked) == 0 {
		return false, nil
	}
	top := ranked[0]
	s.notifications.CourseRecommendation(ctx, userID, top.Course.ID, top.Course.Title, reasonText[top.Reason])
	return true, nil
}
