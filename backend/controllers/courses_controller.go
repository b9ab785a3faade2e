package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/repository"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Svc *services.Services
}

func NewCoursesController(svc *services.Services) *CoursesController {
	return &CoursesController{Svc: svc}
}

// GetAvailableCourses godoc
// @Summary List published courses
// @Tags courses
// @Produce json
// @Param search query string false "Search in title and description"
// @Param category_id query int false "Category filter"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) GetAvailableCourses(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	courses, err := cc.Svc.Catalog.ListCourses(c.UserContext(), repository.CourseFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		Difficulty: c.Query("difficulty"),
	})
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// GetCourseDetails returns the ordered outline. Signed-in callers also get
// their progress and bookmark state.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	ctx := c.UserContext()
	course, err := cc.Svc.Catalog.GetCourseOutline(ctx, courseID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	userID := middleware.UserID(c)
	progress, err := cc.Svc.Progress.CalculateCourseProgress(ctx, courseID, userID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	result := fiber.Map{"course": course, "progress": progress}
	if userID != 0 {
		bookmarked, err := cc.Svc.Bookmarks.IsBookmarked(ctx, userID, courseID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		result["bookmarked"] = bookmarked
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// GetLesson godoc
// @Summary Get a lesson
// @Description Preview lessons are public; other lessons require a token.
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id}/lessons/{lessonId} [get]
func (cc *CoursesController) GetLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return utils.RespondError(c, err)
	}
	lesson, err := cc.Svc.Catalog.GetLesson(c.UserContext(), courseID, lessonID, middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

func (cc *CoursesController) GetCategories(c *fiber.Ctx) error {
	categories, err := cc.Svc.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, categories)
}
