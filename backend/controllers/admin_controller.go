package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/repository"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminController is mounted behind AdminMiddleware; the service re-checks
// the role on every call.
type AdminController struct {
	Admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{Admin: admin}
}

func (ac *AdminController) ListCourses(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	filter := repository.CourseFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		Difficulty: c.Query("difficulty"),
	}
	courses, err := ac.Admin.ListCourses(c.UserContext(), middleware.UserID(c), filter)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

func (ac *AdminController) GetCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	course, err := ac.Admin.GetCourseOutline(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.CourseInput true "Course"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (ac *AdminController) CreateCourse(c *fiber.Ctx) error {
	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course, err := ac.Admin.CreateCourse(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Created(c, course)
}

func (ac *AdminController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course, err := ac.Admin.UpdateCourse(c.UserContext(), middleware.UserID(c), courseID, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// DeleteCourse removes the course with its sections, lessons and every
// per-user row hanging off them.
func (ac *AdminController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Admin.DeleteCourse(c.UserContext(), middleware.UserID(c), courseID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

func (ac *AdminController) CreateSection(c *fiber.Ctx) error {
	var input services.SectionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	section, err := ac.Admin.CreateSection(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Created(c, section)
}

func (ac *AdminController) UpdateSection(c *fiber.Ctx) error {
	sectionID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var input services.SectionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	section, err := ac.Admin.UpdateSection(c.UserContext(), middleware.UserID(c), sectionID, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, section)
}

func (ac *AdminController) DeleteSection(c *fiber.Ctx) error {
	sectionID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Admin.DeleteSection(c.UserContext(), middleware.UserID(c), sectionID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

// CreateLesson godoc
// @Summary Create a lesson
// @Description youtube_video_id accepts a bare id or any common YouTube URL.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.LessonInput true "Lesson"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/lessons [post]
func (ac *AdminController) CreateLesson(c *fiber.Ctx) error {
	var input services.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	lesson, err := ac.Admin.CreateLesson(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Created(c, lesson)
}

func (ac *AdminController) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var input services.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	lesson, err := ac.Admin.UpdateLesson(c.UserContext(), middleware.UserID(c), lessonID, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

func (ac *AdminController) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Admin.DeleteLesson(c.UserContext(), middleware.UserID(c), lessonID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

func (ac *AdminController) GetStats(c *fiber.Ctx) error {
	stats, err := ac.Admin.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// SendReminders triggers the idle-learner sweep; idle_days defaults to 7.
func (ac *AdminController) SendReminders(c *fiber.Ctx) error {
	sent, err := ac.Admin.SendLearningReminders(c.UserContext(), middleware.UserID(c), c.QueryInt("idle_days", 7))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"sent": sent})
}
