package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Svc *services.Services
}

func NewProgressController(svc *services.Services) *ProgressController {
	return &ProgressController{Svc: svc}
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	stats, err := pc.Svc.Progress.CalculateCourseProgress(c.UserContext(), courseID, middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

func (pc *ProgressController) GetSectionProgress(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	sections, err := pc.Svc.Progress.GetSectionProgress(c.UserContext(), courseID, middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, sections)
}

// GetNextLesson answers with null data once the course is finished.
func (pc *ProgressController) GetNextLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	current, err := queryID(c, "current")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var currentID uint
	if current != nil {
		currentID = *current
	}
	next, err := pc.Svc.Progress.GetNextLesson(c.UserContext(), courseID, middleware.UserID(c), currentID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, next)
}

// UpdateLessonCompletion godoc
// @Summary Mark a lesson complete or incomplete
// @Description Recomputes course progress; reaching 100% issues the certificate.
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/completion [put]
func (pc *ProgressController) UpdateLessonCompletion(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var input struct {
		Completed *bool `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Completed == nil {
		return utils.ValidationError(c, map[string]string{"completed": "completed is a required field"})
	}

	stats, err := pc.Svc.Progress.ToggleLessonCompletion(c.UserContext(), middleware.UserID(c), lessonID, *input.Completed)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

func (pc *ProgressController) GetLessonCompletion(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	done, err := pc.Svc.Progress.IsLessonCompleted(c.UserContext(), middleware.UserID(c), lessonID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"lesson_id": lessonID, "completed": done})
}
