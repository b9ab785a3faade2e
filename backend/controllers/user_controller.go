package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Svc *services.Services
}

func NewUserController(svc *services.Services) *UserController {
	return &UserController{Svc: svc}
}

// GetMe godoc
// @Summary Get the signed-in user
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /me [get]
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	user, err := uc.Svc.Users.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	})
}

func (uc *UserController) GetMyCourses(c *fiber.Ctx) error {
	records, err := uc.Svc.Access.ListAccess(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, records)
}

// GetStudyMetrics godoc
// @Summary Study metrics for the signed-in user
// @Tags users
// @Produce json
// @Param course_id query int false "Restrict to one course"
// @Param days query int false "Timeframe in days (default 30)"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /me/metrics [get]
func (uc *UserController) GetStudyMetrics(c *fiber.Ctx) error {
	return uc.studyMetrics(c, middleware.UserID(c))
}

// GetUserStudyMetrics serves /users/:userId/metrics; only the owner may read it.
func (uc *UserController) GetUserStudyMetrics(c *fiber.Ctx) error {
	ownerID, err := paramID(c, "userId")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := services.RequireSelf(middleware.UserID(c), ownerID); err != nil {
		return utils.RespondError(c, err)
	}
	return uc.studyMetrics(c, ownerID)
}

func (uc *UserController) studyMetrics(c *fiber.Ctx, userID uint) error {
	courseID, err := queryID(c, "course_id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	metrics, err := uc.Svc.Metrics.GetStudyMetrics(c.UserContext(), userID, courseID, c.QueryInt("days", 30))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, metrics)
}

func (uc *UserController) GetLearningHistory(c *fiber.Ctx) error {
	history, err := uc.Svc.Metrics.GetLearningHistory(c.UserContext(), middleware.UserID(c), c.QueryInt("days", 30))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, history)
}

func (uc *UserController) GetDailyActivity(c *fiber.Ctx) error {
	activity, err := uc.Svc.Metrics.GetDailyActivity(c.UserContext(), middleware.UserID(c), c.QueryInt("days", 30))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, activity)
}

func (uc *UserController) GetRecommendations(c *fiber.Ctx) error {
	recs, err := uc.Svc.Recommendations.Recommend(c.UserContext(), middleware.UserID(c), c.QueryInt("limit", 6))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, recs)
}
