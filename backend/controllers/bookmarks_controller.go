package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type BookmarksController struct {
	Bookmarks *services.BookmarkService
}

func NewBookmarksController(bookmarks *services.BookmarkService) *BookmarksController {
	return &BookmarksController{Bookmarks: bookmarks}
}

func (bc *BookmarksController) ListBookmarks(c *fiber.Ctx) error {
	items, err := bc.Bookmarks.ListBookmarks(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, items)
}

// AddBookmark is idempotent.
func (bc *BookmarksController) AddBookmark(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := bc.Bookmarks.AddBookmark(c.UserContext(), middleware.UserID(c), courseID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

func (bc *BookmarksController) RemoveBookmark(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := bc.Bookmarks.RemoveBookmark(c.UserContext(), middleware.UserID(c), courseID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}
