package services

import (
	"context"

	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
)

type BookmarkService struct {
	bookmarks repository.BookmarkRepo
	catalog   repository.CatalogRepo
	log       *logger.Logger
}

func NewBookmarkService(bookmarks repository.BookmarkRepo, catalog repository.CatalogRepo, baseLog *logger.Logger) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, catalog: catalog, log: baseLog.With("service", "BookmarkService")}
}

// AddBookmark is idempotent.
func (s *BookmarkService) AddBookmark(ctx context.Context, userID, courseID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.catalog.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return s.bookmarks.Add(ctx, userID, courseID)
}

func (s *BookmarkService) RemoveBookmark(ctx context.Context, userID, courseID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.bookmarks.Remove(ctx, userID, courseID)
}

func (s *BookmarkService) ListBookmarks(ctx context.Context, userID uint) ([]models.UserBookmark, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.bookmarks.ListByUser(ctx, userID)
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, courseID uint) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	return s.bookmarks.Exists(ctx, userID, courseID)
}
