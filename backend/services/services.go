// Package services holds the business rules of the platform. Every
// operation takes the acting user id explicitly; zero means anonymous.
package services

import (
	"math"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/config"
	"coursehub/backend/logger"
	"coursehub/backend/repository"
)

// Services wires every service over one set of repositories.
type Services struct {
	Progress        *ProgressService
	Access          *AccessService
	Metrics         *MetricsService
	Certificates    *CertificateService
	Notifications   *NotificationService
	Catalog         *CatalogService
	Admin           *AdminService
	Bookmarks       *BookmarkService
	Recommendations *RecommendationService
	Users           *UserService
}

func New(repos *repository.Repos, cfg *config.Config, log *logger.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return newServices(repos, loc, cfg.CertificateCodeAttempts, time.Now, log), nil
}

func newServices(repos *repository.Repos, loc *time.Location, codeAttempts int, now func() time.Time, log *logger.Logger) *Services {
	notifications := NewNotificationService(repos.Notifications, repos.Users, repos.Access, now, log)
	certificates := NewCertificateService(repos.Certificates, repos.Access, repos.Catalog, notifications, codeAttempts, now, log)
	access := NewAccessService(repos.Access, repos.Catalog, now, log)
	return &Services{
		Progress:        NewProgressService(repos.Catalog, repos.Progress, repos.Access, notifications, certificates, now, log),
		Access:          access,
		Metrics:         NewMetricsService(repos.Progress, repos.Catalog, loc, now, log),
		Certificates:    certificates,
		Notifications:   notifications,
		Catalog:         NewCatalogService(repos.Catalog, access, log),
		Admin:           NewAdminService(repos.Catalog, repos.Users, notifications, log),
		Bookmarks:       NewBookmarkService(repos.Bookmarks, repos.Catalog, log),
		Recommendations: NewRecommendationService(repos.Catalog, repos.Access, repos.Bookmarks, notifications, log),
		Users:           NewUserService(repos.Users, log),
	}
}

func requireUser(userID uint) error {
	if userID == 0 {
		return apperr.Unauthorized("authentication required")
	}
	return nil
}

// RequireSelf fails with Unauthorized unless the acting user owns the resource.
func RequireSelf(actorID, ownerID uint) error {
	if err := requireUser(actorID); err != nil {
		return err
	}
	if actorID != ownerID {
		return apperr.Unauthorized("user mismatch")
	}
	return nil
}

// percentage is round(done/total*100), 0 for an empty total.
func percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
