package repository

import (
	"coursehub/backend/logger"

	"gorm.io/gorm"
)

// Repos bundles every repository over one connection.
type Repos struct {
	Users         UserRepo
	Catalog       CatalogRepo
	Progress      ProgressRepo
	Access        AccessRepo
	Certificates  CertificateRepo
	Notifications NotificationRepo
	Bookmarks     BookmarkRepo
}

func NewRepos(db *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		Users:         NewUserRepo(db, log),
		Catalog:       NewCatalogRepo(db, log),
		Progress:      NewProgressRepo(db, log),
		Access:        NewAccessRepo(db, log),
		Certificates:  NewCertificateRepo(db, log),
		Notifications: NewNotificationRepo(db, log),
		Bookmarks:     NewBookmarkRepo(db, log),
	}
}
