package routes

import (
	"coursehub/backend/config"
	"coursehub/backend/controllers"
	"coursehub/backend/logger"
	"coursehub/backend/middleware"
	"coursehub/backend/repository"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewApp builds the fiber app with the shared middleware stack and every
// route mounted.
func NewApp(repos *repository.Repos, svc *services.Services, cfg *config.Config, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "coursehub",
		ErrorHandler: func(c *fiber.Ctx, err error) error { return utils.RespondError(c, err) },
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(log))
	app.Use(middleware.Timeout(cfg.RequestTimeout))

	SetupRoutes(app, repos, svc, cfg)
	return app
}

func SetupRoutes(app *fiber.App, repos *repository.Repos, svc *services.Services, cfg *config.Config) {
	api := app.Group("/api")

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	adminMiddleware := middleware.AdminMiddleware(repos.Users)

	// Auth routes
	authController := controllers.NewAuthController(svc.Users, cfg)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Catalog routes
	coursesController := controllers.NewCoursesController(svc)
	progressController := controllers.NewProgressController(svc)
	certificatesController := controllers.NewCertificatesController(svc.Certificates)
	api.Get("/categories", coursesController.GetCategories)
	courses := api.Group("/courses")
	courses.Get("/", coursesController.GetAvailableCourses)
	courses.Get("/:id", optionalAuth, coursesController.GetCourseDetails)
	courses.Get("/:id/lessons/:lessonId", optionalAuth, coursesController.GetLesson)
	courses.Get("/:id/progress", authMiddleware, progressController.GetCourseProgress)
	courses.Get("/:id/sections/progress", authMiddleware, progressController.GetSectionProgress)
	courses.Get("/:id/next", authMiddleware, progressController.GetNextLesson)
	courses.Post("/:id/certificate", authMiddleware, certificatesController.GenerateCertificate)

	// Progress routes
	lessons := api.Group("/lessons", authMiddleware)
	lessons.Put("/:id/completion", progressController.UpdateLessonCompletion)
	lessons.Get("/:id/completion", progressController.GetLessonCompletion)

	// Certificate routes; verification is public
	api.Get("/certificates/verify/:code", certificatesController.VerifyCertificate)
	certificates := api.Group("/certificates", authMiddleware)
	certificates.Get("/", certificatesController.ListCertificates)
	certificates.Get("/:id", certificatesController.GetCertificate)

	// User routes
	userController := controllers.NewUserController(svc)
	me := api.Group("/me", authMiddleware)
	me.Get("/", userController.GetMe)
	me.Get("/courses", userController.GetMyCourses)
	me.Get("/metrics", userController.GetStudyMetrics)
	me.Get("/history", userController.GetLearningHistory)
	me.Get("/activity", userController.GetDailyActivity)
	me.Get("/recommendations", userController.GetRecommendations)
	api.Get("/users/:userId/metrics", authMiddleware, userController.GetUserStudyMetrics)

	// Bookmark routes
	bookmarksController := controllers.NewBookmarksController(svc.Bookmarks)
	bookmarks := api.Group("/bookmarks", authMiddleware)
	bookmarks.Get("/", bookmarksController.ListBookmarks)
	bookmarks.Post("/:courseId", bookmarksController.AddBookmark)
	bookmarks.Delete("/:courseId", bookmarksController.RemoveBookmark)

	// Notification routes
	notificationsController := controllers.NewNotificationsController(svc.Notifications)
	notifications := api.Group("/notifications", authMiddleware)
	notifications.Get("/", notificationsController.ListNotifications)
	notifications.Get("/unread-count", notificationsController.UnreadCount)
	notifications.Put("/read-all", notificationsController.MarkAllRead)
	notifications.Put("/:id/read", notificationsController.MarkRead)
	notifications.Delete("/:id", notificationsController.DeleteNotification)

	// Admin routes
	adminController := controllers.NewAdminController(svc.Admin)
	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.Get("/stats", adminController.GetStats)
	admin.Post("/notifications/reminders", adminController.SendReminders)
	admin.Get("/courses", adminController.ListCourses)
	admin.Post("/courses", adminController.CreateCourse)
	admin.Get("/courses/:id", adminController.GetCourse)
	admin.Put("/courses/:id", adminController.UpdateCourse)
	admin.Delete("/courses/:id", adminController.DeleteCourse)
	admin.Post("/sections", adminController.CreateSection)
	admin.Put("/sections/:id", adminController.UpdateSection)
	admin.Delete("/sections/:id", adminController.DeleteSection)
	admin.Post("/lessons", adminController.CreateLesson)
	admin.Put("/lessons/:id", adminController.UpdateLesson)
	admin.Delete("/lessons/:id", adminController.DeleteLesson)
}
