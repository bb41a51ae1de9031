package routes

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"learning_platform/backend/config"
	"learning_platform/backend/controllers"
	"learning_platform/backend/mail"
	"learning_platform/backend/middleware"
	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

const adminSessionCookie = "lp_admin_session"

// Options carries everything the HTTP layer needs.
type Options struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *utils.Logger
	Reporter *utils.Reporter
	Mailer   mail.EmailService
}

// NewApp builds the fiber application with the shared middleware stack and
// every route mounted.
func NewApp(opts Options) *fiber.App {
	cfg := opts.Config
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          utils.NewErrorHandler(opts.Logger, opts.Reporter),
		DisableStartupMessage: cfg.Env == "test",
	})

	app.Use(requestid.New())
	app.Use(middleware.LoggingMiddleware(opts.Logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Env != "prod"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	SetupRoutes(app, opts)
	return app
}

// cookieKey derives the 32-byte encryptcookie key from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func SetupRoutes(app *fiber.App, opts Options) {
	cfg := opts.Config
	deps := services.Deps{
		DB:     opts.DB,
		Config: cfg,
		Mailer: opts.Mailer,
		Logger: opts.Logger,
	}

	authService := services.NewAuthService(deps)
	catalogService := services.NewCatalogService(deps)
	enrollmentService := services.NewEnrollmentService(deps)
	progressService := services.NewProgressService(deps)
	billingService := services.NewBillingService(deps)
	notificationService := services.NewNotificationService(deps)
	analyticsService := services.NewAnalyticsService(deps)
	adminService := services.NewAdminService(deps)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	studentOnly := middleware.RequireRole(models.RoleStudent)
	instructorOnly := middleware.RequireRole(models.RoleInstructor)

	// Auth routes
	authController := controllers.NewAuthController(authService)
	app.Post("/token/", authController.Token)
	app.Post("/register/", authController.Register)
	app.Post("/login/", authController.Login)

	// User routes
	userController := controllers.NewUserController(authService)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(catalogService, enrollmentService)
	app.Get("/courses/", authMiddleware, coursesController.ListCourses)
	app.Post("/courses/create/", authMiddleware, instructorOnly, coursesController.CreateCourse)
	app.Get("/courses/:id", authMiddleware, coursesController.GetCourseDetails)
	app.Post("/courses/:id/lessons/", authMiddleware, instructorOnly, coursesController.AddLesson)
	app.Post("/enroll/", authMiddleware, studentOnly, coursesController.Enroll)
	app.Get("/my-courses/", authMiddleware, studentOnly, coursesController.MyCourses)

	// Progress routes
	progressController := controllers.NewProgressController(progressService)
	app.Post("/progress/update/", authMiddleware, progressController.UpdateProgress)
	app.Get("/progress/view/", authMiddleware, progressController.ViewProgress)

	// Subscription routes
	subscriptionController := controllers.NewSubscriptionController(billingService)
	app.Get("/plans/", authMiddleware, subscriptionController.ListPlans)
	app.Post("/subscribe/", authMiddleware, subscriptionController.Subscribe)
	app.Get("/payments/", authMiddleware, subscriptionController.ListPayments)
	app.Get("/subscriptions/", authMiddleware, subscriptionController.ListSubscriptions)

	// Notification and activity routes
	notificationController := controllers.NewNotificationController(notificationService)
	app.Get("/notifications/", authMiddleware, notificationController.ListNotifications)
	app.Post("/notifications/mark-read/", authMiddleware, notificationController.MarkRead)
	app.Post("/activity/", authMiddleware, notificationController.LogActivity)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(analyticsService)
	analytics := app.Group("/analytics", authMiddleware, instructorOnly)
	analytics.Get("/overview/", analyticsController.GetOverview)
	analytics.Get("/monthly-revenue/", analyticsController.GetMonthlyRevenue)

	// Admin console
	store := session.New(session.Config{
		Expiration:     cfg.SessionExpiration,
		KeyLookup:      "cookie:" + adminSessionCookie,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Env == "prod",
	})
	staffMiddleware := middleware.AdminMiddleware(store, adminService)
	adminController := controllers.NewAdminController(opts.DB, store, adminService, analyticsService)

	admin := app.Group("/admin", encryptcookie.New(encryptcookie.Config{Key: cookieKey(cfg.SessionSecret)}))
	admin.Post("/login", adminController.Login)
	admin.Post("/logout", adminController.Logout)
	admin.Get("/me", staffMiddleware, adminController.Me)
	admin.Get("/dashboard", staffMiddleware, adminController.Dashboard)
	adminController.RegisterResources(admin.Group("/api", staffMiddleware))
}
