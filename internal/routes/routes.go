package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/skillhubapp/skillhub-api/internal/audit"
	"github.com/skillhubapp/skillhub-api/internal/chat"
	"github.com/skillhubapp/skillhub-api/internal/config"
	"github.com/skillhubapp/skillhub-api/internal/events"
	"github.com/skillhubapp/skillhub-api/internal/handlers"
	infraRepo "github.com/skillhubapp/skillhub-api/internal/infra/repository"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/ratings"
	"github.com/skillhubapp/skillhub-api/internal/storage"
	ucBooking "github.com/skillhubapp/skillhub-api/internal/usecase/booking"
	ucReview "github.com/skillhubapp/skillhub-api/internal/usecase/review"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, publisher *events.Publisher) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	reviewRepo := infraRepo.NewReviewGormRepository(db)
	chatRepo := infraRepo.NewChatGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	ratingsCache := ratings.NewCache(cfg.RedisAddr)
	aggregator := ratings.NewAggregator(reviewRepo, ratingsCache)

	attachmentStore := storage.NewAttachmentStore(cfg)

	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())

	// ======================================================
	// USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, auditDispatcher, publisher)
	updateBookingUC := ucBooking.NewUpdateStatus(bookingRepo, auditDispatcher, publisher)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher, publisher)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	createReviewUC := ucReview.NewCreateReview(reviewRepo, aggregator, auditDispatcher)
	deleteReviewUC := ucReview.NewDeleteReview(reviewRepo, aggregator, auditDispatcher)
	listReviewsUC := ucReview.NewListReviews(reviewRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	skillHandler := handlers.NewSkillHandler(db, ratingsCache)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingUC,
		cancelBookingUC,
		listBookingsUC,
	)

	reviewHandler := handlers.NewReviewHandler(createReviewUC, deleteReviewUC, listReviewsUC)
	messageHandler := handlers.NewMessageHandler(db, attachmentStore)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	chatHub := chat.NewHub(chatRepo)
	chatHandler := chat.NewHandler(chatHub, cfg)

	// ======================================================
	// WEBSOCKET
	// ======================================================
	r.GET("/ws", chatHandler.Serve)

	// ======================================================
	// METRICS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.Metrics())
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PUBLIC CATALOG
		// ------------------------------
		api.GET("/skills", skillHandler.List)
		api.GET("/skills/:id", skillHandler.GetByID)
		api.GET("/reviews/skill/:id", reviewHandler.ListBySkill)
		api.GET("/users/:id", userHandler.GetByID)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		secured.Use(rateLimiter.General())
		{
			secured.GET("/me", userHandler.GetMe)
			secured.PATCH("/me", userHandler.UpdateMe)

			secured.POST("/skills", skillHandler.Create)
			secured.GET("/me/skills", skillHandler.ListMine)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.DELETE("/bookings/:id", bookingHandler.Cancel)
			secured.GET("/bookings/user/:id", bookingHandler.ListByUser)
			secured.GET("/bookings/instructor/:id", bookingHandler.ListByInstructor)

			// ------------------------------
			// MESSAGES
			// ------------------------------
			secured.GET("/messages/:bookingId", messageHandler.History)
			secured.POST("/messages", rateLimiter.Messages(), messageHandler.Create)
			secured.PATCH("/messages/:bookingId/read", messageHandler.MarkRead)
			secured.POST("/messages/attachments", rateLimiter.Messages(), messageHandler.UploadAttachment)

			// ------------------------------
			// REVIEWS
			// ------------------------------
			secured.POST("/reviews", reviewHandler.Create)
			secured.DELETE("/reviews/:id", reviewHandler.Delete)

			// ------------------------------
			// ADMIN
			// ------------------------------
			adminAPI := secured.Group("/admin")
			adminAPI.Use(middleware.RequireAdmin())
			{
				adminAPI.GET("/bookings", bookingHandler.ListAll)
				adminAPI.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
