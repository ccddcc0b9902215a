package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/config"
	"github.com/workhive/workhive-api/internal/handlers"
	infraRepo "github.com/workhive/workhive-api/internal/infra/repository"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/notification"
	"github.com/workhive/workhive-api/internal/presence"
	"github.com/workhive/workhive-api/internal/realtime"
	ucBooking "github.com/workhive/workhive-api/internal/usecase/booking"
	"github.com/workhive/workhive-api/internal/ws"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	broker *realtime.Broker,
	tracker *presence.Tracker,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	chatRepo := infraRepo.NewChatGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	notifier := notification.NewDispatcher(notification.NewStore(db), broker)

	hub := ws.NewHub(broker, tracker)

	// ======================================================
	// USE CASES (BOOKINGS)
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, notifier)
	updateBookingUC := ucBooking.NewUpdateBookingStatus(bookingRepo, notifier)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingUC,
		listBookingsUC,
	)

	chatHandler := handlers.NewChatHandler(chatRepo, chatRepo, chatRepo, broker, tracker)

	favoriteHandler := handlers.NewFavoriteHandler(db)
	ratingHandler := handlers.NewRatingHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)

	wsHandler := &handlers.WSHandler{
		Hub:      hub,
		Config:   cfg,
		Dir:      chatRepo,
		Msgs:     chatRepo,
		Profiles: chatRepo,
		Broker:   broker,
	}

	// ======================================================
	// WEBSOCKETS
	// ======================================================
	r.GET("/ws", wsHandler.Handle)
	r.GET("/ws/chats", wsHandler.HandleChatList)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", serviceHandler.Search)
		api.GET("/services/:id", serviceHandler.Get)
		api.GET("/services/:id/ratings", ratingHandler.ForService)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, db))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.PATCH("/me/provider", meHandler.SetProvider)

			// ------------------------------
			// SERVICES (PROVIDER)
			// ------------------------------
			secured.GET("/me/services", serviceHandler.ListMine)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/me/provider-bookings", bookingHandler.ListForProvider)
			secured.PATCH("/me/bookings/:id/status", bookingHandler.UpdateStatus)

			// ------------------------------
			// CHAT
			// ------------------------------
			secured.GET("/me/chats", chatHandler.List)
			secured.GET("/me/chats/:peerID", chatHandler.Open)
			secured.POST("/me/chats/:peerID/messages", chatHandler.Send)

			// ------------------------------
			// FAVORITES / RATINGS / REPORTS
			// ------------------------------
			secured.GET("/me/favorites", favoriteHandler.List)
			secured.POST("/me/favorites", favoriteHandler.Add)
			secured.DELETE("/me/favorites/:serviceID", favoriteHandler.Remove)

			secured.POST("/me/ratings", ratingHandler.Rate)

			secured.POST("/me/reports", reportHandler.Create)

			// ------------------------------
			// NOTIFICATIONS
			// ------------------------------
			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)
			secured.PATCH("/me/notifications/read-all", notificationHandler.MarkAllRead)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PATCH("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)

				admin.GET("/reports", reportHandler.ListForAdmin)
				admin.PATCH("/reports/:id/resolve", reportHandler.Resolve)
			}
		}
	}
}
