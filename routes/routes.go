package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"serviqo/handlers"
	"serviqo/middleware"
	"serviqo/models"
)

// RegisterScheduleRoutes registers slot, exception, and calendar endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	slots := r.Group("/api/slots")
	{
		slots.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleProvider))
		slots.POST("", hb.Schedule.CreateSlotHandler)
		slots.GET("", hb.Schedule.ListSlotsHandler)
		slots.PUT("/:id", hb.Schedule.UpdateSlotHandler)
		slots.DELETE("/:id", hb.Schedule.DeleteSlotHandler)
	}

	exceptions := r.Group("/api/exceptions")
	{
		exceptions.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleProvider))
		exceptions.POST("", hb.Schedule.CreateExceptionHandler)
		exceptions.GET("", hb.Schedule.ListExceptionsHandler)
		exceptions.DELETE("/:id", hb.Schedule.DeleteExceptionHandler)
	}

	// Calendar is readable by any authenticated party.
	calendar := r.Group("/api/calendar")
	{
		calendar.Use(middleware.JWTAuthMiddleware())
		calendar.GET("", hb.Schedule.CalendarHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware())
		bookings.POST("", middleware.RequireRole(models.RoleCustomer), hb.Booking.CreateBookingHandler)
		bookings.GET("", hb.Booking.ListBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)

		provider := middleware.RequireRole(models.RoleProvider)
		bookings.PATCH("/:id/accept", provider, hb.Booking.AcceptHandler())
		bookings.PATCH("/:id/reject", provider, hb.Booking.RejectHandler())
		bookings.PATCH("/:id/start", provider, hb.Booking.StartHandler())
		bookings.PATCH("/:id/complete", provider, hb.Booking.CompleteHandler())
		bookings.PATCH("/:id/no-show", provider, hb.Booking.NoShowHandler())

		bookings.PATCH("/:id/cancel", hb.Booking.CancelBookingHandler)
		bookings.PATCH("/:id/reviewed", hb.Booking.MarkReviewedHandler)
		bookings.DELETE("/:id", hb.Booking.HideBookingHandler)

		bookings.POST("/complete-overdue", middleware.RequireRole(models.RoleAdmin), hb.Booking.CompleteOverdueHandler)
	}
}

// RegisterRequestRoutes registers the quote-flow endpoints.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	requests := r.Group("/api/booking-requests")
	{
		requests.Use(middleware.JWTAuthMiddleware())
		requests.POST("", middleware.RequireRole(models.RoleCustomer), hb.Request.CreateRequestHandler)
		requests.GET("", hb.Request.ListRequestsHandler)
		requests.GET("/:id", hb.Request.GetRequestHandler)

		requests.POST("/:id/quote", middleware.RequireRole(models.RoleProvider), hb.Request.SubmitQuoteHandler)
		requests.POST("/:id/accept", middleware.RequireRole(models.RoleCustomer), hb.Request.AcceptQuoteHandler)
		requests.POST("/:id/reject", hb.Request.RejectQuoteHandler)
		requests.POST("/:id/cancel", middleware.RequireRole(models.RoleCustomer), hb.Request.CancelRequestHandler)

		requests.POST("/expire-lapsed", middleware.RequireRole(models.RoleAdmin), hb.Request.ExpireLapsedHandler)
	}
}

// RegisterAdminRoutes registers admin-only maintenance endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		admin.PATCH("/bookings/:id/dispute", hb.Booking.DisputeHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterScheduleRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterRequestRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
