package routes

import (
	"time"

	"medconnect/handlers"
	"medconnect/middleware"
	"medconnect/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSlotRoutes registers the free-slot lookups.
func RegisterSlotRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	slots := api.Group("/slots")
	{
		slots.GET("/doctors/:doctorId", hb.Booking.DoctorSlotsHandler)
		slots.GET("/tests/:testId", hb.Booking.TestSlotsHandler)
	}
}

// RegisterBookingRoutes sets up booking creation and lifecycle endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/appointments", hb.Booking.CreateAppointmentHandler)
	api.POST("/test-bookings", hb.Booking.CreateTestBookingHandler)

	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.Booking.ListBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)
		bookings.PATCH("/:id/status", hb.Booking.UpdateStatusHandler)
		bookings.PUT("/:id/reschedule", hb.Booking.RescheduleHandler)
		bookings.PATCH("/:id/payment", middleware.RequireRole(models.RoleAdmin), hb.Booking.UpdatePaymentHandler)
	}
}

// RegisterNotificationRoutes registers the in-app inbox and the websocket.
func RegisterNotificationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/notifications", hb.Notifications.ListHandler)
	api.PATCH("/notifications/:id/read", hb.Notifications.MarkReadHandler)
	api.PUT("/users/me/fcm-token", hb.Device.RegisterFCMTokenHandler)
	if hb.Realtime != nil {
		api.GET("/ws", hb.Realtime.ServeWS)
	}
}

// RegisterDirectoryRoutes registers directory reads and the admin writes.
func RegisterDirectoryRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/hospitals", hb.Admin.ListHospitalsHandler)
	api.GET("/hospitals/:id/tests", hb.Admin.ListHospitalTestsHandler)
	api.GET("/doctors", hb.Admin.ListDoctorsHandler)

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.POST("/users", hb.Admin.CreateUserHandler)
		admin.POST("/hospitals", hb.Admin.CreateHospitalHandler)
		admin.POST("/doctors", hb.Admin.CreateDoctorHandler)
		admin.POST("/tests", hb.Admin.CreateMedicalTestHandler)
		admin.PUT("/doctors/:id/availability", hb.Admin.SetAvailabilityHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(maxRequestsPerMin), middleware.JWTAuthMiddleware())

	RegisterSlotRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterNotificationRoutes(api, hb)
	RegisterDirectoryRoutes(api, hb)
}
