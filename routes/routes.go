package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"movecall/handlers"
	"movecall/middleware"
)

// RegisterVoiceRoutes registers the Twilio webhook endpoints. Every route is
// behind request-signature validation.
func RegisterVoiceRoutes(r *gin.Engine, vh *handlers.VoiceHandler) {
	voice := r.Group("/voice")
	voice.Use(middleware.ValidateTwilioSignature())
	{
		voice.POST("/answer", vh.Answer)
		voice.POST("/gather", vh.Gather)
		voice.POST("/status", vh.Status)
	}
}

// RegisterAPIRoutes registers the operator-facing JSON endpoints.
func RegisterAPIRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	api.Use(middleware.RateLimit())
	{
		api.GET("/bookings/:ref", bh.GetBooking)
		api.POST("/bookings/:ref/cancel", bh.CancelBooking)
		api.POST("/bookings/:ref/reschedule", bh.RescheduleBooking)
		api.GET("/calls/:callId", bh.GetCallRecord)
	}
	r.GET("/health", handlers.Health)
}
