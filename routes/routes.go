package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"motel-backend/controllers"
	"motel-backend/middleware"
)

type Controllers struct {
	Rooms     *controllers.RoomController
	RoomTypes *controllers.RoomTypeController
	Stays     *controllers.StayController
}

// SetupRouter wires every lodging endpoint under /api.
func SetupRouter(ctl Controllers, corsOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	allowCredentials := true
	for _, origin := range corsOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.RoomTypes.GetRoomTypes)
			roomTypes.POST("", ctl.RoomTypes.CreateRoomType)
		}

		stays := api.Group("/stays")
		{
			stays.GET("", ctl.Stays.ListActiveStays)
			stays.POST("", ctl.Stays.StartStay)
			stays.POST("/quick", ctl.Stays.QuickCheckIn)
			stays.GET("/:id", ctl.Stays.GetStay)
			stays.POST("/:id/extra-person", ctl.Stays.AddExtraPerson)
			stays.POST("/:id/extra-hour", ctl.Stays.AddExtraHour)
			stays.POST("/:id/tolerance", ctl.Stays.StartTolerance)
			stays.DELETE("/:id/tolerance", ctl.Stays.EndTolerance)
			stays.POST("/:id/tolerance/charge", ctl.Stays.ChargeToleranceExpired)
			stays.POST("/:id/extras/pay", ctl.Stays.PayExtras)
			stays.POST("/:id/checkout", ctl.Stays.Checkout)
			stays.POST("/:id/cancel", ctl.Stays.CancelStay)
			stays.POST("/:id/change-room", ctl.Stays.ChangeRoom)
		}
	}

	return r
}
