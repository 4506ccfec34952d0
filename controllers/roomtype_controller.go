package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motel-backend/models"
	"motel-backend/services"
)

type RoomTypeController struct {
	RoomTypeSvc *services.RoomTypeService
}

func NewRoomTypeController(svc *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypeSvc: svc}
}

// GET /api/room-types
func (rc *RoomTypeController) GetRoomTypes(c *gin.Context) {
	types, err := rc.RoomTypeSvc.GetAll(c.Request.Context())
	respond(c, http.StatusOK, types, err)
}

// POST /api/room-types
func (rc *RoomTypeController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if !bindJSON(c, &rt) {
		return
	}
	rt.ID = 0
	err := rc.RoomTypeSvc.Create(c.Request.Context(), &rt)
	respond(c, http.StatusCreated, rt, err)
}
