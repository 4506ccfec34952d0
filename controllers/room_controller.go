package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motel-backend/models"
	"motel-backend/services"
)

type CreateRoomRequest struct {
	RoomTypeID  uint              `json:"roomTypeId" binding:"required"`
	RoomNumber  string            `json:"roomNumber" binding:"required"`
	Floor       string            `json:"floor"`
	Description string            `json:"description"`
	Status      models.RoomStatus `json:"status"`
}

type UpdateRoomStatusRequest struct {
	Status models.RoomStatus `json:"status" binding:"required"`
}

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// GET /api/rooms
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.RoomSvc.GetAll(c.Request.Context())
	respond(c, http.StatusOK, rooms, err)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	room, err := rc.RoomSvc.GetByID(c.Request.Context(), id)
	respond(c, http.StatusOK, room, err)
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room := models.Room{
		RoomTypeID:  req.RoomTypeID,
		RoomNumber:  req.RoomNumber,
		Floor:       req.Floor,
		Description: req.Description,
		Status:      req.Status,
	}
	err := rc.RoomSvc.Create(c.Request.Context(), &room)
	respond(c, http.StatusCreated, room, err)
}

// PATCH /api/rooms/:id/status
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateRoomStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.RoomSvc.ManualTransition(c.Request.Context(), id, req.Status)
	respond(c, http.StatusOK, room, err)
}
