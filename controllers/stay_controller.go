package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motel-backend/models"
	"motel-backend/services"
)

type StartToleranceRequest struct {
	Type models.ToleranceType `json:"type" binding:"required"`
}

type StayController struct {
	StaySvc *services.StayService
}

func NewStayController(svc *services.StayService) *StayController {
	return &StayController{StaySvc: svc}
}

// POST /api/stays
func (sc *StayController) StartStay(c *gin.Context) {
	var in services.StartStayInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.StartStay(c.Request.Context(), in)
	respond(c, http.StatusCreated, res, err)
}

// POST /api/stays/quick
func (sc *StayController) QuickCheckIn(c *gin.Context) {
	var in services.StartStayInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.QuickCheckIn(c.Request.Context(), in)
	respond(c, http.StatusCreated, res, err)
}

// GET /api/stays
func (sc *StayController) ListActiveStays(c *gin.Context) {
	stays, err := sc.StaySvc.ListActiveStays(c.Request.Context())
	respond(c, http.StatusOK, stays, err)
}

// GET /api/stays/:id
func (sc *StayController) GetStay(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	details, err := sc.StaySvc.GetStayDetails(c.Request.Context(), id)
	respond(c, http.StatusOK, details, err)
}

// POST /api/stays/:id/extra-person
func (sc *StayController) AddExtraPerson(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := sc.StaySvc.AddExtraPerson(c.Request.Context(), id)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/extra-hour
func (sc *StayController) AddExtraHour(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := sc.StaySvc.AddExtraHour(c.Request.Context(), id)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/tolerance
func (sc *StayController) StartTolerance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req StartToleranceRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := sc.StaySvc.StartTolerance(c.Request.Context(), id, req.Type)
	respond(c, http.StatusOK, res, err)
}

// DELETE /api/stays/:id/tolerance
func (sc *StayController) EndTolerance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := sc.StaySvc.EndTolerance(c.Request.Context(), id)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/tolerance/charge
func (sc *StayController) ChargeToleranceExpired(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := sc.StaySvc.ChargeToleranceExpired(c.Request.Context(), id)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/extras/pay
func (sc *StayController) PayExtras(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.PayExtrasInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.PayExtras(c.Request.Context(), id, in)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/checkout
func (sc *StayController) Checkout(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.CheckoutInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.Checkout(c.Request.Context(), id, in)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/cancel
func (sc *StayController) CancelStay(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.CancelInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.CancelStay(c.Request.Context(), id, in)
	respond(c, http.StatusOK, res, err)
}

// POST /api/stays/:id/change-room
func (sc *StayController) ChangeRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ChangeRoomInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := sc.StaySvc.ChangeRoom(c.Request.Context(), id, in)
	respond(c, http.StatusOK, res, err)
}
