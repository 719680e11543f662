package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(s *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: s}
}

type createIntentReq struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// POST /payments/intent
func (pc *PaymentController) CreateIntent(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req createIntentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.Svc.CreateIntent(uid, req.OrderID)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, out)
}

// POST /payments/:id/confirm. The server asks the gateway; the client's
// claim of success is never trusted.
func (pc *PaymentController) Confirm(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	out, err := pc.Svc.Confirm(uid, uint(id))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

type refundReq struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Reason string `json:"reason"`
}

// POST /partner/payments/:id/refund (owner/admin)
func (pc *PaymentController) Refund(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	id, _ := strconv.Atoi(c.Param("id"))

	var req refundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := pc.Svc.Refund(uint(id), req.Amount, req.Reason, uid, role)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /profile/payments
func (pc *PaymentController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := pc.Svc.ListForUser(uid, limit)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
