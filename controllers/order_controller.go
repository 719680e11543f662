package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Svc: s}
}

// POST /orders/checkout
func (oc *OrderController) Checkout(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req services.CheckoutIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Svc.Checkout(uid, &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, out)
}

// POST /orders/:id/reorder
func (oc *OrderController) Reorder(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	var req services.CheckoutIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Svc.Reorder(uid, uint(id), &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := oc.Svc.ListForUser(uid, limit)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	out, err := oc.Svc.DetailForUser(uid, uint(id))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/track/:code (public tracking by code)
func (oc *OrderController) Track(c *gin.Context) {
	out, err := oc.Svc.Track(c.Param("code"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /orders/:id/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	if err := oc.Svc.CancelByCustomer(uid, uint(id)); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"status": entity.OrderCancelled})
}
