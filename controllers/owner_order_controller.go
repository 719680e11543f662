package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

// OwnerOrderController exposes the restaurant side of the order lifecycle.
type OwnerOrderController struct{ Svc *services.OrderService }

func NewOwnerOrderController(s *services.OrderService) *OwnerOrderController {
	return &OwnerOrderController{Svc: s}
}

// GET /partner/restaurants/:id/orders?status=&page=&limit=
func (oc *OwnerOrderController) List(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	restID, _ := strconv.Atoi(c.Param("id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status *entity.OrderStatus
	if s := c.Query("status"); s != "" {
		st := entity.OrderStatus(s)
		if !st.Valid() {
			resp.BadRequest(c, "unknown status filter")
			return
		}
		status = &st
	}

	out, err := oc.Svc.ListForRestaurant(uid, uint(restID), role, status, page, limit)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurants/:id/orders/:oid
func (oc *OwnerOrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	restID, _ := strconv.Atoi(c.Param("id"))
	orderID, _ := strconv.Atoi(c.Param("oid"))

	out, err := oc.Svc.DetailForRestaurant(uid, uint(restID), uint(orderID), role)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

type advanceReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /partner/orders/:id/status
func (oc *OwnerOrderController) Advance(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	orderID, _ := strconv.Atoi(c.Param("id"))

	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := oc.Svc.Advance(uid, role, uint(orderID), req.Status); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"status": req.Status})
}
