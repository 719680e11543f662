package controllers

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	cart, subtotal, err := h.Svc.Get(uid)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"cart": cart, "subtotal": subtotal})
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.Add(uid, &req); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, gin.H{"ok": true})
}

// PATCH /cart/items/qty
func (h *CartController) UpdateQty(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var body struct {
		ItemID uint `json:"itemId" binding:"required"`
		Qty    int  `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.UpdateQty(uid, body.ItemID, body.Qty); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /cart/items
func (h *CartController) RemoveItem(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var body struct {
		ItemID uint `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.RemoveItem(uid, body.ItemID); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := h.Svc.Clear(uid); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
