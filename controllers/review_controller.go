package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type ReviewController struct{ Svc *services.ReviewService }

func NewReviewController(s *services.ReviewService) *ReviewController {
	return &ReviewController{Svc: s}
}

// POST /reviews
func (rc *ReviewController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req services.CreateReviewIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rev, err := rc.Svc.Create(uid, &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, rev)
}

// PUT /reviews/:id
func (rc *ReviewController) Update(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	var req services.UpdateReviewIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rev, err := rc.Svc.Update(uid, uint(id), &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, rev)
}

// DELETE /reviews/:id
func (rc *ReviewController) Delete(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	id, _ := strconv.Atoi(c.Param("id"))
	if err := rc.Svc.Delete(uid, role, uint(id)); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

type replyReq struct {
	Reply string `json:"reply" binding:"required,max=500"`
}

// POST /partner/reviews/:id/reply (owner/admin)
func (rc *ReviewController) Reply(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	id, _ := strconv.Atoi(c.Param("id"))
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := rc.Svc.Reply(uid, role, uint(id), req.Reply); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

type hideReq struct {
	Hidden bool `json:"hidden"`
}

// PATCH /admin/reviews/:id/visibility (admin)
func (rc *ReviewController) Hide(c *gin.Context) {
	role := utils.CurrentRole(c)
	id, _ := strconv.Atoi(c.Param("id"))
	var req hideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := rc.Svc.Hide(role, uint(id), req.Hidden); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// GET /restaurants/:id/reviews (public)
func (rc *ReviewController) ListForRestaurant(c *gin.Context) {
	rid, _ := strconv.Atoi(c.Param("id"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, avg, count, err := rc.Svc.ListForRestaurant(uint(rid), limit, offset)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{
		"items":     items,
		"meta":      gin.H{"limit": limit, "offset": offset},
		"aggregate": gin.H{"avgRating": avg, "total": count},
	})
}

// GET /profile/reviews
func (rc *ReviewController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := rc.Svc.ListForUser(uid, limit, offset)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items, "meta": gin.H{"limit": limit, "offset": offset}})
}
