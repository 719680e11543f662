package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ Svc *services.NotificationService }

func NewNotificationController(s *services.NotificationService) *NotificationController {
	return &NotificationController{Svc: s}
}

// GET /notifications?unread=&page=&limit=
func (nc *NotificationController) List(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unreadOnly := c.Query("unread") == "true"

	out, err := nc.Svc.List(uid, unreadOnly, page, limit)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /notifications/unread-count
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	count, err := nc.Svc.UnreadCount(uid)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"count": count})
}

// PATCH /notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	if err := nc.Svc.MarkRead(uid, uint(id)); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// PATCH /notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := nc.Svc.MarkAllRead(uid); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /notifications/:id
func (nc *NotificationController) Delete(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	if err := nc.Svc.Delete(uid, uint(id)); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
