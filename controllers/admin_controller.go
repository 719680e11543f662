package controllers

import (
	"strconv"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct{ DB *gorm.DB }

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GET /admin/dashboard (platform stats)
func (ac *AdminController) Dashboard(c *gin.Context) {
	db := ac.DB

	var totalUsers, totalRestaurants, totalOrders int64
	if err := db.Model(&entity.User{}).Count(&totalUsers).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	if err := db.Model(&entity.Restaurant{}).Count(&totalRestaurants).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	if err := db.Model(&entity.Order{}).Count(&totalOrders).Error; err != nil {
		resp.ServerError(c, err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	var ordersToday int64
	if err := db.Model(&entity.Order{}).
		Where("created_at >= ?", today).
		Count(&ordersToday).Error; err != nil {
		resp.ServerError(c, err)
		return
	}

	// Revenue counts only delivered, paid orders.
	var revenue struct{ Total int64 }
	if err := db.Model(&entity.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status = ? AND payment_state = ?", entity.OrderDelivered, entity.PayStatePaid).
		Scan(&revenue).Error; err != nil {
		resp.ServerError(c, err)
		return
	}

	resp.OK(c, gin.H{
		"totalUsers":       totalUsers,
		"totalRestaurants": totalRestaurants,
		"totalOrders":      totalOrders,
		"ordersToday":      ordersToday,
		"revenue":          revenue.Total,
	})
}

// GET /admin/restaurants?page=&limit=
func (ac *AdminController) Restaurants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	ac.DB.Model(&entity.Restaurant{}).Count(&total)

	var items []entity.Restaurant
	if err := ac.DB.Order("id").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items, "total": total, "page": page, "limit": limit})
}

// PATCH /admin/users/:id/role promotes a user to owner, or back.
func (ac *AdminController) SetRole(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req struct {
		Role string `json:"role" binding:"required,oneof=user owner admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	res := ac.DB.Model(&entity.User{}).Where("id = ?", id).Update("role", req.Role)
	if res.Error != nil {
		resp.ServerError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(404, gin.H{"ok": false, "error": "user not found"})
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
