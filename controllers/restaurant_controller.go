package controllers

import (
	"errors"
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB   *gorm.DB
	Repo *repository.RestaurantRepository
}

func NewRestaurantController(db *gorm.DB, repo *repository.RestaurantRepository) *RestaurantController {
	return &RestaurantController{DB: db, Repo: repo}
}

// GET /restaurants?search=&page=&limit=
func (rc *RestaurantController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, total, err := rc.Repo.List(c.Query("search"), page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items, "total": total, "page": page, "limit": limit})
}

// GET /restaurants/:id (detail with available menu)
func (rc *RestaurantController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	rest, err := rc.Repo.GetWithMenu(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"ok": false, "error": "restaurant not found"})
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"restaurant": rest, "menu": rest.MenuItems})
}

type createRestaurantReq struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Cuisine     string `json:"cuisine"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
}

// POST /partner/restaurants (owner/admin)
func (rc *RestaurantController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req createRestaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	rest := &entity.Restaurant{
		Name:        req.Name,
		Address:     req.Address,
		Cuisine:     req.Cuisine,
		Description: req.Description,
		Phone:       req.Phone,
		OwnerID:     uid,
	}
	if err := rc.Repo.Create(rest); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, rest)
}

// GET /partner/restaurants (own restaurants)
func (rc *RestaurantController) ListMine(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	items, err := rc.Repo.ListForOwner(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

type updateRestaurantReq struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Cuisine     *string `json:"cuisine"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	IsOpen      *bool   `json:"isOpen"`
}

// PATCH /partner/restaurants/:id
func (rc *RestaurantController) Update(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	id, _ := strconv.Atoi(c.Param("id"))

	if role != entity.RoleAdmin {
		ok, err := rc.Repo.IsOwnedBy(uint(id), uid)
		if err != nil {
			resp.ServerError(c, err)
			return
		}
		if !ok {
			resp.Forbidden(c, "not your restaurant")
			return
		}
	}

	var req updateRestaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Cuisine != nil {
		updates["cuisine"] = *req.Cuisine
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if len(updates) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	if err := rc.Repo.Update(uint(id), updates); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
