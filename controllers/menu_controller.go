package controllers

import (
	"strconv"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Repo     *repository.MenuRepository
	RestRepo *repository.RestaurantRepository
}

func NewMenuController(repo *repository.MenuRepository, restRepo *repository.RestaurantRepository) *MenuController {
	return &MenuController{Repo: repo, RestRepo: restRepo}
}

func (mc *MenuController) authorize(c *gin.Context, restID uint) bool {
	role := utils.CurrentRole(c)
	if role == entity.RoleAdmin {
		return true
	}
	ok, err := mc.RestRepo.IsOwnedBy(restID, utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return false
	}
	if !ok {
		resp.Forbidden(c, "not your restaurant")
		return false
	}
	return true
}

// GET /partner/restaurants/:id/menu
func (mc *MenuController) List(c *gin.Context) {
	restID, _ := strconv.Atoi(c.Param("id"))
	if !mc.authorize(c, uint(restID)) {
		return
	}
	items, err := mc.Repo.ListForRestaurant(uint(restID))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

type createMenuItemReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=1"`
}

// POST /partner/restaurants/:id/menu
func (mc *MenuController) Create(c *gin.Context) {
	restID, _ := strconv.Atoi(c.Param("id"))
	if !mc.authorize(c, uint(restID)) {
		return
	}
	var req createMenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	m := &entity.MenuItem{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Available:    true,
		RestaurantID: uint(restID),
	}
	if err := mc.Repo.Create(m); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, m)
}

type updateMenuItemReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Available   *bool   `json:"available"`
}

// PATCH /partner/restaurants/:id/menu/:mid
func (mc *MenuController) Update(c *gin.Context) {
	restID, _ := strconv.Atoi(c.Param("id"))
	menuID, _ := strconv.Atoi(c.Param("mid"))
	if !mc.authorize(c, uint(restID)) {
		return
	}
	var req updateMenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			resp.BadRequest(c, "price must be positive")
			return
		}
		updates["price"] = *req.Price
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if len(updates) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	affected, err := mc.Repo.Update(uint(menuID), uint(restID), updates)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if affected == 0 {
		c.JSON(404, gin.H{"ok": false, "error": "menu item not found"})
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /partner/restaurants/:id/menu/:mid
func (mc *MenuController) Delete(c *gin.Context) {
	restID, _ := strconv.Atoi(c.Param("id"))
	menuID, _ := strconv.Atoi(c.Param("mid"))
	if !mc.authorize(c, uint(restID)) {
		return
	}
	affected, err := mc.Repo.Delete(uint(menuID), uint(restID))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if affected == 0 {
		c.JSON(404, gin.H{"ok": false, "error": "menu item not found"})
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
