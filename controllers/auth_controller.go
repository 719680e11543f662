package controllers

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/resp"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Svc: s} }

type registerReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := ac.Svc.Register(req.Email, req.Password, req.FirstName, req.LastName, req.Phone, req.Address)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, user)
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := ac.Svc.Login(req.Email, req.Password)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}

func (ac *AuthController) Me(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	user, err := ac.Svc.GetProfile(uid)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, user)
}

type updateMeReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func (ac *AuthController) UpdateMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone_number"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	user, err := ac.Svc.UpdateProfile(uid, updates)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, user)
}
