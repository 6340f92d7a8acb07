package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, login, password string) (*pkg.Pair, error)
	Logout(ctx context.Context, userID uint64) error
	Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error)
	SendResetCode(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error
	Subscription(ctx context.Context, userID uint64) (*model.Subscription, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type RegisterReq struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ResetCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), userID); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) SendResetCode(c *gin.Context) {
	var req ResetCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	if err := h.svc.SendResetCode(c.Request.Context(), req.Email); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code sent if the address is registered"})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *UserHandler) Subscription(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sub, err := h.svc.Subscription(c.Request.Context(), userID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
