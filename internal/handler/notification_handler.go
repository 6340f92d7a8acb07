package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campfire/internal/model"
)

type NotificationService interface {
	List(ctx context.Context, userID uint64, page, size int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	UpdateSetting(ctx context.Context, userID uint64, communityID *uint64, typ model.NotificationType, inApp, email, push bool) (*model.NotificationSetting, error)
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type SettingReq struct {
	CommunityID  *uint64 `json:"community_id"`
	Type         string  `json:"type" binding:"required,max=64"`
	InAppEnabled bool    `json:"in_app_enabled"`
	EmailEnabled bool    `json:"email_enabled"`
	PushEnabled  bool    `json:"push_enabled"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), userID, page, size)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *NotificationHandler) UpdateSetting(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req SettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	setting, err := h.svc.UpdateSetting(c.Request.Context(), userID, req.CommunityID,
		model.NotificationType(req.Type), req.InAppEnabled, req.EmailEnabled, req.PushEnabled)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
