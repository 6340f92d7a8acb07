package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campfire/internal/model"
)

type ChatService interface {
	Send(ctx context.Context, userID, communityID uint64, body string) (*model.ChatMessage, error)
	List(ctx context.Context, userID, communityID, cursor uint64, limit int) ([]model.ChatMessage, uint64, error)
	MarkRead(ctx context.Context, userID, communityID uint64) error
	UnreadCount(ctx context.Context, userID, communityID uint64) (int64, error)
}

// CommunityResolver turns the :ref path segment into a community.
type CommunityResolver interface {
	Resolve(ctx context.Context, ref string) (*model.Community, error)
}

type ChatHandler struct {
	svc      ChatService
	resolver CommunityResolver
}

func NewChatHandler(svc ChatService, resolver CommunityResolver) *ChatHandler {
	return &ChatHandler{svc: svc, resolver: resolver}
}

type ChatSendReq struct {
	Body string `json:"body" binding:"required,max=4000"`
}

func (h *ChatHandler) community(c *gin.Context) (*model.Community, bool) {
	community, err := h.resolver.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		abortError(c, err)
		return nil, false
	}
	return community, true
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	community, ok := h.community(c)
	if !ok {
		return
	}
	var req ChatSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), userID, community.ID, req.Body)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	community, ok := h.community(c)
	if !ok {
		return
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, next, err := h.svc.List(c.Request.Context(), userID, community.ID, cursor, limit)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "next_cursor": next})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	community, ok := h.community(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), userID, community.ID); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	community, ok := h.community(c)
	if !ok {
		return
	}
	n, err := h.svc.UnreadCount(c.Request.Context(), userID, community.ID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
