package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campfire/internal/model"
)

type CommunityService interface {
	Create(ctx context.Context, userID uint64, name, slug, desc string, isFree bool) (*model.Community, error)
	Join(ctx context.Context, userID uint64, ref string) (*model.Community, error)
	Leave(ctx context.Context, userID uint64, ref string) error
	List(ctx context.Context, page, size int) ([]model.Community, error)
	Resolve(ctx context.Context, ref string) (*model.Community, error)
}

type CommunityHandler struct {
	svc CommunityService
}

func NewCommunityHandler(svc CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CommunityCreateReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Slug        string `json:"slug" binding:"omitempty,max=64"`
	Description string `json:"description"`
	IsFree      *bool  `json:"is_free"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	isFree := true
	if req.IsFree != nil {
		isFree = *req.IsFree
	}

	community, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.Slug, req.Description, isFree)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

// Join handles POST /api/community/:ref/join; ref is an id or a slug.
func (h *CommunityHandler) Join(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	community, err := h.svc.Join(c.Request.Context(), userID, c.Param("ref"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined " + community.Name})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), userID, c.Param("ref")); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
