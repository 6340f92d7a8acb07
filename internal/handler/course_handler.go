package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campfire/internal/model"
)

type CourseService interface {
	CreateCourse(ctx context.Context, userID, communityID uint64, title, desc string, isFree bool) (*model.Course, error)
	CreateModule(ctx context.Context, userID, courseID uint64, title string, position int) (*model.CourseModule, error)
	CreateLesson(ctx context.Context, userID, moduleID uint64, title, content string, position int) (*model.Lesson, error)
	Enroll(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error)
	ListByCommunity(ctx context.Context, communityID uint64, page, size int) ([]model.Course, error)
}

type ProgressService interface {
	Update(ctx context.Context, userID, lessonID uint64, isCompleted *bool, timeSpent *int64) (*model.LessonProgress, error)
	Get(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error)
}

type CourseHandler struct {
	courses  CourseService
	progress ProgressService
	resolver CommunityResolver
}

func NewCourseHandler(courses CourseService, progress ProgressService, resolver CommunityResolver) *CourseHandler {
	return &CourseHandler{courses: courses, progress: progress, resolver: resolver}
}

type CourseCreateReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	IsFree      *bool  `json:"is_free"`
}

type ModuleCreateReq struct {
	Title    string `json:"title" binding:"required,max=200"`
	Position int    `json:"position" binding:"omitempty,min=0"`
}

type LessonCreateReq struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	Position int    `json:"position" binding:"omitempty,min=0"`
}

type ProgressReq struct {
	IsCompleted *bool  `json:"is_completed"`
	TimeSpent   *int64 `json:"time_spent" binding:"omitempty,min=0"`
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CourseCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	isFree := true
	if req.IsFree != nil {
		isFree = *req.IsFree
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), userID, req.CommunityID, req.Title, req.Description, isFree)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) CreateModule(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ModuleCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	module, err := h.courses.CreateModule(c.Request.Context(), userID, courseID, req.Title, req.Position)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (h *CourseHandler) CreateLesson(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	moduleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req LessonCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	lesson, err := h.courses.CreateLesson(c.Request.Context(), userID, moduleID, req.Title, req.Content, req.Position)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// Enroll handles POST /api/course/:id/enroll.
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.courses.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// ListByCommunity handles GET /api/community/:ref/courses.
func (h *CourseHandler) ListByCommunity(c *gin.Context) {
	community, err := h.resolver.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		abortError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.courses.ListByCommunity(c.Request.Context(), community.ID, page, size)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// UpdateProgress handles POST /api/lesson/:id/progress.
func (h *CourseHandler) UpdateProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ProgressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	progress, err := h.progress.Update(c.Request.Context(), userID, lessonID, req.IsCompleted, req.TimeSpent)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *CourseHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.progress.Get(c.Request.Context(), userID, lessonID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
