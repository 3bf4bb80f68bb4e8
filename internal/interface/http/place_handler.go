package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placora/places-api/internal/application"
	"github.com/placora/places-api/internal/interface/middleware"
	"github.com/placora/places-api/pkg/response"
	"github.com/placora/places-api/pkg/validation"
)

type PlaceHandler struct {
	Svc    *application.PlaceService
	Logger *logrus.Logger
}

func NewPlaceHandler(svc *application.PlaceService, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{Svc: svc, Logger: logger}
}

type createPlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,desc"`
	Address     string `json:"address" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,desc"`
	Address     string `json:"address" binding:"omitempty"`
}

// Create POST /api/places (auth required)
func (h *PlaceHandler) Create(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.WithField("details", validation.Details(err)).Debug("create place payload rejected")
		response.Error(c, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	callerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Create(c.Request.Context(), callerID, application.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"place": p})
}

// Update PATCH /api/places/:pid (auth required, creator only)
func (h *PlaceHandler) Update(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.WithField("details", validation.Details(err)).Debug("update place payload rejected")
		response.Error(c, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	callerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Update(c.Request.Context(), callerID, c.Param("pid"), application.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": p})
}

// Delete DELETE /api/places/:pid (auth required, creator only)
func (h *PlaceHandler) Delete(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), callerID, c.Param("pid")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted place"})
}

// GetByID GET /api/places/:pid
func (h *PlaceHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Request.Context(), c.Param("pid"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": p})
}

// ListByUser GET /api/places/user/:uid
func (h *PlaceHandler) ListByUser(c *gin.Context) {
	places, err := h.Svc.ListByUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// Search GET /api/places/search?q=...&size=...
func (h *PlaceHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": hits})
}

// UploadImage POST /api/places/:pid/image (auth required, creator only)
func (h *PlaceHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	callerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.UploadImage(c.Request.Context(), callerID, c.Param("pid"),
		f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": p})
}
