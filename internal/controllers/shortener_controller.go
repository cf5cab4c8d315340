package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortkey/internal/models"
	"shortkey/internal/service"
	"shortkey/internal/workers"
)

// ClickRecorder schedules click persistence off the redirect path.
type ClickRecorder interface {
	Record(click workers.Click) bool
}

type ShortenerController struct {
	urlService service.URLService
	recorder   ClickRecorder
}

func NewShortenerController(urlService service.URLService, recorder ClickRecorder) *ShortenerController {
	return &ShortenerController{
		urlService: urlService,
		recorder:   recorder,
	}
}

// CreateShortURL handles POST /api/v1/shorten
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req models.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := sc.urlService.Shorten(c.Request.Context(), req.URL, req.TTL, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create short URL"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Redirect handles GET /:code - redirects to the original URL and schedules a
// click record. The record never blocks the redirect.
func (sc *ShortenerController) Redirect(c *gin.Context) {
	code := c.Param("code")

	target, err := sc.urlService.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sc.recorder.Record(workers.Click{
		Code:      code,
		ClickedAt: time.Now(),
		IPAddress: clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	})

	c.Redirect(http.StatusFound, target)
}

// GetUserURLs handles GET /api/v1/urls
func (sc *ShortenerController) GetUserURLs(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	infos, err := sc.urlService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list URLs"})
		return
	}

	c.JSON(http.StatusOK, infos)
}

// GetInfo handles GET /api/v1/info/:code - public, no click counts
func (sc *ShortenerController) GetInfo(c *gin.Context) {
	info, err := sc.urlService.Info(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// DeleteURL handles DELETE /api/v1/urls/:code
func (sc *ShortenerController) DeleteURL(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	err := sc.urlService.Delete(c.Request.Context(), c.Param("code"), userID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this short URL"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete short URL"})
	default:
		c.Status(http.StatusNoContent)
	}
}
