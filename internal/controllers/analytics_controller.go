package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortkey/internal/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
	authService      service.AuthService
}

func NewAnalyticsController(analyticsService service.AnalyticsService, authService service.AuthService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		authService:      authService,
	}
}

// Summary handles GET /api/v1/analytics/summary - admin only
func (ac *AnalyticsController) Summary(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	user, err := ac.authService.GetUser(c.Request.Context(), userID)
	if err != nil || !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	summary, err := ac.analyticsService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
