package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortkey/internal/models"
	"shortkey/internal/service"
)

type TokenController struct {
	tokenService service.TokenService
}

func NewTokenController(tokenService service.TokenService) *TokenController {
	return &TokenController{tokenService: tokenService}
}

// Create handles POST /api/v1/tokens
func (tc *TokenController) Create(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req models.CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	token, err := tc.tokenService.Create(c.Request.Context(), userID, req.Label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, token)
}

// List handles GET /api/v1/tokens
func (tc *TokenController) List(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	tokens, err := tc.tokenService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}
