package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shortkey/internal/service"
)

type QRCodeController struct {
	urlService service.URLService
}

func NewQRCodeController(urlService service.URLService) *QRCodeController {
	return &QRCodeController{urlService: urlService}
}

// Generate handles GET /api/v1/qrcode/:code - PNG QR code for the short URL
func (qc *QRCodeController) Generate(c *gin.Context) {
	info, err := qc.urlService.Info(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	png, err := qrcode.Encode(info.ShortURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", png)
}
