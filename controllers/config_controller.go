package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/config"
	"github.com/uwezo-ai/uwezo/utils"
)

// ConfigController serves client-facing configuration so the dashboard can
// mirror server-side limits instead of hardcoding them.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetUploadPolicy returns the upload boundary constraints.
func (c *ConfigController) GetUploadPolicy(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"max_bytes":     cfg.UploadMaxBytes,
		"allowed_types": allowedUploadTypes(),
	})
}

// GetUISettings returns display-related settings.
func (c *ConfigController) GetUISettings(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"notification_ttl_seconds": cfg.NotificationTTLSeconds,
	})
}
