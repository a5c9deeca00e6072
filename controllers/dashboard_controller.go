package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uwezo-ai/uwezo/middleware"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/state"
	"github.com/uwezo-ai/uwezo/utils"
)

// DashboardController exposes the application state store: the full
// snapshot, page navigation, and notification management.
type DashboardController struct {
	store *state.Store
}

func NewDashboardController(store *state.Store) *DashboardController {
	return &DashboardController{store: store}
}

// GetState returns the complete session snapshot.
func (d *DashboardController) GetState(ctx *gin.Context) {
	utils.Success(ctx, d.store.Snapshot())
}

// SetPage replaces the active page identifier. The store itself does not
// role-gate pages; the admin page is checked here against the caller's role.
func (d *DashboardController) SetPage(ctx *gin.Context) {
	var req struct {
		Page string `json:"page" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if !state.KnownPage(req.Page) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "unknown page identifier")
		return
	}
	if req.Page == state.PageAdmin && ctx.GetString(middleware.ContextRoleKey) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40302, "admin role required for admin page")
		return
	}
	d.store.Dispatch(state.SetCurrentPage{Page: req.Page})
	utils.Success(ctx, gin.H{"current_page": req.Page})
}

// AddNotification appends a transient notification.
func (d *DashboardController) AddNotification(ctx *gin.Context) {
	var req struct {
		Type    string `json:"type" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}
	switch req.Type {
	case models.NotifySuccess, models.NotifyError, models.NotifyInfo:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40043, "unknown notification type")
		return
	}
	notif := models.Notification{
		ID:        "notif_" + uuid.NewString(),
		Type:      req.Type,
		Message:   utils.Sanitize(req.Message),
		Timestamp: time.Now().UTC(),
	}
	d.store.Dispatch(state.AddNotification{Notification: notif})
	utils.Success(ctx, notif)
}

// DismissNotification removes a notification before its TTL elapses.
func (d *DashboardController) DismissNotification(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40044, "missing notification id")
		return
	}
	d.store.Dispatch(state.RemoveNotification{ID: id})
	utils.Success(ctx, gin.H{"removed": id})
}
