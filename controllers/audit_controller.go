package controllers

import (
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uwezo-ai/uwezo/events"
	"github.com/uwezo-ai/uwezo/utils"
)

// AuditController backs the live audit page: a websocket event feed plus the
// retrain/simulate/review trigger endpoints. Responses here are raw JSON
// rather than the API envelope because the vanilla audit page reads fields
// off the top-level object.
type AuditController struct {
	hub *events.Hub
	log *zap.SugaredLogger
}

func NewAuditController(hub *events.Hub, log *zap.SugaredLogger) *AuditController {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuditController{hub: hub, log: log}
}

// ServeWS subscribes the caller to the audit feed.
func (a *AuditController) ServeWS(ctx *gin.Context) {
	a.hub.ServeWS(ctx.Writer, ctx.Request)
}

// TriggerRetrain acknowledges immediately and plays the retrain lifecycle
// through the feed in the background.
func (a *AuditController) TriggerRetrain(ctx *gin.Context) {
	a.hub.Broadcast(events.ModelUpdate("Model retraining started"))
	go func() {
		time.Sleep(3 * time.Second)
		a.hub.Broadcast(events.ModelUpdate("Model retraining completed"))
	}()
	a.log.Infow("retrain triggered", "ip", ctx.ClientIP())
	ctx.JSON(http.StatusOK, gin.H{"status": "Model retraining started"})
}

// PredictSim fabricates one prediction and pushes it onto the feed.
// Confidence is on the 0-1 scale the audit page expects.
func (a *AuditController) PredictSim(ctx *gin.Context) {
	confidence := 0.5 + rand.Float64()*0.5
	verdict := events.VerdictFor(confidence)
	a.hub.Broadcast(events.NewPrediction(confidence))
	ctx.JSON(http.StatusOK, gin.H{
		"confidence": confidence,
		"verdict":    verdict,
	})
}

// SubmitReview records a manual review note onto the feed.
func (a *AuditController) SubmitReview(ctx *gin.Context) {
	var req struct {
		Reviewer string `json:"reviewer" binding:"required"`
		Note     string `json:"note" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "reviewer and note are required"})
		return
	}
	note := utils.Sanitize(strings.TrimSpace(req.Note))
	a.hub.Broadcast(events.ManualReview(req.Reviewer, note))
	ctx.JSON(http.StatusOK, gin.H{"message": "Review recorded"})
}
