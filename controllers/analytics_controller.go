package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/events"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/state"
	"github.com/uwezo-ai/uwezo/utils"
)

const analyticsCacheKey = "uwezo:cache:analytics:summary"

// AnalyticsController aggregates processing history for the analytics page.
type AnalyticsController struct {
	store *state.Store
}

func NewAnalyticsController(store *state.Store) *AnalyticsController {
	return &AnalyticsController{store: store}
}

// GetSummary returns aggregate verification statistics. Results change only
// when a pipeline run finishes, so a short cache keeps chart polling cheap.
func (a *AnalyticsController) GetSummary(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(analyticsCacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	snap := a.store.Snapshot()

	var completed, approved, flagged int
	var confidenceSum float64
	typeCounts := map[string]int{}
	for _, r := range snap.ProcessingResults {
		if r.Status != models.StatusCompleted {
			continue
		}
		completed++
		confidenceSum += r.Confidence
		typeCounts[r.DocumentType]++
		if events.VerdictFor(r.Confidence/100) == events.VerdictApproved {
			approved++
		} else {
			flagged++
		}
	}

	avgConfidence := 0.0
	if completed > 0 {
		avgConfidence = confidenceSum / float64(completed)
	}

	payload := gin.H{
		"total_uploads":  len(snap.UploadedFiles),
		"total_runs":     len(snap.ProcessingResults),
		"completed_runs": completed,
		"avg_confidence": avgConfidence,
		"approved_count": approved,
		"flagged_count":  flagged,
		"document_types": typeCounts,
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(analyticsCacheKey, wrapper, 30*time.Second)
	utils.Success(ctx, payload)
}
