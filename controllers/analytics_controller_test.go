package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/state"
)

func TestAnalyticsSummary(t *testing.T) {
	store := state.NewStore(5*time.Second, nil)
	store.Dispatch(state.AddUploadedFile{File: models.UploadedFile{ID: "f1", Name: "id.png"}})
	store.Dispatch(state.AddUploadedFile{File: models.UploadedFile{ID: "f2", Name: "passport.pdf"}})
	store.Dispatch(state.AddProcessingResult{Result: models.ProcessingResult{
		ID: "r1", Status: models.StatusCompleted, Confidence: 95.0, DocumentType: "National ID",
	}})
	store.Dispatch(state.AddProcessingResult{Result: models.ProcessingResult{
		ID: "r2", Status: models.StatusCompleted, Confidence: 75.0, DocumentType: "Passport",
	}})
	store.Dispatch(state.AddProcessingResult{Result: models.ProcessingResult{
		ID: "r3", Status: models.StatusProcessing,
	}})

	r := gin.New()
	r.GET("/analytics/summary", NewAnalyticsController(store).GetSummary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var summary struct {
		TotalUploads  int            `json:"total_uploads"`
		TotalRuns     int            `json:"total_runs"`
		CompletedRuns int            `json:"completed_runs"`
		AvgConfidence float64        `json:"avg_confidence"`
		ApprovedCount int            `json:"approved_count"`
		FlaggedCount  int            `json:"flagged_count"`
		DocumentTypes map[string]int `json:"document_types"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &summary); err != nil {
		t.Fatal(err)
	}

	if summary.TotalUploads != 2 {
		t.Errorf("total_uploads = %d", summary.TotalUploads)
	}
	if summary.TotalRuns != 3 || summary.CompletedRuns != 2 {
		t.Errorf("runs = %d/%d, want 3/2", summary.CompletedRuns, summary.TotalRuns)
	}
	if summary.AvgConfidence != 85.0 {
		t.Errorf("avg_confidence = %v, want 85", summary.AvgConfidence)
	}
	// 95 -> approved, 75 -> flagged at the 0.80 threshold.
	if summary.ApprovedCount != 1 || summary.FlaggedCount != 1 {
		t.Errorf("approved/flagged = %d/%d", summary.ApprovedCount, summary.FlaggedCount)
	}
	if summary.DocumentTypes["National ID"] != 1 || summary.DocumentTypes["Passport"] != 1 {
		t.Errorf("document_types = %v", summary.DocumentTypes)
	}
}

func TestConfigEndpoints(t *testing.T) {
	cc := NewConfigController()
	r := gin.New()
	r.GET("/config/upload", cc.GetUploadPolicy)
	r.GET("/config/ui", cc.GetUISettings)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config/upload", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var policy struct {
		MaxBytes     int64    `json:"max_bytes"`
		AllowedTypes []string `json:"allowed_types"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &policy); err != nil {
		t.Fatal(err)
	}
	if policy.MaxBytes != 10<<20 {
		t.Errorf("max_bytes = %d", policy.MaxBytes)
	}
	if len(policy.AllowedTypes) != 3 {
		t.Errorf("allowed_types = %v", policy.AllowedTypes)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config/ui", nil))
	var ui struct {
		NotificationTTLSeconds int `json:"notification_ttl_seconds"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &ui); err != nil {
		t.Fatal(err)
	}
	if ui.NotificationTTLSeconds != 5 {
		t.Errorf("notification_ttl_seconds = %d", ui.NotificationTTLSeconds)
	}
}
