package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uwezo-ai/uwezo/config"
	"github.com/uwezo-ai/uwezo/events"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/pipeline"
	"github.com/uwezo-ai/uwezo/state"
	"github.com/uwezo-ai/uwezo/utils"
)

// Media types accepted at the upload boundary.
var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

func allowedUploadTypes() []string {
	return []string{"application/pdf", "image/jpeg", "image/png"}
}

// DocumentController handles uploads, processing results, and the
// certificate export. Each accepted upload launches one simulated pipeline
// run whose emissions are merged into the application state store.
type DocumentController struct {
	store  *state.Store
	runner *pipeline.Runner
	hub    *events.Hub
	log    *zap.SugaredLogger
}

func NewDocumentController(store *state.Store, runner *pipeline.Runner, hub *events.Hub, log *zap.SugaredLogger) *DocumentController {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DocumentController{store: store, runner: runner, hub: hub, log: log}
}

// Upload validates and registers a document, then processes it in the
// background. Validation failures surface as an error notification and leave
// the rest of the state untouched.
func (d *DocumentController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "missing file field")
		return
	}

	cfg := config.Get()
	if header.Size > cfg.UploadMaxBytes {
		d.notify(models.NotifyError, fmt.Sprintf("File size must be less than %dMB", cfg.UploadMaxBytes>>20))
		utils.Error(ctx, http.StatusBadRequest, 40011, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		d.notify(models.NotifyError, "Only PDF, JPG, and PNG files are allowed")
		utils.Error(ctx, http.StatusBadRequest, 40012, "unsupported media type")
		return
	}

	file := models.UploadedFile{
		ID:          "file_" + uuid.NewString(),
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Timestamp:   time.Now().UTC(),
	}
	d.store.Dispatch(state.AddUploadedFile{File: file})
	d.store.Dispatch(state.SetLoading{Loading: true})

	go d.runPipeline(file)

	utils.Success(ctx, file)
}

// runPipeline feeds one run's emissions into the store: the first creates
// the result record, the rest merge into it. The terminal emission clears
// the loading flag, raises a notification, and feeds the audit channel.
func (d *DocumentController) runPipeline(file models.UploadedFile) {
	final := d.runner.Process(file, func(e pipeline.Emission) {
		if e.Initial() {
			seed := models.ProcessingResult{ID: e.ResultID}
			d.store.Dispatch(state.AddProcessingResult{Result: e.Fields.Apply(seed)})
			return
		}
		d.store.Dispatch(state.UpdateProcessingResult{ID: e.ResultID, Updates: e.Fields})
	})

	d.store.Dispatch(state.SetLoading{Loading: false})
	d.notify(models.NotifySuccess, fmt.Sprintf("%s verified as %s", file.Name, final.DocumentType))
	if d.hub != nil {
		d.hub.Broadcast(events.NewPrediction(final.Confidence / 100))
	}
}

// Remove deletes an uploaded file record by id.
func (d *DocumentController) Remove(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, "missing file id")
		return
	}
	d.store.Dispatch(state.RemoveUploadedFile{ID: id})
	utils.Success(ctx, gin.H{"removed": id})
}

// ListResults returns every processing run, oldest first.
func (d *DocumentController) ListResults(ctx *gin.Context) {
	snap := d.store.Snapshot()
	utils.Success(ctx, gin.H{"items": snap.ProcessingResults})
}

// LatestResult returns the most recent run.
func (d *DocumentController) LatestResult(ctx *gin.Context) {
	result, ok := d.store.LatestResult()
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "no processing results yet")
		return
	}
	utils.Success(ctx, result)
}

// Certificate serves a verification certificate for the latest completed
// result as a JSON download. It is a pure projection of stored state.
func (d *DocumentController) Certificate(ctx *gin.Context) {
	result, ok := d.store.LatestResult()
	if !ok || result.Status != models.StatusCompleted || result.Confidence <= 0 {
		utils.Error(ctx, http.StatusNotFound, 40421, "no completed result to certify")
		return
	}

	status := "REQUIRES_REVIEW"
	if result.Confidence > 70 {
		status = "VERIFIED"
	}
	certificate := gin.H{
		"documentId":         result.ID,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"verificationStatus": status,
		"confidence":         result.Confidence,
		"documentType":       result.DocumentType,
		"country":            result.Country,
		"processingTime":     result.ProcessingTime,
		"fraudScore":         result.FraudScore,
		"extractedFields":    result.ExtractedData,
		"ocrText":            result.OCRText,
	}
	utils.Attachment(ctx, fmt.Sprintf("verification_certificate_%s.json", result.ID), certificate)
}

func (d *DocumentController) notify(kind, message string) {
	d.store.Dispatch(state.AddNotification{Notification: models.Notification{
		ID:        "notif_" + uuid.NewString(),
		Type:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}})
}
