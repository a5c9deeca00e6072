// Package pipeline simulates staged document processing. A run takes an
// uploaded file, infers its document type from the filename, and emits a
// fixed sequence of partial-result updates ending in a completed record.
// There is no real OCR or fraud model behind it.
package pipeline

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uwezo-ai/uwezo/models"
)

// Emission is one staged partial update. Seq 0 carries the complete initial
// record; consumers should create the result then, and merge every later
// emission into it by ResultID.
type Emission struct {
	ResultID string
	Seq      int
	Fields   models.ResultUpdate
}

// Initial reports whether this is the run's first emission.
func (e Emission) Initial() bool { return e.Seq == 0 }

// UpdateFunc receives every emission of a run, in order, on the run's
// goroutine.
type UpdateFunc func(Emission)

// Country every document resolves to in this mock.
const DefaultCountry = "Kenya"

// Inter-stage delays, scaled by the runner's delay scale. Index i is the
// pause before emission i+1.
var stageDelays = [...]time.Duration{
	500 * time.Millisecond,
	800 * time.Millisecond,
	600 * time.Millisecond,
	700 * time.Millisecond,
	500 * time.Millisecond,
	300 * time.Millisecond,
}

// Runner executes simulated processing runs. The zero scale disables delays,
// which tests use to drive all seven stages synchronously.
type Runner struct {
	scale float64
	log   *zap.SugaredLogger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRunner builds a runner. scale multiplies every inter-stage delay;
// pass 0 for a zero-delay runner. A nil logger disables logging.
func NewRunner(scale float64, log *zap.SugaredLogger) *Runner {
	if scale < 0 {
		scale = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{
		scale: scale,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// Process runs the seven stages to completion, invoking onUpdate after each
// one, and returns the terminal record. A run never fails and is never
// retried or cancelled; every invocation mints its own result identifier.
func (r *Runner) Process(file models.UploadedFile, onUpdate UpdateFunc) models.ProcessingResult {
	start := r.now()
	resultID := newResultID(start)
	docType := DetectDocumentType(file.Name)
	r.log.Infow("processing started", "result_id", resultID, "file", file.Name, "type", docType)

	// Stage 1: empty shell with placeholders.
	initial := models.ProcessingResult{
		ID:            resultID,
		Status:        models.StatusProcessing,
		DocumentType:  "Detecting...",
		Country:       "Unknown",
		OCRText:       "",
		ExtractedData: map[string]any{},
	}
	onUpdate(Emission{ResultID: resultID, Seq: 0, Fields: fullUpdate(initial)})

	// Stage 2: still analyzing.
	r.pause(0)
	onUpdate(Emission{ResultID: resultID, Seq: 1, Fields: models.ResultUpdate{
		DocumentType: ptr("Analyzing document..."),
	}})

	// Stage 3: country resolution, fixed in this mock.
	r.pause(1)
	onUpdate(Emission{ResultID: resultID, Seq: 2, Fields: models.ResultUpdate{
		Country: ptr(DefaultCountry),
	}})

	// Stage 4: resolved document type.
	r.pause(2)
	onUpdate(Emission{ResultID: resultID, Seq: 3, Fields: models.ResultUpdate{
		DocumentType: ptr(docType.Label()),
	}})

	// Stage 5: OCR text.
	r.pause(3)
	onUpdate(Emission{ResultID: resultID, Seq: 4, Fields: models.ResultUpdate{
		OCRText: ptr(OCRSample(docType)),
	}})

	// Stage 6: counts and confidence.
	r.pause(4)
	confidence := r.drawConfidence()
	totalFields := SampleFieldCount(docType)
	fieldsDetected := int(math.Floor(float64(totalFields) * confidence / 100))
	onUpdate(Emission{ResultID: resultID, Seq: 5, Fields: models.ResultUpdate{
		FieldsDetected: ptr(fieldsDetected),
		TotalFields:    ptr(totalFields),
		Confidence:     ptr(confidence),
	}})

	// Stage 7: terminal record.
	r.pause(5)
	elapsed := r.now().Sub(start).Milliseconds()
	final := models.ProcessingResult{
		ID:             resultID,
		Status:         models.StatusCompleted,
		Confidence:     confidence,
		ProcessingTime: elapsed,
		DocumentType:   docType.Label(),
		Country:        DefaultCountry,
		FieldsDetected: fieldsDetected,
		TotalFields:    totalFields,
		OCRText:        OCRSample(docType),
		ExtractedData:  ExtractedSample(docType),
		FraudScore:     round1(100 - confidence),
	}
	onUpdate(Emission{ResultID: resultID, Seq: 6, Fields: fullUpdate(final)})
	r.log.Infow("processing completed", "result_id", resultID,
		"confidence", confidence, "elapsed_ms", elapsed)
	return final
}

func (r *Runner) pause(stage int) {
	if r.scale == 0 {
		return
	}
	time.Sleep(time.Duration(float64(stageDelays[stage]) * r.scale))
}

// drawConfidence samples uniformly from [85, 99] and rounds to one decimal.
func (r *Runner) drawConfidence() float64 {
	r.mu.Lock()
	f := r.rng.Float64()
	r.mu.Unlock()
	return round1(85 + f*14)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func newResultID(t time.Time) string {
	return fmt.Sprintf("result_%d_%s", t.UnixMilli(), uuid.NewString()[:8])
}

func fullUpdate(r models.ProcessingResult) models.ResultUpdate {
	u := models.ResultUpdate{
		Status:         ptr(r.Status),
		Confidence:     ptr(r.Confidence),
		ProcessingTime: ptr(r.ProcessingTime),
		DocumentType:   ptr(r.DocumentType),
		Country:        ptr(r.Country),
		FieldsDetected: ptr(r.FieldsDetected),
		TotalFields:    ptr(r.TotalFields),
		OCRText:        ptr(r.OCRText),
		ExtractedData:  r.ExtractedData,
	}
	if r.FraudScore != 0 {
		u.FraudScore = ptr(r.FraudScore)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
