package models

// Terminal and intermediate statuses of a processing run.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	// StatusFailed is reserved in the data model; the simulated pipeline
	// never produces it. Real processing failures are unmodeled upstream.
	StatusFailed = "failed"
)

// ProcessingResult is the single record produced by one pipeline run. The ID
// is fixed at pipeline start; every other field may be rewritten in place by
// partial updates keyed on that ID.
type ProcessingResult struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Confidence     float64        `json:"confidence"`
	ProcessingTime int64          `json:"processing_time"`
	DocumentType   string         `json:"document_type"`
	Country        string         `json:"country"`
	FieldsDetected int            `json:"fields_detected"`
	TotalFields    int            `json:"total_fields"`
	OCRText        string         `json:"ocr_text"`
	ExtractedData  map[string]any `json:"extracted_data"`
	FraudScore     float64        `json:"fraud_score,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// ResultUpdate is a shallow partial update against a ProcessingResult. Nil
// pointers mean "leave the field untouched"; ExtractedData replaces the whole
// mapping when non-nil.
type ResultUpdate struct {
	Status         *string        `json:"status,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	ProcessingTime *int64         `json:"processing_time,omitempty"`
	DocumentType   *string        `json:"document_type,omitempty"`
	Country        *string        `json:"country,omitempty"`
	FieldsDetected *int           `json:"fields_detected,omitempty"`
	TotalFields    *int           `json:"total_fields,omitempty"`
	OCRText        *string        `json:"ocr_text,omitempty"`
	ExtractedData  map[string]any `json:"extracted_data,omitempty"`
	FraudScore     *float64       `json:"fraud_score,omitempty"`
	Error          *string        `json:"error,omitempty"`
}

// Apply merges the update into r, overwriting only the fields present.
func (u ResultUpdate) Apply(r ProcessingResult) ProcessingResult {
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Confidence != nil {
		r.Confidence = *u.Confidence
	}
	if u.ProcessingTime != nil {
		r.ProcessingTime = *u.ProcessingTime
	}
	if u.DocumentType != nil {
		r.DocumentType = *u.DocumentType
	}
	if u.Country != nil {
		r.Country = *u.Country
	}
	if u.FieldsDetected != nil {
		r.FieldsDetected = *u.FieldsDetected
	}
	if u.TotalFields != nil {
		r.TotalFields = *u.TotalFields
	}
	if u.OCRText != nil {
		r.OCRText = *u.OCRText
	}
	if u.ExtractedData != nil {
		r.ExtractedData = u.ExtractedData
	}
	if u.FraudScore != nil {
		r.FraudScore = *u.FraudScore
	}
	if u.Error != nil {
		r.Error = *u.Error
	}
	return r
}
