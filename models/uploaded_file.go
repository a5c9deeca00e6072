package models

import "time"

// UploadedFile records a file accepted at the upload boundary. The raw bytes
// are not retained; only declared metadata survives validation.
type UploadedFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Timestamp   time.Time `json:"timestamp"`
}
