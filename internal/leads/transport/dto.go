package transport

import "github.com/google/uuid"

type UploadResponse struct {
	BatchID       uuid.UUID `json:"batchId"`
	InsertedCount int       `json:"insertedCount"`
}
