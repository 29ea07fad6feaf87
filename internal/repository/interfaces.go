package repository

import "captureserver/internal/model"

// CaptureRepository defines the interface for capture catalog operations.
type CaptureRepository interface {
	// Create operations
	Upsert(c *model.Capture) (int64, error)
	InsertIgnoreBatch(captures []model.Capture) (int, error)

	// Read operations
	GetByFilename(filename string) (*model.Capture, error)
	GetAll(limit, offset int) ([]model.Capture, error)
	Count() (int, error)
	TotalSize() (int64, error)
}
