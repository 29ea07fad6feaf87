package catalog

import (
	"fmt"
	"time"

	"captureserver/internal/logger"
	"captureserver/internal/model"
	"captureserver/internal/repository"
)

// Prober extracts frame dimensions from encoded image bytes.
type Prober interface {
	Dimensions(imageBytes []byte) (int, int, error)
}

// Entry describes a capture that has just been written to disk.
type Entry struct {
	Filename    string
	FilePath    string
	ContentType string
	CapturedAt  time.Time
	Data        []byte
}

// Service records stored captures in the catalog repository.
type Service struct {
	repo   repository.CaptureRepository
	prober Prober
	logger *logger.Logger
}

// NewService creates a catalog service. prober may be nil to skip dimension probing.
func NewService(repo repository.CaptureRepository, prober Prober, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		prober: prober,
		logger: logger,
	}
}

// Record stores a catalog row for e. An undecodable frame is still recorded, with zero dimensions.
// A capture that rewrote an existing file replaces that file's row.
func (s *Service) Record(e Entry) (*model.Capture, error) {
	capture := &model.Capture{
		Filename:    e.Filename,
		FilePath:    e.FilePath,
		FileSize:    int64(len(e.Data)),
		ContentType: e.ContentType,
		CapturedAt:  e.CapturedAt,
	}

	if s.prober != nil {
		width, height, err := s.prober.Dimensions(e.Data)
		if err != nil {
			s.logger.Warning("Could not read dimensions of %s: %v", e.Filename, err)
		} else {
			capture.Width = width
			capture.Height = height
		}
	}

	previous, err := s.repo.GetByFilename(e.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to look up capture %s: %w", e.Filename, err)
	}
	if previous != nil {
		s.logger.Warning("Capture %s was overwritten (%d -> %d bytes)", e.Filename, previous.FileSize, capture.FileSize)
	}

	id, err := s.repo.Upsert(capture)
	if err != nil {
		return nil, fmt.Errorf("failed to record capture %s: %w", e.Filename, err)
	}
	capture.ID = id

	return capture, nil
}
