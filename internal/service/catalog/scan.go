package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"captureserver/internal/model"
	"captureserver/internal/service/storage"
)

// ScanResult lists catalog rows rebuilt from a save directory.
type ScanResult struct {
	Captures []model.Capture
	Skipped  []string
}

// ScanDirectory rebuilds catalog rows from the capture files in dir.
// Files whose names do not follow the capture pattern are reported in Skipped.
func ScanDirectory(dir string, prober Prober, loc *time.Location) (*ScanResult, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	result := &ScanResult{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		capturedAt, err := storage.ParseFilename(file.Name(), loc)
		if err != nil {
			result.Skipped = append(result.Skipped, file.Name())
			continue
		}

		fullpath := filepath.Join(dir, file.Name())
		capture := model.Capture{
			Filename:    file.Name(),
			FilePath:    fullpath,
			ContentType: "image/jpeg",
			CapturedAt:  capturedAt,
		}

		if prober != nil {
			data, err := os.ReadFile(fullpath)
			if err != nil {
				result.Skipped = append(result.Skipped, file.Name())
				continue
			}
			capture.FileSize = int64(len(data))
			if width, height, err := prober.Dimensions(data); err == nil {
				capture.Width = width
				capture.Height = height
			}
		} else {
			info, err := file.Info()
			if err != nil {
				result.Skipped = append(result.Skipped, file.Name())
				continue
			}
			capture.FileSize = info.Size()
		}

		result.Captures = append(result.Captures, capture)
	}

	return result, nil
}
