package model

import "time"

// Capture represents a stored camera image record.
type Capture struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	FilePath    string    `json:"filepath"`
	FileSize    int64     `json:"filesize"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CapturedAt  time.Time `json:"captured_at"`
}
