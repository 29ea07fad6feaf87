package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// UploadResponse is the JSON acknowledgment sent back to the camera.
// Filename and FileSize are only present on success.
type UploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	FileSize *int64 `json:"file_size,omitempty"`
}

func Success(message, filename string, size int64) UploadResponse {
	return UploadResponse{
		Status:   StatusSuccess,
		Message:  message,
		Filename: filename,
		FileSize: &size,
	}
}

func Failure(message string) UploadResponse {
	return UploadResponse{Status: StatusError, Message: message}
}
