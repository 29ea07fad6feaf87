package route

import (
	"net/http"

	"captureserver/internal/config"
	"captureserver/internal/handler"
	"captureserver/internal/logger"
	"captureserver/internal/service/storage"
)

// SetupRoutes registers the camera upload endpoint.
func SetupRoutes(cfg *config.Config, store *storage.Store, recorder handler.CaptureRecorder, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload", handler.UploadHandler(cfg, store, recorder, logger))

	return mux
}
