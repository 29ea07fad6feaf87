package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"captureserver/internal/apperr"
	"captureserver/internal/config"
	"captureserver/internal/dto"
	"captureserver/internal/logger"
	"captureserver/internal/model"
	"captureserver/internal/service/catalog"
	"captureserver/internal/service/storage"
)

// CaptureRecorder indexes a capture once it is on disk.
type CaptureRecorder interface {
	Record(e catalog.Entry) (*model.Capture, error)
}

// UploadHandler accepts a raw JPEG body from a camera, stores it and acknowledges with JSON.
// recorder may be nil when the catalog is disabled.
func UploadHandler(cfg *config.Config, store *storage.Store, recorder CaptureRecorder, logger *logger.Logger) http.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedContentTypes))
	for _, ct := range cfg.AllowedContentTypes {
		allowed[ct] = true
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := handleUpload(w, r, cfg, allowed, store, recorder, logger)
		if err != nil {
			kind := apperr.KindOf(err)
			if kind == apperr.PersistenceFailure {
				logger.Error("Upload failed: %v", err)
			} else {
				logger.Warning("Rejected upload (%s): %v", kind, err)
			}
			writeJSON(w, kind.Status(), dto.Failure(failureMessage(err)), logger)
			return
		}
		writeJSON(w, http.StatusOK, resp, logger)
	}
}

func handleUpload(w http.ResponseWriter, r *http.Request, cfg *config.Config, allowed map[string]bool,
	store *storage.Store, recorder CaptureRecorder, logger *logger.Logger) (dto.UploadResponse, error) {

	contentType := r.Header.Get("Content-Type")
	if !allowed[contentType] {
		return dto.UploadResponse{}, apperr.New(apperr.UnsupportedMediaType,
			fmt.Sprintf("unsupported content type: %s, allowed: %v", contentType, cfg.AllowedContentTypes))
	}

	body := r.Body
	if cfg.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto.UploadResponse{}, apperr.Wrap(apperr.MissingPayload,
				fmt.Sprintf("image exceeds the %d byte limit", tooLarge.Limit), err)
		}
		return dto.UploadResponse{}, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return dto.UploadResponse{}, apperr.New(apperr.MissingPayload, "no image data received")
	}

	saved, err := store.Save(data)
	if err != nil {
		return dto.UploadResponse{}, err
	}
	logger.Info("Image saved: %s (size: %d bytes)", saved.Path, saved.Size)

	if recorder != nil {
		_, err := recorder.Record(catalog.Entry{
			Filename:    saved.Filename,
			FilePath:    saved.Path,
			ContentType: contentType,
			CapturedAt:  saved.At,
			Data:        data,
		})
		if err != nil {
			logger.Warning("Capture stored but not catalogued: %v", err)
		}
	}

	return dto.Success("image uploaded successfully", saved.Filename, saved.Size), nil
}

// failureMessage renders the caller-facing message for a failed upload.
func failureMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.PersistenceFailure {
		return e.Error()
	}
	return "server error: " + err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
