package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aguli-tv/aguli-admin/internal/aguli"
)

const maxJSONBytes = 1 << 20

// response mirrors the backend's envelope so the dashboard handles both alike.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeBackendError reports a failed Aguli call. Input the client rejected
// maps to 400, a backend 404 to 404, and anything else to 502.
func (s *Server) writeBackendError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	status := http.StatusBadGateway
	message := "aguli backend request failed"
	var apiErr *aguli.APIError
	switch {
	case errors.Is(err, aguli.ErrInvalid):
		status = http.StatusBadRequest
		message = strings.TrimPrefix(err.Error(), "aguli: ")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		status = http.StatusNotFound
		message = apiErr.Message
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			message = apiErr.Message
		}
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
		message = "request cancelled"
	}
	if status != http.StatusBadRequest {
		s.metrics.BackendError(resource)
	}
	s.logger.FromContext(r.Context()).WithCategory("aguli").WithFields(map[string]any{
		"resource": resource,
		"status":   status,
	}).Warn(err.Error())
	writeError(w, status, message)
}

// readUpload returns the file posted under field, or nil when the field is
// absent. Files larger than limit are rejected.
func readUpload(r *http.Request, field string, limit int64) (*aguli.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()
	data, err := readLimited(file, header, limit)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &aguli.Upload{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

var errFileTooLarge = errors.New("file too large")

func readLimited(file multipart.File, header *multipart.FileHeader, limit int64) ([]byte, error) {
	if header.Size > limit {
		return nil, errFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errFileTooLarge
	}
	return data, nil
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.Is(err, errFileTooLarge) || errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
