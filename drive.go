package driveway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/driveway/driveway/credentials"
)

// Defaults mirror the upload endpoint's permissive request contract: an
// empty body still produces a file.
const (
	defaultUploadContent  = "Hello from driveway!"
	defaultUploadFilename = "example.txt"
)

type uploadRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// handleDriveUpload uploads a file to the user's Drive using a valid access
// token, refreshing it first if needed.
func (s *Service) handleDriveUpload(w http.ResponseWriter, r *http.Request) {
	token, err := s.manager.AccessToken(r.Context())
	if err != nil {
		s.writeTokenError(w, err)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid JSON body"})
		return
	}
	if req.Content == "" {
		req.Content = defaultUploadContent
	}
	if req.Filename == "" {
		req.Filename = defaultUploadFilename
	}

	file, err := s.uploader.Upload(r.Context(), token, req.Filename, req.Content)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			writeJSON(w, gerr.Code, map[string]any{"success": false, "error": gerr.Message})
			return
		}
		s.logger.Error("drive upload failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": "upload failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"file_id":   file.ID,
		"file_name": file.Name,
		"message":   "File uploaded successfully",
	})
}

// writeTokenError maps a failed token acquisition onto the upload endpoint's
// responses. Absence and a rejected refresh both mean the user has to go
// through the authorization flow again.
func (s *Service) writeTokenError(w http.ResponseWriter, err error) {
	var rej *credentials.RejectionError
	switch {
	case errors.Is(err, credentials.ErrNoCredential), errors.As(err, &rej):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Please login first via /auth/google",
		})
	default:
		var te *credentials.TransportError
		if errors.As(err, &te) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"success": false,
				"error":   "token refresh failed, try again",
			})
			return
		}
		s.logger.Error("token acquisition failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "internal error",
		})
	}
}
