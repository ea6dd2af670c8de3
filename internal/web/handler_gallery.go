package web

import (
	"io"
	"net/http"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/service"
)

// maxUploadBytes caps a single multipart upload at 10MB.
const maxUploadBytes = 10 << 20

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.services.Gallery.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "photos": photos})
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No photo uploaded")
		return
	}
	defer file.Close()

	photo, err := s.services.Gallery.Upload(r.Context(), identity.ID, service.PhotoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		PhotoDate:   r.FormValue("photoDate"),
	}, service.Upload{Name: header.Filename, Data: file})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Photo uploaded successfully",
		"photo":   photo,
	})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.services.Gallery.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Photo deleted"})
}

func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	rc, mimeType, err := s.blobs.Open(r.Context(), r.PathValue("filename"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("failed to stream upload", "filename", r.PathValue("filename"), "error", err)
	}
}
