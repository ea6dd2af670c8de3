package web

import (
	"net/http"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/service"
)

func (s *Server) handleListBucket(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Bucket.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

func (s *Server) handleCreateBucketItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var in service.BucketInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item, err := s.services.Bucket.Create(r.Context(), identity.ID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Bucket item created successfully",
		"item":    item,
	})
}

func (s *Server) handleCompleteBucketItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.services.Bucket.Complete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item marked as complete"})
}

func (s *Server) handleDeleteBucketItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.services.Bucket.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item deleted successfully"})
}
