package web

import (
	"net/http"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/service"
)

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Journal.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "entries": entries})
}

func (s *Server) handleCreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxJournalPhotos*maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	var uploads []service.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["photos"] {
			// The MaxBytesReader cap above is aggregate; each file also
			// carries its own limit.
			if header.Size > maxUploadBytes {
				writeError(w, http.StatusBadRequest, "File too large")
				return
			}
			file, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid upload")
				return
			}
			defer file.Close()
			uploads = append(uploads, service.Upload{Name: header.Filename, Data: file})
		}
	}

	entry, err := s.services.Journal.Create(r.Context(), identity.ID, service.JournalInput{
		Title:   r.FormValue("title"),
		Date:    r.FormValue("date"),
		Plan:    r.FormValue("plan"),
		Journal: r.FormValue("journal"),
	}, uploads)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Journal entry created successfully",
		"entry":   entry,
	})
}

func (s *Server) handleGetJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	entry, photos, err := s.services.Journal.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entry":   entry,
		"photos":  photos,
	})
}

func (s *Server) handleUpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var in service.JournalInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.services.Journal.Update(r.Context(), id, in); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Entry updated successfully"})
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.services.Journal.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Entry deleted successfully"})
}
