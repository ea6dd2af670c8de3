package web

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/blobstore"
	"github.com/mkalisz/keepsake/internal/realtime"
	"github.com/mkalisz/keepsake/internal/service"
)

// Services bundles the per-resource services the server routes to.
type Services struct {
	Auth    *service.AuthService
	Gallery *service.GalleryService
	Stories *service.StoryService
	Notes   *service.NoteService
	Albums  *service.AlbumService
	Letters *service.LetterService
	Bucket  *service.BucketService
	Journal *service.JournalService
}

type Server struct {
	services   Services
	hub        *realtime.Hub
	blobs      blobstore.Store
	tokens     *auth.Tokens
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	httpServer *http.Server
}

func NewServer(svcs Services, hub *realtime.Hub, blobs blobstore.Store, tokens *auth.Tokens, clientOrigin string, logger *slog.Logger) *Server {
	s := &Server{
		services: svcs,
		hub:      hub,
		blobs:    blobs,
		tokens:   tokens,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.registerRoutes()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{clientOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	s.handler = requestLogger(logger, cors(s.mux))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /ws", s.handleWebsocket)
	s.mux.HandleFunc("GET /uploads/{filename}", s.handleServeUpload)

	gate := auth.Middleware(s.tokens)
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/auth/me", s.handleMe)

	protected.HandleFunc("GET /api/gallery", s.handleListPhotos)
	protected.HandleFunc("POST /api/gallery/upload", s.handleUploadPhoto)
	protected.HandleFunc("DELETE /api/gallery/{id}", s.handleDeletePhoto)

	protected.HandleFunc("GET /api/stories", s.handleListStories)
	protected.HandleFunc("POST /api/stories/create", s.handleCreateStory)
	protected.HandleFunc("PUT /api/stories/{id}", s.handleUpdateStory)
	protected.HandleFunc("DELETE /api/stories/{id}", s.handleDeleteStory)

	protected.HandleFunc("GET /api/notes", s.handleListNotes)
	protected.HandleFunc("POST /api/notes/create", s.handleCreateNote)
	protected.HandleFunc("PUT /api/notes/{id}", s.handleUpdateNote)
	protected.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)

	protected.HandleFunc("GET /api/albums", s.handleListAlbums)
	protected.HandleFunc("POST /api/albums/create", s.handleCreateAlbum)
	protected.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)
	protected.HandleFunc("POST /api/albums/{id}/photos", s.handleAddAlbumPhoto)
	protected.HandleFunc("DELETE /api/albums/{id}", s.handleDeleteAlbum)

	protected.HandleFunc("GET /api/letters", s.handleListLetters)
	protected.HandleFunc("GET /api/letters/type/{type}", s.handleListLettersByType)
	protected.HandleFunc("POST /api/letters/create", s.handleCreateLetter)
	protected.HandleFunc("PUT /api/letters/{id}", s.handleUpdateLetter)
	protected.HandleFunc("DELETE /api/letters/{id}", s.handleDeleteLetter)

	protected.HandleFunc("GET /api/bucket", s.handleListBucket)
	protected.HandleFunc("POST /api/bucket/create", s.handleCreateBucketItem)
	protected.HandleFunc("PATCH /api/bucket/{id}/complete", s.handleCompleteBucketItem)
	protected.HandleFunc("DELETE /api/bucket/{id}", s.handleDeleteBucketItem)

	protected.HandleFunc("GET /api/journal", s.handleListJournal)
	protected.HandleFunc("POST /api/journal/create", s.handleCreateJournalEntry)
	protected.HandleFunc("GET /api/journal/{id}", s.handleGetJournalEntry)
	protected.HandleFunc("PUT /api/journal/{id}", s.handleUpdateJournalEntry)
	protected.HandleFunc("DELETE /api/journal/{id}", s.handleDeleteJournalEntry)

	s.mux.Handle("/api/", gate(protected))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "API is running"})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
// It forwards Hijack and Flush so websocket upgrades and streaming still work
// through the logged chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
