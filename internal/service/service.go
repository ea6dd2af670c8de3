// Package service holds one service per resource kind. A service validates
// input, persists through its store, and publishes exactly one event per
// successful mutation. Events are published after the write commits and
// before the handler responds; a publish can never fail the request.
package service

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/mkalisz/keepsake/internal/realtime"
)

// eventPublisher is the slice of realtime.Hub the services need.
type eventPublisher interface {
	Publish(realtime.Event)
}

// ErrNotFound marks a referenced row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned for a failed login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports missing or empty required input. Its message is
// shown to the user as-is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// allowedImageExt reports whether ext (with leading dot) is an accepted
// upload type.
func allowedImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

func imageExt(filename string) (string, error) {
	ext := filepath.Ext(filename)
	if !allowedImageExt(ext) {
		return "", ValidationError("Only image files are allowed")
	}
	return strings.ToLower(ext), nil
}
