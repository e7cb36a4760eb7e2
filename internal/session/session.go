// Package session provides the current viewer identity.
package session

import (
	"strings"
	"sync"

	"github.com/rshade/listmembers/internal/domain"
)

// Provider returns the signed-in viewer, or nil when signed out.
type Provider interface {
	CurrentViewer() *domain.Viewer
}

// Static is a Provider whose viewer can be replaced at runtime.
type Static struct {
	mu     sync.RWMutex
	viewer *domain.Viewer
}

// NewStatic returns a Provider for the given identity. An empty id means signed out.
func NewStatic(id, handle string) *Static {
	s := &Static{}
	s.SignIn(id, handle)
	return s
}

// CurrentViewer returns a copy of the viewer, or nil when signed out.
func (s *Static) CurrentViewer() *domain.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewer == nil {
		return nil
	}
	v := *s.viewer
	return &v
}

// SignIn replaces the current viewer. An empty id signs out.
func (s *Static) SignIn(id, handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = strings.TrimSpace(id)
	if id == "" {
		s.viewer = nil
		return
	}
	s.viewer = &domain.Viewer{ID: id, Handle: strings.TrimPrefix(strings.TrimSpace(handle), "@")}
}

// SignOut clears the current viewer.
func (s *Static) SignOut() {
	s.SignIn("", "")
}
