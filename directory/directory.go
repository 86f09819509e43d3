// Package directory resolves client and project ids for display. Folio
// stores only the ids; names and addresses always come from here.
package directory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Client is a billed party.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Project groups invoices for a client.
type Project struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// Directory looks up clients and projects. Lookups of unknown ids return
// (nil, nil).
type Directory interface {
	Client(ctx context.Context, clientID string) (*Client, error)
	Project(ctx context.Context, projectID string) (*Project, error)
}

// Static is a Directory backed by maps.
type Static struct {
	mu       sync.RWMutex
	clients  map[string]Client
	projects map[string]Project
}

// NewStatic creates an empty Static directory.
func NewStatic() *Static {
	return &Static{
		clients:  make(map[string]Client),
		projects: make(map[string]Project),
	}
}

// AddClient registers or replaces a client.
func (s *Static) AddClient(c Client) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return s
}

// AddProject registers or replaces a project. Its client must already be
// registered.
func (s *Static) AddProject(p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[p.ClientID]; !ok {
		return errors.Newf("directory: project %s references unknown client %s", p.ID, p.ClientID)
	}
	s.projects[p.ID] = p
	return nil
}

func (s *Static) Client(_ context.Context, clientID string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.clients[clientID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Static) Project(_ context.Context, projectID string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.projects[projectID]; ok {
		return &p, nil
	}
	return nil, nil
}

// Empty is a Directory that knows nobody.
type Empty struct{}

func (Empty) Client(context.Context, string) (*Client, error)   { return nil, nil }
func (Empty) Project(context.Context, string) (*Project, error) { return nil, nil }
