// Package state implements the client-facing optimistic mutation protocol:
// apply a tentative value immediately, then commit the canonical result or
// roll back to the captured pre-image when persistence fails.
package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
)

// MutationState tracks a pending mutation through the
// Idle -> Pending -> Committed|RolledBack machine
type MutationState string

const (
	MutationPending    MutationState = "pending"
	MutationCommitted  MutationState = "committed"
	MutationRolledBack MutationState = "rolled_back"
)

type mutation struct {
	// preImage is nil when the mutation optimistically created the entity
	preImage *models.Project
	state    MutationState
}

// Store holds the in-memory project view the UI renders from. One in-flight
// mutation per project; concurrent edits from other sessions are not
// reconciled here (last write wins at the storage layer)
type Store struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	pending  map[string]*mutation
	logger   zerolog.Logger
}

func NewStore() *Store {
	return &Store{
		projects: make(map[string]*models.Project),
		pending:  make(map[string]*mutation),
		logger:   log.With().Str("serviceName", "stateStore").Logger(),
	}
}

// Load replaces the view with freshly fetched projects. Pending mutations
// survive a reload only as a rollback target, so refuse while any are open
func (s *Store) Load(projects []*models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) > 0 {
		return errs.NewConflictError("cannot reload state while mutations are pending")
	}
	s.projects = make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		s.projects[p.ID] = cloneProject(p)
	}
	return nil
}

// Get returns a copy of the viewed project, or nil when absent
func (s *Store) Get(id string) *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProject(s.projects[id])
}

// List returns copies of every viewed project
func (s *Store) List() []*models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

// Begin captures a deep-copied pre-image of the project and applies the
// optimistic value so the UI reflects the mutation before persistence
// confirms it. A nil optimistic value is an optimistic delete
func (s *Store) Begin(id string, optimistic *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.pending[id]; ok && m.state == MutationPending {
		return errs.NewConflictError(fmt.Sprintf("a mutation is already in flight for project %s", id))
	}

	s.pending[id] = &mutation{
		preImage: cloneProject(s.projects[id]),
		state:    MutationPending,
	}
	if optimistic == nil {
		delete(s.projects, id)
	} else {
		s.projects[id] = cloneProject(optimistic)
	}
	return nil
}

// Commit reconciles the optimistic value with the canonical one returned by
// the repository (server-assigned identifiers, normalized fields, fresh
// timestamps). A nil canonical value commits a delete
func (s *Store) Commit(id string, canonical *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.pending[id]
	if !ok || m.state != MutationPending {
		return errs.NewConflictError(fmt.Sprintf("no pending mutation for project %s", id))
	}

	if canonical == nil {
		delete(s.projects, id)
	} else {
		s.projects[id] = cloneProject(canonical)
		if canonical.ID != id {
			// create flows commit under the provisional id; re-key to the
			// server-assigned one
			delete(s.projects, id)
			s.projects[canonical.ID] = cloneProject(canonical)
		}
	}
	m.state = MutationCommitted
	delete(s.pending, id)
	return nil
}

// Rollback restores the pre-image captured by Begin and returns the
// user-facing message for the failure that triggered it
func (s *Store) Rollback(id string, cause error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.pending[id]
	if !ok || m.state != MutationPending {
		return "", errs.NewConflictError(fmt.Sprintf("no pending mutation for project %s", id))
	}

	if m.preImage == nil {
		delete(s.projects, id)
	} else {
		s.projects[id] = m.preImage
	}
	m.state = MutationRolledBack
	delete(s.pending, id)

	s.logger.Warn().Err(cause).Str("projectId", id).Msg("rolled back optimistic mutation")
	return SanitizeError(cause), nil
}

// Pending reports whether a mutation is in flight for the project
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pending[id]
	return ok && m.state == MutationPending
}

// cloneProject deep-copies via the JSON shape so rollback is a pure data
// restore
func cloneProject(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		copied := *p
		return &copied
	}
	var out models.Project
	if err := json.Unmarshal(raw, &out); err != nil {
		copied := *p
		return &copied
	}
	return &out
}
