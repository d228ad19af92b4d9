package idgen

import (
	"sync"

	"github.com/google/uuid"
)

// Provider hands out globally unique identifiers.
type Provider interface {
	GenerateID() (uuid.UUID, error)
}

type uuidProvider struct{}

// UUID returns a provider backed by random (v4) UUIDs.
func UUID() Provider { return uuidProvider{} }

func (uuidProvider) GenerateID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// Sequence replays a fixed list of ids, then fails with Err (or falls back to random ids when Err is nil).
type Sequence struct {
	mu  sync.Mutex
	IDs []uuid.UUID
	Err error
}

func (s *Sequence) GenerateID() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.IDs) == 0 {
		if s.Err != nil {
			return uuid.Nil, s.Err
		}
		return uuid.NewRandom()
	}
	id := s.IDs[0]
	s.IDs = s.IDs[1:]
	return id, nil
}
