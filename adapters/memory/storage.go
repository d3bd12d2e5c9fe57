package memory

import (
	"context"
	"sync"

	"lifesystem/core"
)

// DefaultSlot is the slot used by New.
const DefaultSlot = "lifeSystemData"

// Store is a concurrent in-memory Storage implementation. Stores returned by
// Slot share the same backing map.
type Store struct {
	slots *sync.Map // map[string][]byte
	slot  string
}

func New() *Store { return &Store{slots: &sync.Map{}, slot: DefaultSlot} }

// Slot returns a view of the same memory keyed by another slot name.
func (s *Store) Slot(name string) *Store { return &Store{slots: s.slots, slot: name} }

func (s *Store) Load(_ context.Context) ([]byte, error) {
	v, ok := s.slots.Load(s.slot)
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v.([]byte)...), nil
}

func (s *Store) Save(_ context.Context, data []byte) error {
	s.slots.Store(s.slot, append([]byte(nil), data...))
	return nil
}

var _ interface {
	Load(context.Context) ([]byte, error)
	Save(context.Context, []byte) error
} = (*Store)(nil)
