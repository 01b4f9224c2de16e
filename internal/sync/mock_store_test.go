package sync

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// mockStore is a minimal in-memory registry for sync tests.
type mockStore struct {
	store.LinkRegistry // embed to satisfy the full interface
	sets               map[string]*model.LinkSet
	err                error
}

func newMockStore() *mockStore {
	return &mockStore{sets: make(map[string]*model.LinkSet)}
}

// ListLinks returns the sets in map order; ExportJSONL sorts them.
func (m *mockStore) ListLinks(_ context.Context) ([]*model.LinkSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.LinkSet, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s)
	}
	return out, nil
}

var errBoom = errors.New("boom")
