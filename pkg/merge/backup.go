package merge

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

// BackupStore persists graph snapshots so a merge can be rolled back.
// Operations are awaited and non-cancelable from the engine's point of
// view; callers may retry on failure. Multiple keys may coexist, giving
// several rollback points across repeated merge attempts.
type BackupStore interface {
	// Create stores a snapshot of the tree and returns its key.
	Create(ctx context.Context, tree *gentree.Tree) (string, error)

	// Restore returns the tree stored under key. A missing key yields an
	// error matching errors.ErrBackupMissing.
	Restore(ctx context.Context, key string) (*gentree.Tree, error)

	// Delete removes the snapshot under key. Deleting a missing key is a
	// no-op.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-memory BackupStore. Snapshots are deep copied on
// both store and restore, so callers can never mutate a backup in place.
type MemoryStore struct {
	mu      sync.RWMutex
	backups map[string]*gentree.Tree
}

// Compile-time interface check.
var _ BackupStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory backup store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{backups: make(map[string]*gentree.Tree)}
}

// Create stores a deep copy of the tree under a fresh key.
func (ms *MemoryStore) Create(_ context.Context, tree *gentree.Tree) (string, error) {
	if tree == nil {
		return "", errors.NewBackupError("create", "", errors.ErrInvalidInput)
	}
	key := uuid.NewString()

	ms.mu.Lock()
	ms.backups[key] = tree.Copy()
	ms.mu.Unlock()

	return key, nil
}

// Restore returns a deep copy of the snapshot under key.
func (ms *MemoryStore) Restore(_ context.Context, key string) (*gentree.Tree, error) {
	ms.mu.RLock()
	tree, ok := ms.backups[key]
	ms.mu.RUnlock()

	if !ok {
		return nil, errors.NewBackupError("restore", key, errors.ErrBackupMissing)
	}
	return tree.Copy(), nil
}

// Delete removes the snapshot under key, if present.
func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.backups, key)
	ms.mu.Unlock()
	return nil
}

// Len returns the number of stored snapshots.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.backups)
}
