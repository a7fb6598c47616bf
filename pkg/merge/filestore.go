package merge

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
)

// FileStore is a BackupStore that writes each snapshot as a YAML file in
// one directory, so rollback points survive the process. Keys map to file
// names; the directory is created on first use.
type FileStore struct {
	dir string
}

// Compile-time interface check.
var _ BackupStore = (*FileStore)(nil)

// NewFileStore creates a file-backed backup store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".yaml")
}

// Create writes a snapshot of the tree to a fresh file and returns its key.
func (fs *FileStore) Create(_ context.Context, tree *gentree.Tree) (string, error) {
	if tree == nil {
		return "", errors.NewBackupError("create", "", errors.ErrInvalidInput)
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return "", errors.NewBackupError("create", "", err)
	}

	key := uuid.NewString()
	data, err := yaml.Marshal(tree.Document())
	if err != nil {
		return "", errors.NewBackupError("create", key, err)
	}
	if err := os.WriteFile(fs.path(key), data, 0o644); err != nil {
		return "", errors.NewBackupError("create", key, err)
	}
	return key, nil
}

// Restore reads the snapshot stored under key.
func (fs *FileStore) Restore(_ context.Context, key string) (*gentree.Tree, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBackupError("restore", key, errors.ErrBackupMissing)
		}
		return nil, errors.NewBackupError("restore", key, err)
	}

	var doc gentree.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewBackupError("restore", key, err)
	}
	tree, err := gentree.FromDocument(&doc)
	if err != nil {
		return nil, errors.NewBackupError("restore", key, err)
	}
	return tree, nil
}

// Delete removes the snapshot under key. A missing snapshot is a no-op.
func (fs *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewBackupError("delete", key, err)
	}
	return nil
}

// Keys lists the keys of all stored snapshots.
func (fs *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewBackupError("list", "", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".yaml"))
	}
	return keys, nil
}
