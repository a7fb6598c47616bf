package merge

import (
	"context"

	"github.com/goccy/go-yaml"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/match"
)

// SessionStore is the async persistence collaborator used to park an
// in-progress review and resume it later. Implementations only need opaque
// byte storage.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// sessionDoc is the serialized form of a review session. Matches are not
// stored; they are reproduced deterministically by re-running analysis over
// the stored snapshots and replaying decisions.
type sessionDoc struct {
	Version     int                              `yaml:"version"`
	Phase       Phase                            `yaml:"phase"`
	Existing    *gentree.Document                `yaml:"existing"`
	Incoming    *gentree.Document                `yaml:"incoming"`
	Decisions   map[string]Decision              `yaml:"decisions,omitempty"`
	Resolutions map[string][]match.FieldConflict `yaml:"resolutions,omitempty"`
}

// SaveSession serializes the state under key so the review can be resumed
// later with LoadSession.
func SaveSession(ctx context.Context, store SessionStore, key string, state *State) error {
	doc := sessionDoc{
		Version:     state.version,
		Phase:       state.phase,
		Existing:    state.existing.Document(),
		Incoming:    state.incoming.Document(),
		Decisions:   state.decisions,
		Resolutions: state.conflicts,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return errors.WrapIO("write", key, err)
	}
	return nil
}

// LoadSession restores a review session saved with SaveSession: the graphs
// are rebuilt, analysis re-runs, and the saved decisions and conflict
// resolutions are replayed on top.
func LoadSession(ctx context.Context, store SessionStore, key string) (*State, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, errors.WrapIO("read", key, err)
	}

	var doc sessionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", key, err)
	}

	existing, err := gentree.FromDocument(doc.Existing)
	if err != nil {
		return nil, errors.WrapParse("yaml", key, err)
	}
	incoming, err := gentree.FromDocument(doc.Incoming)
	if err != nil {
		return nil, errors.WrapParse("yaml", key, err)
	}

	state := NewState(existing, incoming)
	for incomingID, decision := range doc.Decisions {
		state.UpdateDecision(incomingID, decision)
	}
	state.Reanalyze()
	for incomingID, conflicts := range doc.Resolutions {
		for _, c := range conflicts {
			state.UpdateConflictResolution(incomingID, c.Field, c.Resolution, c.ResolvedValue)
		}
	}
	state.phase = doc.Phase
	return state, nil
}

// MemorySessionStore is an in-memory SessionStore for tests and single
// process use.
type MemorySessionStore struct {
	sessions map[string][]byte
}

// Compile-time interface check.
var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]byte)}
}

// Get returns the bytes stored under key.
func (ms *MemorySessionStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := ms.sessions[key]
	if !ok {
		return nil, errors.NewNotFoundError("session", key)
	}
	return data, nil
}

// Set stores bytes under key.
func (ms *MemorySessionStore) Set(_ context.Context, key string, data []byte) error {
	ms.sessions[key] = data
	return nil
}

// Delete removes the bytes under key.
func (ms *MemorySessionStore) Delete(_ context.Context, key string) error {
	delete(ms.sessions, key)
	return nil
}
