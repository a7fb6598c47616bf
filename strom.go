// Package strom is a record-linkage and dataset-merge engine for
// genealogical data. Given an existing family graph and an incoming one, it
// proposes person-identity matches, lets a reviewer confirm or override
// them, and executes a transactional merge that yields a single consistent
// graph without ever corrupting the caller's original data.
//
// The Client is a thin facade over the engine packages:
//
//	client, _ := strom.New()
//	state := client.NewState(existing, incoming)
//	state.UpdateDecision(id, merge.Decision{Kind: merge.DecisionConfirm})
//	result := client.ExecuteMerge(ctx, state)
package strom

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ACiDekCZ/strom-sub000/pkg/gentree"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
	"github.com/ACiDekCZ/strom-sub000/pkg/merge"
)

// Client wires the merge engine to its collaborators: a backup store for
// rollback points and an optional session store for parking reviews.
type Client struct {
	backups  merge.BackupStore
	sessions merge.SessionStore
	logger   *zerolog.Logger
}

// New creates a Client with the given options. Without options the client
// uses in-memory stores and the default logger.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		backups:  merge.NewMemoryStore(),
		sessions: merge.NewMemorySessionStore(),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewState snapshots both graphs, runs analysis, and returns a state ready
// for review.
func (c *Client) NewState(existing, incoming *gentree.Tree) *merge.State {
	return merge.NewState(existing, incoming)
}

// ExecuteMerge consumes the state and returns the merge outcome. On failure
// the result carries the original existing graph, untouched.
func (c *Client) ExecuteMerge(ctx context.Context, state *merge.State) *merge.ExecResult {
	return merge.NewExecutor(c.backups).Execute(ctx, state)
}

// CreateBackup snapshots a tree and returns its rollback key.
func (c *Client) CreateBackup(ctx context.Context, tree *gentree.Tree) (string, error) {
	return c.backups.Create(ctx, tree)
}

// RestoreBackup returns the tree stored under key.
func (c *Client) RestoreBackup(ctx context.Context, key string) (*gentree.Tree, error) {
	return c.backups.Restore(ctx, key)
}

// DeleteBackup removes the rollback point under key.
func (c *Client) DeleteBackup(ctx context.Context, key string) error {
	return c.backups.Delete(ctx, key)
}

// SaveSession parks an in-progress review under key.
func (c *Client) SaveSession(ctx context.Context, key string, state *merge.State) error {
	return merge.SaveSession(ctx, c.sessions, key, state)
}

// LoadSession resumes a review parked with SaveSession.
func (c *Client) LoadSession(ctx context.Context, key string) (*merge.State, error) {
	return merge.LoadSession(ctx, c.sessions, key)
}
