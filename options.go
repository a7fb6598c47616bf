package strom

import (
	"github.com/rs/zerolog"

	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
	"github.com/ACiDekCZ/strom-sub000/pkg/merge"
)

// Option is a function that configures a Client.
type Option func(*Client) error

// WithBackupStore replaces the in-memory backup store, e.g. with one backed
// by persistent storage.
func WithBackupStore(store merge.BackupStore) Option {
	return func(c *Client) error {
		if store == nil {
			return errors.NewValidationError("backupStore", nil, "store cannot be nil")
		}
		c.backups = store
		return nil
	}
}

// WithSessionStore replaces the in-memory session store.
func WithSessionStore(store merge.SessionStore) Option {
	return func(c *Client) error {
		if store == nil {
			return errors.NewValidationError("sessionStore", nil, "store cannot be nil")
		}
		c.sessions = store
		return nil
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
