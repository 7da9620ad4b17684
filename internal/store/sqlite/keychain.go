package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Sealer encrypts values before they are written.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// Keychain stores sealed passwords in the secrets table.
type Keychain struct {
	db     *sql.DB
	sealer Sealer
}

// Keychain returns a keychain sharing the store's database.
func (s *Store) Keychain(sealer Sealer) *Keychain {
	return &Keychain{db: s.db, sealer: sealer}
}

// Put stores or replaces the password of a login.
func (k *Keychain) Put(ctx context.Context, scheme string, port int, hostname, username, password string) error {
	sealed, err := k.sealer.Seal(password)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}
	_, err = k.db.ExecContext(ctx, `
		INSERT INTO secrets (scheme, hostname, port, username, sealed, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(scheme, hostname, port, username) DO UPDATE SET sealed = excluded.sealed, updated_at = excluded.updated_at`,
		scheme, strings.ToLower(hostname), port, username, sealed, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}
