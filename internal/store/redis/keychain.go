package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Sealer encrypts values before they are written.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// Keychain stores sealed passwords keyed by login
type Keychain struct {
	client *redis.Client
	sealer Sealer
}

// NewKeychain creates a keychain sealing passwords with sealer
func NewKeychain(client *redis.Client, sealer Sealer) *Keychain {
	return &Keychain{
		client: client,
		sealer: sealer,
	}
}

// Put stores the password of username@hostname:port for scheme.
// A later Put for the same login replaces the previous password.
func (k *Keychain) Put(ctx context.Context, scheme string, port int, hostname, username, password string) error {
	sealed, err := k.sealer.Seal(password)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}
	if err := k.client.Set(ctx, SecretKey(scheme, port, hostname, username), sealed, 0).Err(); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}
