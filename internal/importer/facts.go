package importer

import (
	"context"
	"fmt"
)

// FactStore is the durable key/value store recording import state.
type FactStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error
}

// Fact is what the store remembers about one source.
type Fact struct {
	Imported bool   `json:"imported"`
	Checksum string `json:"checksum"`
}

// ConfigurationKey is the "was imported" flag key of a bundle.
func ConfigurationKey(bundleID string) string {
	return fmt.Sprintf("bookmark.import.%s", bundleID)
}

// ChecksumKey holds the fingerprint of the last parsed file.
func ChecksumKey(bundleID string) string {
	return ConfigurationKey(bundleID) + ".checksum"
}

// LoadFact reads both keys of a bundle.
func LoadFact(ctx context.Context, store FactStore, bundleID string) (Fact, error) {
	imported, err := store.GetBool(ctx, ConfigurationKey(bundleID))
	if err != nil {
		return Fact{}, fmt.Errorf("failed to read import flag: %w", err)
	}
	checksum, err := store.GetString(ctx, ChecksumKey(bundleID))
	if err != nil {
		return Fact{}, fmt.Errorf("failed to read checksum: %w", err)
	}
	return Fact{Imported: imported, Checksum: checksum}, nil
}

// SaveFact writes the checksum first so a crash in between leaves the
// source flagged as not imported and it simply runs again.
func SaveFact(ctx context.Context, store FactStore, bundleID string, fact Fact) error {
	if err := store.SetString(ctx, ChecksumKey(bundleID), fact.Checksum); err != nil {
		return fmt.Errorf("failed to save checksum: %w", err)
	}
	if err := store.SetString(ctx, ConfigurationKey(bundleID), fmt.Sprint(fact.Imported)); err != nil {
		return fmt.Errorf("failed to save import flag: %w", err)
	}
	return nil
}
