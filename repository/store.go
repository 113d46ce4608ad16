package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fastygo/nexus/domain"
)

// Record keys shared by every backend.
const (
	KeyUsers      = "nexus_users_db"
	KeySession    = "nexus_session_user"
	KeyTasks      = "nexus_tasks"
	KeyActivities = "nexus_activities"
)

// KeyValueStore persists string-keyed blobs. Get returns domain.ErrRecordNotFound on a miss
// and Remove is idempotent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// LoadJSON decodes the record stored under key into dst. It reports false when the key is absent.
func LoadJSON(ctx context.Context, store KeyValueStore, key string, dst interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, domain.WrapError(domain.ErrCodeInternal, "decode "+key, err)
	}
	return true, nil
}

// SaveJSON encodes value and writes it under key.
func SaveJSON(ctx context.Context, store KeyValueStore, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, payload)
}
