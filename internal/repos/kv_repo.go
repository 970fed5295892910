package repos

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// KVRepo stores string slots in the kv_slots table.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) GetValue(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db.GetContext(ctx, &v, `SELECT value FROM kv_slots WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *KVRepo) SetValue(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_slots(key, value, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// MemoryKV is a process-local slot store, used when STORE_BACKEND=memory
// and as a fake in tests.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryKV() *MemoryKV { return &MemoryKV{slots: map[string]string{}} }

func (m *MemoryKV) GetValue(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *MemoryKV) SetValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}
