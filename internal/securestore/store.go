package securestore

import (
	"context"
	"encoding/json"

	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/metrics"
)

// DefaultSlot is the slot name of the cart blob.
const DefaultSlot = "vCart"

// KeyValue is the persistent key-value storage the store writes through.
type KeyValue interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// Store loads and saves cart line items as one encrypted slot.
// Failures are logged and absorbed; nothing here is fatal to callers.
type Store struct {
	kv      KeyValue
	codec   *Codec
	slot    string
	metrics *metrics.Metrics
}

func NewStore(kv KeyValue, codec *Codec, slot string, m *metrics.Metrics) *Store {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Store{kv: kv, codec: codec, slot: slot, metrics: m}
}

// SessionSlot namespaces the cart slot for one browser session.
func SessionSlot(sid string) string { return DefaultSlot + ":" + sid }

// Slot returns a Store bound to another slot with the same backend and key.
func (s *Store) Slot(slot string) *Store {
	return NewStore(s.kv, s.codec, slot, s.metrics)
}

// Load returns the persisted items, or an empty slice when the slot is
// absent, undecryptable or undecodable.
func (s *Store) Load(ctx context.Context) []domain.CartLineItem {
	items, err := s.load(ctx)
	if err != nil {
		s.metrics.PersistenceFailure("load")
		applog.Error(nil, "cart.load.fail", err, map[string]any{"slot": s.slot})
		return []domain.CartLineItem{}
	}
	return items
}

func (s *Store) load(ctx context.Context) ([]domain.CartLineItem, error) {
	blob, ok, err := s.kv.GetValue(ctx, s.slot)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	if !ok {
		return []domain.CartLineItem{}, nil
	}
	plain, err := s.codec.Open(blob)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "decrypt", Err: err}
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal(plain, &items); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Err: err}
	}
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return items, nil
}

// Save overwrites the slot with items. The error is returned for callers
// that care; mutators ignore it since in-memory state stays authoritative.
func (s *Store) Save(ctx context.Context, items []domain.CartLineItem) error {
	err := s.save(ctx, items)
	if err != nil {
		s.metrics.PersistenceFailure("save")
		applog.Error(nil, "cart.save.fail", err, map[string]any{"slot": s.slot, "items": len(items)})
	}
	return err
}

func (s *Store) save(ctx context.Context, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	plain, err := json.Marshal(items)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Err: err}
	}
	blob, err := s.codec.Seal(plain)
	if err != nil {
		return &domain.PersistenceError{Op: "encrypt", Err: err}
	}
	if err := s.kv.SetValue(ctx, s.slot, blob); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	return nil
}
