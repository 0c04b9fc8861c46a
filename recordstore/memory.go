package recordstore

import (
	"context"
	"sync"

	"snowhub/models"
)

// MemoryStore is an in-process record store for local development and
// tests. Field-level updates are independent per field, matching the
// durable implementation's upsert semantics.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[Key]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[Key]Item)}
}

func copyItem(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (m *MemoryStore) table(name string) map[Key]Item {
	t, ok := m.tables[name]
	if !ok {
		t = make(map[Key]Item)
		m.tables[name] = t
	}
	return t
}

func itemKey(item Item) Key {
	k := Key{}
	if s, ok := item[models.AttrSiteUsername].(string); ok {
		k.SiteUsername = s
	}
	if s, ok := item[models.AttrVideoID].(string); ok {
		k.VideoID = s
	}
	return k
}

func (m *MemoryStore) Put(ctx context.Context, table string, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(table)[itemKey(item)] = copyItem(item)
	return nil
}

func (m *MemoryStore) UpdateField(ctx context.Context, table string, key Key, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table(table)
	item, ok := t[key]
	if !ok {
		item = Item{
			models.AttrSiteUsername: key.SiteUsername,
			models.AttrVideoID:      key.VideoID,
		}
		t[key] = item
	}
	item[field] = value
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, table string, key Key) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.tables[table][key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyItem(item), nil
}

func (m *MemoryStore) Scan(ctx context.Context, table string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []Item
	for _, item := range m.tables[table] {
		items = append(items, copyItem(item))
	}
	return items, nil
}

func (m *MemoryStore) Delete(ctx context.Context, table string, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables[table], key)
	return nil
}
