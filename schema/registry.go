package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/edix-io/Edix/core"
	"github.com/edix-io/Edix/st"
)

// Registry is the process-scoped schema cache. It exclusively owns
// registered schemas: Register validates and provisions, Get resolves
// names for every accessor operation, and Load/Invalidate control the
// cache lifecycle explicitly. Reads are safe under concurrent access.
type Registry struct {
	store   *st.Store
	mu      sync.RWMutex
	schemas map[string]*core.Schema
}

// NewRegistry creates a registry over the given store. Call Load to
// populate the cache from the catalog.
func NewRegistry(store *st.Store) *Registry {
	return &Registry{
		store:   store,
		schemas: make(map[string]*core.Schema),
	}
}

// Load replaces the cache with every schema persisted in the catalog.
func (r *Registry) Load() error {
	rows, err := r.store.ListStructures()
	if err != nil {
		return err
	}

	schemas := make(map[string]*core.Schema, len(rows))
	for _, row := range rows {
		schema := new(core.Schema)
		if err := json.Unmarshal(row.Definition, schema); err != nil {
			return fmt.Errorf("failed to load schema %q: %w", row.Name, err)
		}
		schemas[row.Name] = schema
	}

	r.mu.Lock()
	r.schemas = schemas
	r.mu.Unlock()
	return nil
}

// Register meta-validates a schema document, provisions its table and
// caches the parsed schema. Registering the same schema again is
// idempotent. Editing a schema does not migrate rows already in the
// table; reconciling existing data is explicitly unsupported.
func (r *Registry) Register(name string, doc map[string]any) (*core.Schema, error) {
	if err := CheckSchema(doc); err != nil {
		return nil, err
	}

	schema, err := ParseDocument(name, doc)
	if err != nil {
		return nil, err
	}

	if _, err := r.store.Provision(schema); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.schemas[name] = schema
	r.mu.Unlock()
	return schema, nil
}

// Get resolves a structure name to its schema, reading through to the
// catalog on a cache miss.
func (r *Registry) Get(name string) (*core.Schema, error) {
	r.mu.RLock()
	schema, ok := r.schemas[name]
	r.mu.RUnlock()
	if ok {
		return schema, nil
	}

	row, err := r.store.GetStructure(name)
	if err != nil {
		return nil, err
	}

	schema = new(core.Schema)
	if err := json.Unmarshal(row.Definition, schema); err != nil {
		return nil, fmt.Errorf("failed to decode schema %q: %w", name, err)
	}

	r.mu.Lock()
	r.schemas[name] = schema
	r.mu.Unlock()
	return schema, nil
}

// Names returns the cached structure names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Invalidate drops one cached schema; the next Get reads through to the
// catalog.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	delete(r.schemas, name)
	r.mu.Unlock()
}

// InvalidateAll empties the cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.schemas = make(map[string]*core.Schema)
	r.mu.Unlock()
}

// Delete removes a structure: its catalog entry, its data table and the
// cached schema.
func (r *Registry) Delete(name string) error {
	if err := r.store.DeleteStructure(name); err != nil {
		return err
	}
	r.Invalidate(name)
	return nil
}
