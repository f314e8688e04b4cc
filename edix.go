package Edix

import (
	"github.com/edix-io/Edix/db"
	"github.com/edix-io/Edix/notify"
	"github.com/edix-io/Edix/schema"
	"github.com/edix-io/Edix/st"
)

// Instance ties a store, its schema registry and the change broadcaster
// together. Open loads every registered schema into the registry cache so
// accessor operations resolve names without touching the catalog.
type Instance struct {
	Store       *st.Store
	Registry    *schema.Registry
	Broadcaster *notify.Broadcaster
}

func Open(store *st.Store) (*Instance, error) {
	registry := schema.NewRegistry(store)
	if err := registry.Load(); err != nil {
		return nil, err
	}

	return &Instance{
		Store:       store,
		Registry:    registry,
		Broadcaster: notify.NewBroadcaster(),
	}, nil
}

func (instance *Instance) Engine() *db.Engine {
	return db.NewEngine(instance.Store, instance.Registry, instance.Broadcaster)
}
