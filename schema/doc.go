// Package schema provides the schema registry and validators for Edix.
//
// # Registry
//
// The Registry caches parsed schemas in memory with an explicit lifecycle:
//
//	registry := schema.NewRegistry(store)
//	registry.Load()                        // populate from the catalog
//	registry.Register("items", doc)        // validate + provision + cache
//	s, err := registry.Get("items")        // cache, then catalog
//	registry.Invalidate("items")           // force a re-read
//
// # Validation
//
// CheckSchema is the structural meta-validator run before provisioning;
// Validate checks candidate records against a registered schema. Both are
// pure. Validate follows an open-world policy: fields the schema does not
// declare are never rejected.
package schema
