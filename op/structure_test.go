package op

import (
	"errors"
	"testing"
	"time"

	"github.com/edix-io/Edix/core"
	"github.com/edix-io/Edix/schema"
	"github.com/edix-io/Edix/st"
)

func newTestOp(t *testing.T, name string, doc map[string]any) *StructureOp {
	t.Helper()

	store, err := st.NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := schema.NewRegistry(store)
	if _, err := registry.Register(name, doc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	op, err := GetStructure(name, registry, store)
	if err != nil {
		t.Fatalf("GetStructure failed: %v", err)
	}
	return op
}

func eventsDoc() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind":  map[string]any{"type": "string"},
			"code":  map[string]any{"type": "integer"},
			"ratio": map[string]any{"type": "number"},
			"ok":    map[string]any{"type": "boolean"},
			"tags":  map[string]any{"type": "array"},
		},
	}
}

func TestInsertAndGet(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{
		"kind":  "login",
		"code":  200,
		"ratio": 0.5,
		"ok":    true,
		"tags":  []any{"auth"},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	record, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record["kind"] != "login" {
		t.Errorf("Expected kind login, got %v", record["kind"])
	}
	if record["code"] != int64(200) {
		t.Errorf("Expected code int64(200), got %v (%T)", record["code"], record["code"])
	}
	if record["ratio"] != 0.5 {
		t.Errorf("Expected ratio 0.5, got %v (%T)", record["ratio"], record["ratio"])
	}
	if record["ok"] != true {
		t.Errorf("Expected ok true, got %v (%T)", record["ok"], record["ok"])
	}
	tags, ok := record["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "auth" {
		t.Errorf("Expected tags [auth], got %v", record["tags"])
	}
	if _, ok := record["created_at"].(time.Time); !ok {
		t.Errorf("Expected created_at time.Time, got %T", record["created_at"])
	}
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	var last int64
	for i := 0; i < 5; i++ {
		id, err := op.Insert(map[string]any{"kind": "tick"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if id <= last {
			t.Errorf("Expected increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}

func TestInsertUndeclaredToMeta(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{
		"kind":   "login",
		"origin": "test-suite",
		"_meta":  map[string]any{"trace": "abc"},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	record, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	meta, ok := record["_meta"].(map[string]any)
	if !ok {
		t.Fatalf("Expected _meta map, got %T", record["_meta"])
	}
	if meta["origin"] != "test-suite" || meta["trace"] != "abc" {
		t.Errorf("Unexpected _meta: %v", meta)
	}
}

func TestUpdatePartial(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{"kind": "login", "code": 200})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	before, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if err := op.Update(id, map[string]any{"code": 500}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if after["code"] != int64(500) {
		t.Errorf("Expected code 500, got %v", after["code"])
	}
	if after["kind"] != "login" {
		t.Errorf("Expected kind untouched, got %v", after["kind"])
	}

	beforeAt, _ := before["updated_at"].(time.Time)
	afterAt, _ := after["updated_at"].(time.Time)
	if afterAt.Before(beforeAt) {
		t.Errorf("Expected updated_at refreshed: %v -> %v", beforeAt, afterAt)
	}
}

func TestUpdateMergesMeta(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{"kind": "login", "origin": "first"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := op.Update(id, map[string]any{"note": "second"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	record, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	meta, _ := record["_meta"].(map[string]any)
	if meta["origin"] != "first" || meta["note"] != "second" {
		t.Errorf("Expected merged _meta, got %v", meta)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	err := op.Update(42, map[string]any{"kind": "ghost"})
	if !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{"kind": "login"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := op.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := op.Get(id); !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
	}
	if err := op.Delete(id); !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound deleting twice, got %v", err)
	}
}

func TestListOrderingAndFilters(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	first, err := op.Insert(map[string]any{"kind": "login", "code": 200})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second, err := op.Insert(map[string]any{"kind": "logout", "code": 200})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	third, err := op.Insert(map[string]any{"kind": "login", "code": 500})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	records, err := op.List(ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	// Newest modification first; ties broken by id descending.
	if records[0]["id"] != third || records[2]["id"] != first {
		t.Errorf("Unexpected order: %v %v %v", records[0]["id"], records[1]["id"], records[2]["id"])
	}

	// Touching the oldest record moves it to the front.
	if err := op.Update(first, map[string]any{"code": 201}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	records, err = op.List(ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if records[0]["id"] != first {
		t.Errorf("Expected updated record first, got %v", records[0]["id"])
	}

	filtered, err := op.List(ListOptions{Filters: map[string]any{"kind": "login"}})
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 login records, got %d", len(filtered))
	}

	filtered, err = op.List(ListOptions{Filters: map[string]any{"kind": "logout", "code": 200}})
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0]["id"] != second {
		t.Errorf("Expected only the logout record, got %v", filtered)
	}

	if _, err := op.List(ListOptions{Filters: map[string]any{"nope": 1}}); err == nil {
		t.Error("Expected error filtering on undeclared field")
	}
}

func TestListPaging(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	for i := 0; i < 5; i++ {
		if _, err := op.Insert(map[string]any{"kind": "tick", "code": i}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	page, err := op.List(ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("Expected 2 records, got %d", len(page))
	}

	rest, err := op.List(ListOptions{Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rest) != 3 {
		t.Errorf("Expected 3 records after offset, got %d", len(rest))
	}

	count, err := op.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected count 5, got %d", count)
	}
}

func TestClosedStoreOperations(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	if err := op.Store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Every accessor reports the closed store instead of panicking.
	if _, err := op.Insert(map[string]any{"kind": "late"}); !errors.Is(err, st.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Insert, got %v", err)
	}
	if err := op.Update(1, map[string]any{"kind": "late"}); !errors.Is(err, st.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Update, got %v", err)
	}
	if err := op.Delete(1); !errors.Is(err, st.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Delete, got %v", err)
	}
	if _, err := op.List(ListOptions{}); !errors.Is(err, st.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from List, got %v", err)
	}
	if _, err := op.Count(); !errors.Is(err, st.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Count, got %v", err)
	}
}

func TestNullValues(t *testing.T) {
	op := newTestOp(t, "events", eventsDoc())

	id, err := op.Insert(map[string]any{"kind": "login", "tags": nil})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	record, err := op.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record["tags"] != nil {
		t.Errorf("Expected nil tags, got %v", record["tags"])
	}
	if record["code"] != nil {
		t.Errorf("Expected absent code to read as nil, got %v", record["code"])
	}
}
