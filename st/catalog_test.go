package st

import (
	"errors"
	"testing"

	"github.com/edix-io/Edix/core"
)

func TestCatalogSaveGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveStructure("items", "edix_data_items", []byte(`{"name":"items"}`)); err != nil {
		t.Fatalf("SaveStructure failed: %v", err)
	}

	row, err := store.GetStructure("items")
	if err != nil {
		t.Fatalf("GetStructure failed: %v", err)
	}
	if row.Name != "items" || row.TableName != "edix_data_items" {
		t.Errorf("Unexpected row: %+v", row)
	}
	if string(row.Definition) != `{"name":"items"}` {
		t.Errorf("Unexpected definition: %s", row.Definition)
	}
	if row.CreatedAt.IsZero() || row.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestCatalogGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetStructure("nowhere")
	if !errors.Is(err, core.ErrStructureNotFound) {
		t.Errorf("Expected ErrStructureNotFound, got %v", err)
	}
}

func TestCatalogResavePreservesCreatedAt(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveStructure("items", "edix_data_items", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("SaveStructure failed: %v", err)
	}
	first, err := store.GetStructure("items")
	if err != nil {
		t.Fatalf("GetStructure failed: %v", err)
	}

	if err := store.SaveStructure("items", "edix_data_items", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}
	second, err := store.GetStructure("items")
	if err != nil {
		t.Fatalf("GetStructure failed: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected created_at preserved: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	if string(second.Definition) != `{"v":2}` {
		t.Errorf("Expected definition replaced, got %s", second.Definition)
	}
}

func TestCatalogList(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"zebra", "alpha", "mango"} {
		if err := store.SaveStructure(name, "edix_data_"+name, []byte(`{}`)); err != nil {
			t.Fatalf("SaveStructure failed: %v", err)
		}
	}

	rows, err := store.ListStructures()
	if err != nil {
		t.Fatalf("ListStructures failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Name != "alpha" || rows[1].Name != "mango" || rows[2].Name != "zebra" {
		t.Errorf("Expected sorted order, got %v %v %v", rows[0].Name, rows[1].Name, rows[2].Name)
	}
}

func TestDeleteStructureDropsTable(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Provision(itemsSchema()); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if err := store.DeleteStructure("items"); err != nil {
		t.Fatalf("DeleteStructure failed: %v", err)
	}

	if _, err := store.GetStructure("items"); !errors.Is(err, core.ErrStructureNotFound) {
		t.Errorf("Expected catalog row gone, got %v", err)
	}
	if _, err := store.Query(`SELECT * FROM "edix_data_items"`); err == nil {
		t.Error("Expected data table to be dropped")
	}

	// Re-provisioning after deletion starts the id sequence over.
	if _, err := store.Provision(itemsSchema()); err != nil {
		t.Fatalf("Re-provision failed: %v", err)
	}
	row, err := store.QueryRow(
		`INSERT INTO "edix_data_items" ("title", "created_at", "updated_at")
		 VALUES (?, now(), now()) RETURNING "id"`, "fresh",
	)
	if err != nil {
		t.Fatalf("QueryRow failed: %v", err)
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected id sequence reset to 1, got %d", id)
	}
}

func TestClosedStore(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open memory store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if store.IsInitialized() {
		t.Error("Expected store uninitialized after close")
	}
	if _, err := store.Exec("SELECT 1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Exec, got %v", err)
	}
	if _, err := store.Query("SELECT 1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Query, got %v", err)
	}
	if _, err := store.QueryRow("SELECT 1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from QueryRow, got %v", err)
	}
	if _, err := store.Provision(itemsSchema()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from Provision, got %v", err)
	}
}
