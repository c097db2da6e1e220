package collections_test

import (
	"testing"

	"valvequote/collections"
	"valvequote/testhelpers"
)

func TestMigrateNestedCageFacts(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Legacy rows with nested cage/seal-ring data.
	testhelpers.CreateTestWeightFact(t, app, "seat_weights", "2100", "2\"", "300", 1.5,
		map[string]any{"has_cage": true, "cage_weight": 3.0})
	testhelpers.CreateTestWeightFact(t, app, "seat_weights", "2100", "3\"", "300", 2.0,
		map[string]any{"has_cage": false})
	testhelpers.CreateTestWeightFact(t, app, "plug_weights", "2100", "2\"", "300", 2.0,
		map[string]any{"has_seal_ring": true, "seal_type": "PTFE", "seal_ring_price": 650.0})

	if err := collections.MigrateNestedCageFacts(app); err != nil {
		t.Fatalf("MigrateNestedCageFacts: %v", err)
	}

	cages, err := app.FindRecordsByFilter("cage_weights", "id != ''", "", 0, 0, nil)
	if err != nil {
		t.Fatalf("query cage_weights: %v", err)
	}
	if len(cages) != 1 {
		t.Fatalf("cage_weights count = %d, want 1 (only rows with has_cage)", len(cages))
	}
	if got := cages[0].GetFloat("weight"); got != 3.0 {
		t.Errorf("migrated cage weight = %v, want 3.0", got)
	}
	if got := cages[0].GetString("size"); got != "2\"" {
		t.Errorf("migrated cage size = %q, want 2\"", got)
	}

	seals, err := app.FindRecordsByFilter("seal_ring_prices", "id != ''", "", 0, 0, nil)
	if err != nil {
		t.Fatalf("query seal_ring_prices: %v", err)
	}
	if len(seals) != 1 {
		t.Fatalf("seal_ring_prices count = %d, want 1", len(seals))
	}
	if got := seals[0].GetFloat("fixed_price"); got != 650.0 {
		t.Errorf("migrated seal ring price = %v, want 650", got)
	}
	if got := seals[0].GetString("seal_type"); got != "PTFE" {
		t.Errorf("migrated seal type = %q, want PTFE", got)
	}

	// Second run must not duplicate migrated rows.
	if err := collections.MigrateNestedCageFacts(app); err != nil {
		t.Fatalf("second MigrateNestedCageFacts: %v", err)
	}
	cages, _ = app.FindRecordsByFilter("cage_weights", "id != ''", "", 0, 0, nil)
	if len(cages) != 1 {
		t.Errorf("cage_weights count after re-run = %d, want 1", len(cages))
	}
}

func TestMigrateNestedCageFacts_PrefersExistingStandaloneRow(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// A standalone row already exists for this key; the nested value must
	// not overwrite it.
	testhelpers.CreateTestWeightFact(t, app, "cage_weights", "2100", "2\"", "300", 4.5, nil)
	testhelpers.CreateTestWeightFact(t, app, "seat_weights", "2100", "2\"", "300", 1.5,
		map[string]any{"has_cage": true, "cage_weight": 3.0})

	if err := collections.MigrateNestedCageFacts(app); err != nil {
		t.Fatalf("MigrateNestedCageFacts: %v", err)
	}

	cages, _ := app.FindRecordsByFilter("cage_weights", "id != ''", "", 0, 0, nil)
	if len(cages) != 1 {
		t.Fatalf("cage_weights count = %d, want 1", len(cages))
	}
	if got := cages[0].GetFloat("weight"); got != 4.5 {
		t.Errorf("weight = %v, want 4.5 (standalone row is authoritative)", got)
	}
}
