package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	name       string
	group      string
	pricePerKg float64
}

type seriesDef struct {
	number      string
	name        string
	productType string
	hasCage     bool
	hasSealRing bool
}

type itemDef struct {
	title     string
	price     float64
	isDefault bool
}

// ── Seed data ────────────────────────────────────────────────────────────

var seedMaterials = []materialDef{
	{"ASTM A216 WCB", "body_bonnet", 280},
	{"ASTM A351 CF8", "body_bonnet", 420},
	{"ASTM A351 CF8M", "body_bonnet", 480},
	{"SS 410", "plug", 380},
	{"SS 316", "plug", 520},
	{"SS 410", "seat", 380},
	{"SS 316", "seat", 520},
	{"SS 410", "cage", 400},
	{"SS 316", "cage", 540},
	{"SS 410", "stem", 360},
	{"SS 316", "stem", 500},
}

var seedSeries = []seriesDef{
	{"2100", "Globe Control Valve - Single Seated", "Globe Control Valve", true, true},
	{"2200", "Globe Control Valve - Double Seated", "Globe Control Valve", false, false},
	{"3300", "Butterfly Valve", "Butterfly Valve", false, false},
}

var seedTestingItems = []itemDef{
	{"Hydro Test", 1500, true},
	{"Seat Leakage Test", 800, true},
	{"Pneumatic Test", 1200, false},
}

var seedTubingItems = []itemDef{
	{"SS Tubing Set", 2200, false},
	{"Copper Tubing Set", 1400, false},
}

var seedAccessories = []itemDef{
	{"Air Filter Regulator", 3500, true},
	{"Limit Switch", 2750, false},
	{"Positioner", 8000, false},
	{"Solenoid Valve", 4200, false},
}

// Seed populates starter pricing data when the collections are empty.
// Safe to call on every startup; it never writes over existing records.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedMaterialRecords(app); err != nil {
		return err
	}
	if err := seedSeriesRecords(app); err != nil {
		return err
	}
	if err := seedItemRecords(app, "testing_items", seedTestingItems); err != nil {
		return err
	}
	if err := seedItemRecords(app, "tubing_items", seedTubingItems); err != nil {
		return err
	}
	if err := seedItemRecords(app, "accessories", seedAccessories); err != nil {
		return err
	}
	return nil
}

func seedMaterialRecords(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(col, "id != ''", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Printf("seed: creating %d starter materials\n", len(seedMaterials))
	for _, m := range seedMaterials {
		record := core.NewRecord(col)
		record.Set("name", m.name)
		record.Set("material_group", m.group)
		record.Set("price_per_kg", m.pricePerKg)
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: save material %q: %w", m.name, err)
		}
	}
	return nil
}

func seedSeriesRecords(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("series")
	if err != nil {
		return fmt.Errorf("seed: could not find series collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(col, "id != ''", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("seed: could not query series: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Printf("seed: creating %d starter series\n", len(seedSeries))
	for _, s := range seedSeries {
		record := core.NewRecord(col)
		record.Set("series_number", s.number)
		record.Set("name", s.name)
		record.Set("product_type", s.productType)
		record.Set("has_cage", s.hasCage)
		record.Set("has_seal_ring", s.hasSealRing)
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: save series %q: %w", s.number, err)
		}
	}
	return nil
}

func seedItemRecords(app *pocketbase.PocketBase, collectionName string, items []itemDef) error {
	col, err := app.FindCollectionByNameOrId(collectionName)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", collectionName, err)
	}

	existing, err := app.FindRecordsByFilter(col, "id != ''", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("seed: could not query %s: %w", collectionName, err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Printf("seed: creating %d %s\n", len(items), collectionName)
	for _, item := range items {
		record := core.NewRecord(col)
		record.Set("title", item.title)
		record.Set("price", item.price)
		record.Set("is_default", item.isDefault)
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: save %s %q: %w", collectionName, item.title, err)
		}
	}
	return nil
}
