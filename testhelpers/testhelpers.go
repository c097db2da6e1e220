// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestMaterial creates a material record and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, name, group string, pricePerKg float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("material_group", group)
	record.Set("price_per_kg", pricePerKg)
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestSeries creates a series record and returns it.
func CreateTestSeries(t *testing.T, app *pocketbase.PocketBase, seriesNumber string, hasCage, hasSealRing bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("series")
	if err != nil {
		t.Fatalf("failed to find series collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("series_number", seriesNumber)
	record.Set("name", "Series "+seriesNumber)
	record.Set("product_type", "Globe Control Valve")
	record.Set("has_cage", hasCage)
	record.Set("has_seal_ring", hasSealRing)
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test series: %v", err)
	}

	return record
}

// CreateTestWeightFact creates a row in one of the weight fact tables.
// extra holds table-specific columns like end_connect_type or bonnet_type.
func CreateTestWeightFact(t *testing.T, app *pocketbase.PocketBase, collection, series, size, rating string, weight float64, extra map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	record.Set("series_number", series)
	record.Set("size", size)
	record.Set("rating", rating)
	record.Set("weight", weight)
	record.Set("is_active", true)
	for k, v := range extra {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s row: %v", collection, err)
	}

	return record
}

// CreateTestPriceFact creates a row in one of the fixed-price fact tables
// (stem_prices, seal_ring_prices).
func CreateTestPriceFact(t *testing.T, app *pocketbase.PocketBase, collection, series, size, rating string, fixedPrice float64, extra map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	record.Set("series_number", series)
	record.Set("size", size)
	record.Set("rating", rating)
	record.Set("fixed_price", fixedPrice)
	record.Set("is_active", true)
	for k, v := range extra {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s row: %v", collection, err)
	}

	return record
}

// CreateTestActuatorPrice creates an actuator price record.
func CreateTestActuatorPrice(t *testing.T, app *pocketbase.PocketBase, actuatorType, actuatorSeries, model string, fixedPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("actuator_prices")
	if err != nil {
		t.Fatalf("failed to find actuator_prices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("actuator_type", actuatorType)
	record.Set("actuator_series", actuatorSeries)
	record.Set("model", model)
	record.Set("fixed_price", fixedPrice)
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test actuator price: %v", err)
	}

	return record
}

// CreateTestHandwheelPrice creates a handwheel price record.
func CreateTestHandwheelPrice(t *testing.T, app *pocketbase.PocketBase, handwheelType, handwheelSeries, model string, fixedPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("handwheel_prices")
	if err != nil {
		t.Fatalf("failed to find handwheel_prices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("handwheel_type", handwheelType)
	record.Set("handwheel_series", handwheelSeries)
	record.Set("model", model)
	record.Set("fixed_price", fixedPrice)
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test handwheel price: %v", err)
	}

	return record
}

// CreateTestCustomer creates a customer record with the given name and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("city", "Mumbai")
	record.Set("gstin", "27AADCB2230M1ZV")
	record.Set("contact_name", "Test Contact")
	record.Set("phone", "9876543210")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record linked to a customer.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, customerID, quoteNumber string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote_number", quoteNumber)
	record.Set("customer", customerID)
	record.Set("status", "draft")
	record.Set("pricing_type", "ex_works")
	record.Set("discount_percent", 0.0)
	record.Set("tax_percent", 18.0)
	record.Set("package_price", 0.0)
	record.Set("freight_price", 0.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestQuoteProduct creates a quote product record with a minimal
// uncalculated selection.
func CreateTestQuoteProduct(t *testing.T, app *pocketbase.PocketBase, quoteID, tag string, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_products")
	if err != nil {
		t.Fatalf("failed to find quote_products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("product_tag", tag)
	record.Set("sort_order", sortOrder)
	record.Set("quantity", 1)
	record.Set("manufacturing_profit_percent", 20.0)
	record.Set("boughtout_profit_percent", 10.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote product: %v", err)
	}

	return record
}
