package services

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/testhelpers"
)

// seedCalculationFacts creates every pricing fact a full calculation of the
// standard test configuration needs, and returns the material ids.
func seedCalculationFacts(t *testing.T, app *pocketbase.PocketBase) map[string]string {
	t.Helper()

	testhelpers.CreateTestSeries(t, app, "2100", true, true)

	mats := map[string]string{
		"body":   testhelpers.CreateTestMaterial(t, app, "ASTM A216 WCB", "body_bonnet", 250).Id,
		"plug":   testhelpers.CreateTestMaterial(t, app, "SS 316 Plug", "plug", 400).Id,
		"seat":   testhelpers.CreateTestMaterial(t, app, "SS 316 Seat", "seat", 400).Id,
		"cage":   testhelpers.CreateTestMaterial(t, app, "SS 316 Cage", "cage", 500).Id,
	}

	testhelpers.CreateTestWeightFact(t, app, "body_weights", "2100", "2\"", "300", 20,
		map[string]any{"end_connect_type": "Flanged"})
	testhelpers.CreateTestWeightFact(t, app, "bonnet_weights", "2100", "2\"", "300", 8,
		map[string]any{"bonnet_type": "Plain"})
	testhelpers.CreateTestWeightFact(t, app, "plug_weights", "2100", "2\"", "300", 2, nil)
	testhelpers.CreateTestWeightFact(t, app, "seat_weights", "2100", "2\"", "300", 1.5, nil)
	testhelpers.CreateTestWeightFact(t, app, "cage_weights", "2100", "2\"", "300", 3, nil)
	testhelpers.CreateTestPriceFact(t, app, "stem_prices", "2100", "2\"", "300", 1800,
		map[string]any{"material_name": "SS 316"})
	testhelpers.CreateTestPriceFact(t, app, "seal_ring_prices", "2100", "2\"", "300", 650,
		map[string]any{"seal_type": "PTFE"})
	testhelpers.CreateTestActuatorPrice(t, app, "Pneumatic Diaphragm", "AD-3", "AD-3200", 12000)

	return mats
}

// configureProduct applies the standard test configuration to a product record.
func configureProduct(rec *core.Record, mats map[string]string) {
	rec.Set("series_number", "2100")
	rec.Set("size", "2\"")
	rec.Set("rating", "300")
	rec.Set("end_connect_type", "Flanged")
	rec.Set("bonnet_type", "Plain")
	rec.Set("body_material", mats["body"])
	rec.Set("bonnet_material", mats["body"])
	rec.Set("plug_material", mats["plug"])
	rec.Set("seat_material", mats["seat"])
	rec.Set("cage_material", mats["cage"])
	rec.Set("stem_material_name", "SS 316")
	rec.Set("has_cage", true)
	rec.Set("has_seal_ring", true)
	rec.Set("seal_type", "PTFE")
	rec.Set("has_actuator", true)
	rec.Set("actuator_type", "Pneumatic Diaphragm")
	rec.Set("actuator_series", "AD-3")
	rec.Set("actuator_model", "AD-3200")
	rec.Set("actuator_standard", "-")
	rec.Set("quantity", 3)
}

func TestCalculateProductFullBreakdown(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mats := seedCalculationFacts(t, app)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)
	configureProduct(product, mats)

	// seedCalculationFacts stores the actuator with an empty standard; the
	// selection requires one, so stamp it on the fact first.
	actuators, _ := app.FindRecordsByFilter("actuator_prices", "model = 'AD-3200'", "", 0, 0, nil)
	for _, a := range actuators {
		a.Set("standard", "-")
		if err := app.Save(a); err != nil {
			t.Fatalf("failed to set actuator standard: %v", err)
		}
	}

	if err := CalculateProduct(app, product); err != nil {
		t.Fatalf("CalculateProduct: %v", err)
	}

	reloaded, err := app.FindRecordById("quote_products", product.Id)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if !reloaded.GetBool("calculated") {
		t.Fatal("expected calculated flag to be set")
	}

	// body 20*250 + bonnet 8*250 + plug 2*400 + seat 1.5*400 + stem 1800
	// + cage 3*500 + seal ring 650 = 12350
	if got := reloaded.GetFloat("body_subassembly_total"); got != 12350 {
		t.Errorf("body_subassembly_total = %v, want 12350", got)
	}
	if got := reloaded.GetFloat("actuator_subassembly_total"); got != 12000 {
		t.Errorf("actuator_subassembly_total = %v, want 12000", got)
	}
	// mfg 24350 +20% = 29220, no boughtout
	if got := reloaded.GetFloat("unit_cost"); got != 29220 {
		t.Errorf("unit_cost = %v, want 29220", got)
	}
	if got := reloaded.GetFloat("line_total"); got != 87660 {
		t.Errorf("line_total = %v, want 87660", got)
	}
}

func TestCalculateProductIncompleteSelection(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)

	err := CalculateProduct(app, product)
	if err == nil {
		t.Fatal("expected validation errors for an empty selection")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	fields := verrs.FieldMap()
	for _, f := range []string{"series_number", "size", "rating", "bonnet_type"} {
		if fields[f] == "" {
			t.Errorf("expected a validation error for %s", f)
		}
	}

	reloaded, _ := app.FindRecordById("quote_products", product.Id)
	if reloaded.GetBool("calculated") {
		t.Error("failed calculation must not mark the product calculated")
	}
	if reloaded.GetFloat("unit_cost") != 0 {
		t.Error("failed calculation must not write cost fields")
	}
}

func TestCalculateProductMissingFactAborts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mats := seedCalculationFacts(t, app)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-102", 1)
	configureProduct(product, mats)
	// A rating with no priced facts.
	product.Set("rating", "900")

	err := CalculateProduct(app, product)
	if err == nil {
		t.Fatal("expected a lookup error for an unpriced configuration")
	}

	var nf *LookupNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *LookupNotFoundError", err)
	}
	if nf.Component != "body" {
		t.Errorf("Component = %q, want body (first missing lookup)", nf.Component)
	}

	reloaded, _ := app.FindRecordById("quote_products", product.Id)
	if reloaded.GetBool("calculated") {
		t.Error("failed calculation must not mark the product calculated")
	}
	if reloaded.GetFloat("body_cost") != 0 {
		t.Error("failed calculation must not write partial cost fields")
	}
}

func TestApplyQuantityCheapPath(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)
	product.Set("calculated", true)
	product.Set("unit_cost", 29220.0)
	product.Set("quantity", 3)
	product.Set("line_total", 87660.0)
	if err := app.Save(product); err != nil {
		t.Fatalf("seed calculated product: %v", err)
	}

	if err := ApplyQuantity(app, product, 5); err != nil {
		t.Fatalf("ApplyQuantity: %v", err)
	}

	reloaded, _ := app.FindRecordById("quote_products", product.Id)
	if got := reloaded.GetInt("quantity"); got != 5 {
		t.Errorf("quantity = %d, want 5", got)
	}
	if got := reloaded.GetFloat("line_total"); got != 146100 {
		t.Errorf("line_total = %v, want 146100", got)
	}
	// The unit cost is untouched by a quantity edit.
	if got := reloaded.GetFloat("unit_cost"); got != 29220 {
		t.Errorf("unit_cost = %v, want 29220", got)
	}
}

func TestApplyQuantityRejectsUncalculated(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)

	if err := ApplyQuantity(app, product, 5); err == nil {
		t.Fatal("expected error applying quantity to an uncalculated product")
	}
	if err := ApplyQuantity(app, product, 0); err == nil {
		t.Fatal("expected error for quantity below 1")
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-2526-001")
	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)

	sel := SelectionFromRecord(product)
	sel.SetSeries("2100")
	sel.SetSize("2\"")
	sel.SetRating("300")
	sel.EndConnectType = "Flanged"
	ApplySelectionToRecord(product, sel)
	if err := app.Save(product); err != nil {
		t.Fatalf("save product: %v", err)
	}

	reloaded, _ := app.FindRecordById("quote_products", product.Id)
	got := SelectionFromRecord(reloaded)
	if got.SeriesNumber != "2100" || got.Size != "2\"" || got.Rating != "300" {
		t.Errorf("selection = %+v, want series/size/rating persisted", got)
	}
	if got.EndConnectType != "Flanged" {
		t.Errorf("EndConnectType = %q, want Flanged", got.EndConnectType)
	}
}
