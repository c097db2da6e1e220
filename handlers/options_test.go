package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"valvequote/testhelpers"
)

func TestHandleProductOptionsNarrowsToSelection(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-25-26-001")

	testhelpers.CreateTestWeightFact(t, app, "body_weights", "2100", "2\"", "150", 18,
		map[string]any{"end_connect_type": "Flanged"})
	testhelpers.CreateTestWeightFact(t, app, "body_weights", "2100", "2\"", "300", 20,
		map[string]any{"end_connect_type": "Flanged"})
	testhelpers.CreateTestWeightFact(t, app, "body_weights", "2100", "3\"", "300", 30,
		map[string]any{"end_connect_type": "Butt Weld"})
	testhelpers.CreateTestWeightFact(t, app, "body_weights", "2200", "6\"", "600", 80,
		map[string]any{"end_connect_type": "Flanged"})

	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)
	product.Set("series_number", "2100")
	product.Set("size", "2\"")
	if err := app.Save(product); err != nil {
		t.Fatalf("save product: %v", err)
	}

	req := jsonRequest(http.MethodGet, "/api/products/"+product.Id+"/options", "", product.Id)
	rec := httptest.NewRecorder()

	if err := HandleProductOptions(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var opts struct {
		Sizes   []string `json:"sizes"`
		Ratings []string `json:"ratings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(opts.Sizes) != 2 {
		t.Errorf("sizes = %v, want the two 2100 sizes", opts.Sizes)
	}
	if len(opts.Ratings) != 2 {
		t.Errorf("ratings = %v, want 150 and 300", opts.Ratings)
	}
}

func TestHandleMaterialOptions(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "WCB", "body_bonnet", 250)
	testhelpers.CreateTestMaterial(t, app, "CF8M", "body_bonnet", 450)
	testhelpers.CreateTestMaterial(t, app, "SS316", "stem", 400)

	req := jsonRequest(http.MethodGet, "/api/options/materials/body_bonnet", "", "")
	req.SetPathValue("group", "body_bonnet")
	rec := httptest.NewRecorder()

	if err := HandleMaterialOptions(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 body materials, got %d", len(resp))
	}
	if resp[0]["name"] != "CF8M" {
		t.Errorf("expected name sort, first = %v", resp[0]["name"])
	}
}

func TestHandleDropdowns(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(http.MethodGet, "/api/options/dropdowns", "", "")
	rec := httptest.NewRecorder()

	if err := HandleDropdowns(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	for _, key := range []string{"material_groups", "quote_statuses", "pricing_types", "tax_options"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("missing %s", key)
		}
	}
}

func TestHandleActuatorOptions(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestActuatorPrice(t, app, "Pneumatic", "AD-2", "AD-2-50", 12000)
	testhelpers.CreateTestActuatorPrice(t, app, "Electric", "EH-1", "EH-1-10", 45000)
	testhelpers.CreateTestHandwheelPrice(t, app, "Top Mounted", "HW-1", "HW-1-S", 3000)

	req := jsonRequest(http.MethodGet, "/api/options/actuators", "", "")
	rec := httptest.NewRecorder()

	if err := HandleActuatorOptions(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		ActuatorTypes  []string `json:"actuator_types"`
		HandwheelTypes []string `json:"handwheel_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.ActuatorTypes) != 2 {
		t.Errorf("actuator types = %v", resp.ActuatorTypes)
	}
	if len(resp.HandwheelTypes) != 1 {
		t.Errorf("handwheel types = %v", resp.HandwheelTypes)
	}
}
