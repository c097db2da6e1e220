package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"valvequote/testhelpers"
)

func TestHandleQuoteExcelExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme Process Controls")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-25-26-007")

	product := testhelpers.CreateTestQuoteProduct(t, app, quote.Id, "CV-101", 1)
	product.Set("calculated", true)
	product.Set("series_number", "2100")
	product.Set("size", "2\"")
	product.Set("rating", "300")
	product.Set("end_connect_type", "Flanged")
	product.Set("unit_cost", 50000.0)
	product.Set("line_total", 100000.0)
	if err := app.Save(product); err != nil {
		t.Fatalf("save product: %v", err)
	}

	req := jsonRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/excel", "", quote.Id)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExcelExport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "VQ-25-26-007.xlsx") {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("response is not a zip-based workbook")
	}
}

func TestHandleQuotePDFExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Acme")
	quote := testhelpers.CreateTestQuote(t, app, customer.Id, "VQ-25-26-003")

	req := jsonRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/pdf", "", quote.Id)
	rec := httptest.NewRecorder()

	if err := HandleQuotePDFExport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("response is not a PDF")
	}
}

func TestHandleQuoteExcelExportMissingQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(http.MethodGet, "/api/quotes/missing/export/excel", "", "missing")
	rec := httptest.NewRecorder()

	if err := HandleQuoteExcelExport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
