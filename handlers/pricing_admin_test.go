package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"valvequote/testhelpers"
)

func multipartUpload(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandlePricingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/materials/template", nil)
	req.SetPathValue("dataset", "materials")
	rec := httptest.NewRecorder()

	if err := HandlePricingTemplate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("template is not a zip-based workbook")
	}
}

func TestHandlePricingTemplateUnknownDataset(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/nonsense/template", nil)
	req.SetPathValue("dataset", "nonsense")
	rec := httptest.NewRecorder()

	if err := HandlePricingTemplate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePricingValidateAndCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Material,Group,Price / Kg\n" +
		"WCB,body_bonnet,250\n" +
		"CF8M,body_bonnet,450\n"
	body, contentType := multipartUpload(t, "materials.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/materials/import", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("dataset", "materials")
	rec := httptest.NewRecorder()

	if err := HandlePricingValidate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		TotalRows  int                 `json:"total_rows"`
		ValidRows  int                 `json:"valid_rows"`
		ErrorRows  int                 `json:"error_rows"`
		ParsedRows []map[string]string `json:"parsed_rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if result.TotalRows != 2 || result.ValidRows != 2 || result.ErrorRows != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	commitBody, err := json.Marshal(map[string]any{"rows": result.ParsedRows})
	if err != nil {
		t.Fatalf("marshal rows: %v", err)
	}
	commitReq := httptest.NewRequest(http.MethodPost, "/api/pricing/materials/import/commit",
		bytes.NewReader(commitBody))
	commitReq.Header.Set("Content-Type", "application/json")
	commitReq.SetPathValue("dataset", "materials")
	commitRec := httptest.NewRecorder()

	if err := HandlePricingCommit(app)(newTestRequestEvent(app, commitReq, commitRec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if commitRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", commitRec.Code, commitRec.Body.String())
	}

	materials, err := app.FindRecordsByFilter("materials", "id != ''", "name", 0, 0, nil)
	if err != nil {
		t.Fatalf("find materials: %v", err)
	}
	if len(materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(materials))
	}
	if got := materials[1].GetFloat("price_per_kg"); got != 250 {
		t.Errorf("WCB price = %v, want 250", got)
	}
}

func TestHandlePricingValidateMissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/materials/import", nil)
	req.SetPathValue("dataset", "materials")
	rec := httptest.NewRecorder()

	if err := HandlePricingValidate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePricingWorkbook(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "WCB", "body_bonnet", 250)

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/export", nil)
	rec := httptest.NewRecorder()

	if err := HandlePricingWorkbook(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("export is not a zip-based workbook")
	}
}
