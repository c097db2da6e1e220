package services

import (
	"strings"
	"testing"

	"valvequote/testhelpers"
)

// memFile adapts a strings.Reader to multipart.File for upload tests.
type memFile struct {
	*strings.Reader
}

func (memFile) Close() error { return nil }

func uploadFile(content string) memFile {
	return memFile{strings.NewReader(content)}
}

func TestValidatePricingFileMaterialsCSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Material *,Group *,Price / Kg *\n" +
		"ASTM A216 WCB,body_bonnet,280\n" +
		"SS 316,plug,520\n"

	result, err := ValidatePricingFile(app, uploadFile(csv), "materials.csv", "materials")
	if err != nil {
		t.Fatalf("ValidatePricingFile: %v", err)
	}

	if result.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", result.TotalRows)
	}
	if result.ValidRows != 2 {
		t.Errorf("ValidRows = %d, want 2 (errors: %v)", result.ValidRows, result.Errors)
	}
	if result.ParsedRows[0]["name"] != "ASTM A216 WCB" {
		t.Errorf("row 1 name = %q, want ASTM A216 WCB", result.ParsedRows[0]["name"])
	}
	if result.ParsedRows[1]["material_group"] != "plug" {
		t.Errorf("row 2 group = %q, want plug", result.ParsedRows[1]["material_group"])
	}
}

func TestValidatePricingFileFieldErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Material *,Group *,Price / Kg *\n" +
		",body_bonnet,280\n" +
		"SS 316,engine,abc\n" +
		"SS 410,plug,-5\n"

	result, err := ValidatePricingFile(app, uploadFile(csv), "materials.csv", "materials")
	if err != nil {
		t.Fatalf("ValidatePricingFile: %v", err)
	}

	if result.ErrorRows != 3 {
		t.Errorf("ErrorRows = %d, want 3 (errors: %v)", result.ErrorRows, result.Errors)
	}
	if result.ValidRows != 0 {
		t.Errorf("ValidRows = %d, want 0", result.ValidRows)
	}

	byMessage := make(map[string]bool)
	for _, e := range result.Errors {
		byMessage[e.Message] = true
	}
	for _, want := range []string{
		"Material is required",
		"Group must be one of: body_bonnet, plug, seat, stem, cage",
		"Price / Kg must be a number",
		"Price / Kg must not be negative",
	} {
		if !byMessage[want] {
			t.Errorf("missing expected error %q (got %v)", want, result.Errors)
		}
	}
}

func TestValidatePricingFileUnknownSeries(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestSeries(t, app, "2100", false, false)

	csv := "Series *,Size *,Rating *,Plug Weight (Kg) *\n" +
		"2100,2\",300,2.5\n" +
		"9999,2\",300,3.0\n"

	result, err := ValidatePricingFile(app, uploadFile(csv), "plugs.csv", "plug_weights")
	if err != nil {
		t.Fatalf("ValidatePricingFile: %v", err)
	}

	if result.ValidRows != 1 {
		t.Errorf("ValidRows = %d, want 1 (errors: %v)", result.ValidRows, result.Errors)
	}
	if result.ErrorRows != 1 {
		t.Errorf("ErrorRows = %d, want 1", result.ErrorRows)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "9999") {
		t.Errorf("errors = %v, want one unknown-series error naming 9999", result.Errors)
	}
}

func TestValidatePricingFileRejectsUnknownFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := ValidatePricingFile(app, uploadFile("x"), "materials.pdf", "materials"); err == nil {
		t.Fatal("expected error for unsupported file format")
	}
	if _, err := ValidatePricingFile(app, uploadFile("x"), "materials.csv", "nope"); err == nil {
		t.Fatal("expected error for unknown dataset")
	}
}

func TestCommitPricingRowsUpserts(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []map[string]string{
		{"name": "ASTM A216 WCB", "material_group": "body_bonnet", "price_per_kg": "280"},
		{"name": "SS 316", "material_group": "plug", "price_per_kg": "520"},
	}
	written, err := CommitPricingRows(app, "materials", rows)
	if err != nil {
		t.Fatalf("CommitPricingRows: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}

	// Re-importing the same key updates in place instead of duplicating.
	rows[0]["price_per_kg"] = "300"
	if _, err := CommitPricingRows(app, "materials", rows[:1]); err != nil {
		t.Fatalf("CommitPricingRows update: %v", err)
	}

	records, err := app.FindRecordsByFilter("materials",
		"name = 'ASTM A216 WCB'", "", 0, 0, nil)
	if err != nil {
		t.Fatalf("query materials: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records for the same key, want 1", len(records))
	}
	if got := records[0].GetFloat("price_per_kg"); got != 300 {
		t.Errorf("price_per_kg = %v, want 300 after re-import", got)
	}
}

func TestMapHeadersToFields(t *testing.T) {
	fields := []TemplateField{
		{Key: "name", Label: "Material"},
		{Key: "price_per_kg", Label: "Price / Kg"},
	}

	mapped, unrecognized := mapHeadersToFields(
		[]string{"Material *", " price / kg ", "Color"}, fields)

	if mapped[0] != "name" || mapped[1] != "price_per_kg" {
		t.Errorf("mapped = %v, want [name price_per_kg ...]", mapped)
	}
	if mapped[2] != "" {
		t.Errorf("unknown column mapped to %q, want empty", mapped[2])
	}
	if len(unrecognized) != 1 || unrecognized[0] != "Color" {
		t.Errorf("unrecognized = %v, want [Color]", unrecognized)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	report, err := GenerateErrorReport([]ImportError{
		{Row: 2, Field: "Material", Message: "Material is required"},
	})
	if err != nil {
		t.Fatalf("GenerateErrorReport: %v", err)
	}
	if len(report) == 0 {
		t.Fatal("expected non-empty xlsx bytes")
	}
}
