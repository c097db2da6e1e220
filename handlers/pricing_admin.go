package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/services"
)

// HandlePricingDatasets lists the importable pricing datasets.
func HandlePricingDatasets(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		datasets := services.PricingDatasets()
		resp := make([]map[string]any, 0, len(datasets))
		for _, d := range datasets {
			resp = append(resp, map[string]any{
				"name":  d.Name,
				"label": d.Label,
			})
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandlePricingTemplate downloads the fill-in template for one dataset.
func HandlePricingTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		datasetName := e.Request.PathValue("dataset")

		xlsxBytes, err := services.GeneratePricingTemplate(datasetName)
		if err != nil {
			log.Printf("pricing_admin: HandlePricingTemplate: %v", err)
			return e.String(http.StatusBadRequest, "Unknown pricing dataset")
		}

		fileName := fmt.Sprintf("%s_template.xlsx", datasetName)
		return writeAttachment(e, xlsxContentType, fileName, xlsxBytes)
	}
}

// HandlePricingValidate parses and validates an uploaded pricing file without
// writing anything. The parsed rows are echoed back so the client can submit
// them unchanged to the commit endpoint.
func HandlePricingValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		datasetName := e.Request.PathValue("dataset")

		// max 10MB upload
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.String(http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidatePricingFile(app, file, header.Filename, datasetName)
		if err != nil {
			log.Printf("pricing_admin: HandlePricingValidate: %v", err)
			return e.String(http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, map[string]any{
			"dataset":     result.Dataset,
			"file_name":   result.FileName,
			"total_rows":  result.TotalRows,
			"valid_rows":  result.ValidRows,
			"error_rows":  result.ErrorRows,
			"errors":      result.Errors,
			"parsed_rows": result.ParsedRows,
		})
	}
}

// HandlePricingCommit upserts previously validated rows into the dataset's
// collection.
func HandlePricingCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		datasetName := e.Request.PathValue("dataset")

		var body struct {
			Rows []map[string]string `json:"rows"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if len(body.Rows) == 0 {
			return e.String(http.StatusBadRequest, "No rows to import. Validate a file first.")
		}

		imported, err := services.CommitPricingRows(app, datasetName, body.Rows)
		if err != nil {
			log.Printf("pricing_admin: HandlePricingCommit: %v", err)
			return e.String(http.StatusInternalServerError, "Import failed: "+err.Error())
		}

		return e.JSON(http.StatusOK, map[string]any{
			"dataset":  datasetName,
			"imported": imported,
		})
	}
}

// HandlePricingErrorReport downloads the validation errors of an upload as an
// Excel sheet.
func HandlePricingErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Errors []services.ImportError `json:"errors"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if len(body.Errors) == 0 {
			return e.String(http.StatusBadRequest, "No errors to report")
		}

		xlsxBytes, err := services.GenerateErrorReport(body.Errors)
		if err != nil {
			log.Printf("pricing_admin: HandlePricingErrorReport: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		return writeAttachment(e, xlsxContentType, "import_errors.xlsx", xlsxBytes)
	}
}

// HandlePricingWorkbook downloads every active pricing dataset as one
// workbook, one sheet per dataset.
func HandlePricingWorkbook(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GeneratePricingWorkbook(app)
		if err != nil {
			log.Printf("pricing_admin: HandlePricingWorkbook: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate pricing workbook")
		}
		return writeAttachment(e, xlsxContentType, "pricing_data.xlsx", xlsxBytes)
	}
}
