package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ImportError represents a single field-level error on one uploaded row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded pricing file.
type ImportResult struct {
	Dataset    string              `json:"dataset"`
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ImportError       `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns an ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		normalized := strings.ToLower(strings.TrimSpace(f.Label))
		labelToKey[normalized] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that our template adds for required fields
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidatePricingFile parses and validates an uploaded pricing file against
// the named dataset. Rows referencing a series must match an existing series
// number.
func ValidatePricingFile(
	app *pocketbase.PocketBase,
	file multipart.File,
	fileName string,
	datasetName string,
) (*ImportResult, error) {
	dataset, err := FindPricingDataset(datasetName)
	if err != nil {
		return nil, err
	}

	var headers []string
	var dataRows [][]string

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, dataset.Fields)

	fieldByKey := make(map[string]TemplateField, len(dataset.Fields))
	for _, f := range dataset.Fields {
		fieldByKey[f.Key] = f
	}

	// Load known series numbers once for reference validation.
	var seriesNumbers map[string]bool
	if fieldByKey["series_number"].Key != "" {
		seriesNumbers, err = loadSeriesNumbers(app)
		if err != nil {
			return nil, fmt.Errorf("load series numbers: %w", err)
		}
	}

	result := &ImportResult{
		Dataset:    dataset.Name,
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		var rowErrors []ImportError

		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		for _, field := range dataset.Fields {
			value := rowData[field.Key]

			if field.AlwaysRequired && value == "" {
				rowErrors = append(rowErrors, ImportError{
					Row:     rowNum,
					Field:   field.Label,
					Message: fmt.Sprintf("%s is required", field.Label),
				})
				continue
			}
			if value == "" {
				continue
			}

			if field.Numeric {
				n, err := strconv.ParseFloat(value, 64)
				if err != nil {
					rowErrors = append(rowErrors, ImportError{
						Row:     rowNum,
						Field:   field.Label,
						Message: fmt.Sprintf("%s must be a number", field.Label),
					})
				} else if n < 0 {
					rowErrors = append(rowErrors, ImportError{
						Row:     rowNum,
						Field:   field.Label,
						Message: fmt.Sprintf("%s must not be negative", field.Label),
					})
				}
			}
			if field.Boolean && !isYesNo(value) {
				rowErrors = append(rowErrors, ImportError{
					Row:     rowNum,
					Field:   field.Label,
					Message: fmt.Sprintf("%s must be yes or no", field.Label),
				})
			}
			if field.Key == "material_group" && !validMaterialGroups[value] {
				rowErrors = append(rowErrors, ImportError{
					Row:     rowNum,
					Field:   field.Label,
					Message: "Group must be one of: body_bonnet, plug, seat, stem, cage",
				})
			}
			if field.Key == "series_number" && !seriesNumbers[value] {
				rowErrors = append(rowErrors, ImportError{
					Row:     rowNum,
					Field:   field.Label,
					Message: fmt.Sprintf("No series with number %q found", value),
				})
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

var validMaterialGroups = map[string]bool{
	"body_bonnet": true,
	"plug":        true,
	"seat":        true,
	"stem":        true,
	"cage":        true,
}

func isYesNo(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "no", "y", "n", "true", "false":
		return true
	}
	return false
}

func parseYesNo(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true":
		return true
	}
	return false
}

// loadSeriesNumbers fetches all active series numbers.
func loadSeriesNumbers(app *pocketbase.PocketBase) (map[string]bool, error) {
	records, err := app.FindRecordsByFilter("series",
		"is_active = true", "", 0, 0, nil,
	)
	if err != nil {
		return make(map[string]bool), nil
	}

	numbers := make(map[string]bool, len(records))
	for _, r := range records {
		num := r.GetString("series_number")
		if num != "" {
			numbers[num] = true
		}
	}
	return numbers, nil
}

// CommitPricingRows upserts validated rows into the dataset's collection.
// Rows matching an existing record on the dataset's key fields update it;
// others create new records. Returns the number of rows written.
func CommitPricingRows(app *pocketbase.PocketBase, datasetName string, rows []map[string]string) (int, error) {
	dataset, err := FindPricingDataset(datasetName)
	if err != nil {
		return 0, err
	}

	col, err := app.FindCollectionByNameOrId(dataset.Collection)
	if err != nil {
		return 0, fmt.Errorf("find collection %s: %w", dataset.Collection, err)
	}

	fieldByKey := make(map[string]TemplateField, len(dataset.Fields))
	for _, f := range dataset.Fields {
		fieldByKey[f.Key] = f
	}

	written := 0
	for _, rowData := range rows {
		rec, err := findExistingPricingRecord(app, dataset, rowData)
		if err != nil {
			return written, err
		}
		if rec == nil {
			rec = core.NewRecord(col)
		}

		for key, value := range rowData {
			field, ok := fieldByKey[key]
			if !ok {
				continue
			}
			switch {
			case field.Numeric:
				n, _ := strconv.ParseFloat(value, 64)
				rec.Set(key, n)
			case field.Boolean:
				rec.Set(key, parseYesNo(value))
			default:
				rec.Set(key, value)
			}
		}
		rec.Set("is_active", true)

		if err := app.Save(rec); err != nil {
			return written, fmt.Errorf("save %s row: %w", dataset.Collection, err)
		}
		written++
	}
	return written, nil
}

// findExistingPricingRecord looks up a record by the dataset's key fields.
// Returns nil when no match exists.
func findExistingPricingRecord(app *pocketbase.PocketBase, dataset PricingDataset, rowData map[string]string) (*core.Record, error) {
	conditions := make([]string, 0, len(dataset.KeyFields))
	params := map[string]any{}
	for i, key := range dataset.KeyFields {
		placeholder := fmt.Sprintf("k%d", i)
		conditions = append(conditions, fmt.Sprintf("%s = {:%s}", key, placeholder))
		params[placeholder] = rowData[key]
	}

	records, err := app.FindRecordsByFilter(dataset.Collection,
		strings.Join(conditions, " && "), "", 1, 0, params,
	)
	if err != nil || len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
