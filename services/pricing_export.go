package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// GeneratePricingTemplate creates a downloadable .xlsx import template for
// the named pricing dataset.
func GeneratePricingTemplate(datasetName string) ([]byte, error) {
	dataset, err := FindPricingDataset(datasetName)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, dataset.SheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(dataset.Fields))
	for i, field := range dataset.Fields {
		cell := fmt.Sprintf("%s1", columns[i])

		headerText := field.Label
		if field.AlwaysRequired {
			headerText += " *"
		}
		f.SetCellValue(dataset.SheetName, cell, headerText)

		if field.AlwaysRequired {
			f.SetCellStyle(dataset.SheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(dataset.SheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(dataset.SheetName, columns[i], columns[i], width)
	}

	// Dropdown for the material group column
	for i, field := range dataset.Fields {
		if field.Key != "material_group" {
			continue
		}
		col := columns[i]
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", col, col)
		dv.SetDropList([]string{"body_bonnet", "plug", "seat", "stem", "cage"})
		f.AddDataValidation(dataset.SheetName, dv)
	}

	// Freeze header row
	f.SetPanes(dataset.SheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addTemplateInstructionsSheet(f, dataset)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addTemplateInstructionsSheet creates a hidden sheet with field descriptions.
func addTemplateInstructionsSheet(f *excelize.File, dataset PricingDataset) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", fmt.Sprintf("%s Import - Instructions", dataset.Label))
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Field Name", "Required?", "Format Rule", "Description", "Example"}
	cols := columnLetters(5)
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range dataset.Fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if field.AlwaysRequired {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	widths := []float64{20, 12, 30, 45, 25}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

// GeneratePricingWorkbook dumps every pricing dataset into a single workbook,
// one sheet per dataset, in the same column layout the import templates use.
func GeneratePricingWorkbook(app *pocketbase.PocketBase) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})

	datasets := PricingDatasets()
	for dsIdx, dataset := range datasets {
		if dsIdx == 0 {
			f.SetSheetName(f.GetSheetName(0), dataset.SheetName)
		} else {
			f.NewSheet(dataset.SheetName)
		}

		columns := columnLetters(len(dataset.Fields))
		for i, field := range dataset.Fields {
			cell := fmt.Sprintf("%s1", columns[i])
			f.SetCellValue(dataset.SheetName, cell, field.Label)
			f.SetCellStyle(dataset.SheetName, cell, cell, headerStyle)

			width := float64(len(field.Label)) * 1.3
			if width < 15 {
				width = 15
			}
			f.SetColWidth(dataset.SheetName, columns[i], columns[i], width)
		}

		records, err := app.FindRecordsByFilter(dataset.Collection,
			"is_active = true", dataset.KeyFields[0], 0, 0, nil,
		)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", dataset.Collection, err)
		}

		for rowIdx, rec := range records {
			rowNum := rowIdx + 2
			for i, field := range dataset.Fields {
				cell := fmt.Sprintf("%s%d", columns[i], rowNum)
				switch {
				case field.Numeric:
					f.SetCellValue(dataset.SheetName, cell, rec.GetFloat(field.Key))
				case field.Boolean:
					v := "no"
					if rec.GetBool(field.Key) {
						v = "yes"
					}
					f.SetCellValue(dataset.SheetName, cell, v)
				default:
					f.SetCellValue(dataset.SheetName, cell, sanitizeExcelCell(rec.GetString(field.Key)))
				}
			}
		}

		f.SetPanes(dataset.SheetName, &excelize.Panes{
			Freeze:      true,
			Split:       false,
			XSplit:      0,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pricing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
