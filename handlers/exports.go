package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeAttachment(e *core.RequestEvent, contentType, fileName string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	_, err := e.Response.Write(data)
	return err
}

// HandleQuoteExcelExport streams the customer-facing quotation as an Excel
// workbook.
func HandleQuoteExcelExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		data, err := services.BuildQuoteExportData(app, quoteID)
		if err != nil {
			log.Printf("exports: HandleQuoteExcelExport: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			log.Printf("exports: HandleQuoteExcelExport: generate failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		fileName := fmt.Sprintf("%s.xlsx", data.QuoteNumber)
		return writeAttachment(e, xlsxContentType, fileName, xlsxBytes)
	}
}

// HandleQuotePDFExport streams the customer-facing quotation as a PDF.
func HandleQuotePDFExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		data, err := services.BuildQuoteExportData(app, quoteID)
		if err != nil {
			log.Printf("exports: HandleQuotePDFExport: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("exports: HandleQuotePDFExport: generate failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		fileName := fmt.Sprintf("%s.pdf", data.QuoteNumber)
		return writeAttachment(e, "application/pdf", fileName, pdfBytes)
	}
}
