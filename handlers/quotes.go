// Package handlers wires the HTTP surface of the quoting application. Every
// handler is a closure over the PocketBase app serving JSON, registered in
// main.go.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/services"
)

// quoteResponse is the JSON shape of a quote header.
type quoteResponse struct {
	ID             string  `json:"id"`
	QuoteNumber    string  `json:"quote_number"`
	CustomerID     string  `json:"customer_id"`
	CustomerName   string  `json:"customer_name,omitempty"`
	Status         string  `json:"status"`
	PricingType    string  `json:"pricing_type"`
	DiscountPct    float64 `json:"discount_percent"`
	TaxPct         float64 `json:"tax_percent"`
	PackagePrice   float64 `json:"package_price"`
	FreightPrice   float64 `json:"freight_price"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
	Created        string  `json:"created"`
}

func quoteToResponse(app *pocketbase.PocketBase, rec *core.Record) quoteResponse {
	resp := quoteResponse{
		ID:             rec.Id,
		QuoteNumber:    rec.GetString("quote_number"),
		CustomerID:     rec.GetString("customer"),
		Status:         rec.GetString("status"),
		PricingType:    rec.GetString("pricing_type"),
		DiscountPct:    rec.GetFloat("discount_percent"),
		TaxPct:         rec.GetFloat("tax_percent"),
		PackagePrice:   rec.GetFloat("package_price"),
		FreightPrice:   rec.GetFloat("freight_price"),
		Subtotal:       rec.GetFloat("subtotal"),
		DiscountAmount: rec.GetFloat("discount_amount"),
		TaxAmount:      rec.GetFloat("tax_amount"),
		Total:          rec.GetFloat("total"),
		Created:        rec.GetDateTime("created").Time().Format(time.RFC3339),
	}
	if resp.CustomerID != "" {
		if customer, err := app.FindRecordById("customers", resp.CustomerID); err == nil {
			resp.CustomerName = customer.GetString("name")
		}
	}
	return resp
}

// HandleQuoteList returns all quotes, newest first.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes, err := app.FindRecordsByFilter("quotes", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("quotes: HandleQuoteList: query failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load quotes")
		}

		resp := make([]quoteResponse, 0, len(quotes))
		for _, q := range quotes {
			resp = append(resp, quoteToResponse(app, q))
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleQuoteCreate creates a draft quote with a generated quote number.
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			CustomerID  string `json:"customer_id"`
			PricingType string `json:"pricing_type"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		pricingType := body.PricingType
		if pricingType == "" {
			pricingType = string(services.PricingExWorks)
		}
		if pricingType != string(services.PricingExWorks) && pricingType != string(services.PricingFOR) {
			return e.String(http.StatusBadRequest, "pricing_type must be ex_works or for")
		}

		quoteNumber, err := services.GenerateQuoteNumber(app, time.Now())
		if err != nil {
			log.Printf("quotes: HandleQuoteCreate: generate number: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate quote number")
		}

		col, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			return e.String(http.StatusInternalServerError, "Quotes collection missing")
		}

		rec := core.NewRecord(col)
		rec.Set("quote_number", quoteNumber)
		rec.Set("customer", body.CustomerID)
		rec.Set("status", "draft")
		rec.Set("pricing_type", pricingType)
		rec.Set("discount_percent", 0.0)
		rec.Set("tax_percent", 18.0)
		rec.Set("package_price", 0.0)
		rec.Set("freight_price", 0.0)

		if err := app.Save(rec); err != nil {
			log.Printf("quotes: HandleQuoteCreate: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create quote")
		}
		return e.JSON(http.StatusCreated, quoteToResponse(app, rec))
	}
}

// HandleQuoteView returns one quote with its products.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		products, err := app.FindRecordsByFilter(
			"quote_products", "quote = {:quoteId}", "sort_order", 0, 0,
			map[string]any{"quoteId": quoteID},
		)
		if err != nil {
			log.Printf("quotes: HandleQuoteView: products query failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load products")
		}

		productList := make([]map[string]any, 0, len(products))
		for _, p := range products {
			productList = append(productList, productToResponse(p))
		}

		return e.JSON(http.StatusOK, map[string]any{
			"quote":    quoteToResponse(app, quote),
			"products": productList,
		})
	}
}

// HandleQuoteUpdate patches the commercial header fields and re-aggregates the
// totals.
func HandleQuoteUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		var body struct {
			CustomerID      *string  `json:"customer_id"`
			PricingType     *string  `json:"pricing_type"`
			DiscountPercent *float64 `json:"discount_percent"`
			TaxPercent      *float64 `json:"tax_percent"`
			PackagePrice    *float64 `json:"package_price"`
			FreightPrice    *float64 `json:"freight_price"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if body.PricingType != nil {
			if *body.PricingType != string(services.PricingExWorks) && *body.PricingType != string(services.PricingFOR) {
				return e.String(http.StatusBadRequest, "pricing_type must be ex_works or for")
			}
			quote.Set("pricing_type", *body.PricingType)
		}
		if body.CustomerID != nil {
			quote.Set("customer", *body.CustomerID)
		}
		if body.DiscountPercent != nil {
			if *body.DiscountPercent < 0 || *body.DiscountPercent > 100 {
				return e.String(http.StatusBadRequest, "discount_percent must be between 0 and 100")
			}
			quote.Set("discount_percent", *body.DiscountPercent)
		}
		if body.TaxPercent != nil {
			if *body.TaxPercent < 0 {
				return e.String(http.StatusBadRequest, "tax_percent must not be negative")
			}
			quote.Set("tax_percent", *body.TaxPercent)
		}
		if body.PackagePrice != nil {
			quote.Set("package_price", *body.PackagePrice)
		}
		if body.FreightPrice != nil {
			quote.Set("freight_price", *body.FreightPrice)
		}

		if err := app.Save(quote); err != nil {
			log.Printf("quotes: HandleQuoteUpdate: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update quote")
		}

		if _, err := services.RecalculateQuote(app, quoteID); err != nil {
			log.Printf("quotes: HandleQuoteUpdate: recalculate failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to recalculate totals")
		}

		updated, _ := app.FindRecordById("quotes", quoteID)
		return e.JSON(http.StatusOK, quoteToResponse(app, updated))
	}
}

// HandleQuoteStatus moves a quote through its lifecycle.
func HandleQuoteStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		valid := false
		for _, s := range services.QuoteStatuses {
			if s == body.Status {
				valid = true
				break
			}
		}
		if !valid {
			return e.String(http.StatusBadRequest, "Unknown status")
		}

		quote.Set("status", body.Status)
		if err := app.Save(quote); err != nil {
			log.Printf("quotes: HandleQuoteStatus: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update status")
		}
		return e.JSON(http.StatusOK, quoteToResponse(app, quote))
	}
}

// HandleQuoteDelete removes a quote. Its products cascade.
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		if err := app.Delete(quote); err != nil {
			log.Printf("quotes: HandleQuoteDelete: delete failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete quote")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": quoteID})
	}
}
