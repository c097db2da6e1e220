package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// ProductExportRow is one priced product line in a quote export.
type ProductExportRow struct {
	Index       string
	Tag         string
	Description string
	Qty         float64
	UnitCost    float64
	LineTotal   float64

	BodySubAssemblyTotal        float64
	ActuatorSubAssemblyTotal    float64
	ManufacturingCostWithProfit float64
	BoughtoutCostWithProfit     float64
}

// QuoteExportData holds everything the Excel and PDF generators need. The
// generators are pure consumers; they read fields and impose nothing back.
type QuoteExportData struct {
	QuoteNumber  string
	CustomerName string
	CreatedDate  string
	PricingType  PricingType
	Status       string

	Rows []ProductExportRow

	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	PackagePrice    float64
	FreightPrice    float64
	TaxPercent      float64
	TaxAmount       float64
	Total           float64

	AmountInWords string
}

// BuildQuoteExportData assembles the export payload for a quote from its
// stored records. Only calculated products appear on customer documents.
func BuildQuoteExportData(app *pocketbase.PocketBase, quoteID string) (QuoteExportData, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return QuoteExportData{}, fmt.Errorf("quote not found: %w", err)
	}

	data := QuoteExportData{
		QuoteNumber:     quote.GetString("quote_number"),
		CreatedDate:     quote.GetDateTime("created").Time().Format("02 Jan 2006"),
		PricingType:     PricingType(quote.GetString("pricing_type")),
		Status:          quote.GetString("status"),
		Subtotal:        quote.GetFloat("subtotal"),
		DiscountPercent: quote.GetFloat("discount_percent"),
		DiscountAmount:  quote.GetFloat("discount_amount"),
		PackagePrice:    quote.GetFloat("package_price"),
		FreightPrice:    quote.GetFloat("freight_price"),
		TaxPercent:      quote.GetFloat("tax_percent"),
		TaxAmount:       quote.GetFloat("tax_amount"),
		Total:           quote.GetFloat("total"),
	}

	if customerID := quote.GetString("customer"); customerID != "" {
		customer, err := app.FindRecordById("customers", customerID)
		if err == nil {
			data.CustomerName = customer.GetString("name")
		}
	}

	products, err := app.FindRecordsByFilter(
		"quote_products",
		"quote = {:quoteId} && calculated = true",
		"sort_order", 0, 0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return QuoteExportData{}, fmt.Errorf("query quote products: %w", err)
	}

	for i, p := range products {
		data.Rows = append(data.Rows, ProductExportRow{
			Index:       fmt.Sprintf("%d", i+1),
			Tag:         p.GetString("product_tag"),
			Description: productDescription(p.GetString("series_number"), p.GetString("size"), p.GetString("rating"), p.GetString("end_connect_type")),
			Qty:         float64(p.GetInt("quantity")),
			UnitCost:    p.GetFloat("unit_cost"),
			LineTotal:   p.GetFloat("line_total"),

			BodySubAssemblyTotal:        p.GetFloat("body_subassembly_total"),
			ActuatorSubAssemblyTotal:    p.GetFloat("actuator_subassembly_total"),
			ManufacturingCostWithProfit: p.GetFloat("manufacturing_cost_with_profit"),
			BoughtoutCostWithProfit:     p.GetFloat("boughtout_cost_with_profit"),
		})
	}

	data.AmountInWords = AmountToWords(decimal.NewFromFloat(data.Total))

	return data, nil
}

// productDescription builds the customer-facing line description from the
// configuration keys.
func productDescription(seriesNumber, size, rating, endConnectType string) string {
	parts := []string{}
	if seriesNumber != "" {
		parts = append(parts, "Series "+seriesNumber)
	}
	if size != "" {
		parts = append(parts, size)
	}
	if rating != "" {
		parts = append(parts, rating)
	}
	if endConnectType != "" {
		parts = append(parts, endConnectType)
	}
	return strings.Join(parts, ", ")
}
