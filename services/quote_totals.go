package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// PricingType selects whether freight is part of the taxable base.
type PricingType string

const (
	// PricingExWorks excludes freight from the quote entirely.
	PricingExWorks PricingType = "ex_works"
	// PricingFOR (Free on Road) includes freight in the taxable base.
	PricingFOR PricingType = "for"
)

// QuoteTotals is the quote-level aggregation over calculated products.
type QuoteTotals struct {
	ProductSubtotal        decimal.Decimal
	DiscountAmount         decimal.Decimal
	DiscountedProductTotal decimal.Decimal
	FreightIncluded        decimal.Decimal
	TaxableAmount          decimal.Decimal
	TaxAmount              decimal.Decimal
	Total                  decimal.Decimal
}

// CalcQuoteTotals sums calculated product line totals into the customer-facing
// quote total. The ordering is fixed and changes the result if disturbed:
// discount applies to the product subtotal only, packaging and (for F.O.R.
// pricing) freight join the base after the discount, and tax applies last.
// Inputs are assumed already calculated; no re-validation happens here.
func CalcQuoteTotals(lineTotals []decimal.Decimal, discountPercent, taxPercent, packagePrice, freightPrice decimal.Decimal, pricingType PricingType) QuoteTotals {
	var t QuoteTotals

	t.ProductSubtotal = decimal.Zero
	for _, lt := range lineTotals {
		t.ProductSubtotal = t.ProductSubtotal.Add(lt)
	}

	t.DiscountAmount = t.ProductSubtotal.Mul(discountPercent).Div(hundred).Round(2)
	t.DiscountedProductTotal = t.ProductSubtotal.Sub(t.DiscountAmount)

	if pricingType == PricingFOR {
		t.FreightIncluded = freightPrice
	} else {
		t.FreightIncluded = decimal.Zero
	}

	t.TaxableAmount = t.DiscountedProductTotal.Add(packagePrice).Add(t.FreightIncluded)
	t.TaxAmount = t.TaxableAmount.Mul(taxPercent).Div(hundred).Round(2)
	t.Total = t.TaxableAmount.Add(t.TaxAmount)

	return t
}

// RecalculateQuote re-aggregates a quote from its calculated products and
// persists the totals on the quote record. Called after any product or
// header mutation.
func RecalculateQuote(app *pocketbase.PocketBase, quoteID string) (QuoteTotals, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return QuoteTotals{}, fmt.Errorf("quote not found: %w", err)
	}

	products, err := app.FindRecordsByFilter(
		"quote_products",
		"quote = {:quoteId} && calculated = true",
		"sort_order", 0, 0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return QuoteTotals{}, fmt.Errorf("query quote products: %w", err)
	}

	lineTotals := make([]decimal.Decimal, 0, len(products))
	for _, p := range products {
		lineTotals = append(lineTotals, decimal.NewFromFloat(p.GetFloat("line_total")))
	}

	totals := CalcQuoteTotals(
		lineTotals,
		decimal.NewFromFloat(quote.GetFloat("discount_percent")),
		decimal.NewFromFloat(quote.GetFloat("tax_percent")),
		decimal.NewFromFloat(quote.GetFloat("package_price")),
		decimal.NewFromFloat(quote.GetFloat("freight_price")),
		PricingType(quote.GetString("pricing_type")),
	)

	quote.Set("subtotal", totals.ProductSubtotal.InexactFloat64())
	quote.Set("discount_amount", totals.DiscountAmount.InexactFloat64())
	quote.Set("tax_amount", totals.TaxAmount.InexactFloat64())
	quote.Set("total", totals.Total.InexactFloat64())

	if err := app.Save(quote); err != nil {
		return QuoteTotals{}, fmt.Errorf("save quote totals: %w", err)
	}
	return totals, nil
}
