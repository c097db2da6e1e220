package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"valvequote/services"
)

func productToResponse(rec *core.Record) map[string]any {
	resp := map[string]any{
		"id":          rec.Id,
		"quote_id":    rec.GetString("quote"),
		"product_tag": rec.GetString("product_tag"),
		"sort_order":  rec.GetInt("sort_order"),
		"calculated":  rec.GetBool("calculated"),
		"quantity":    rec.GetInt("quantity"),

		"series_number":    rec.GetString("series_number"),
		"size":             rec.GetString("size"),
		"rating":           rec.GetString("rating"),
		"end_connect_type": rec.GetString("end_connect_type"),
		"bonnet_type":      rec.GetString("bonnet_type"),
		"seal_type":        rec.GetString("seal_type"),
		"trim_type":        rec.GetString("trim_type"),

		"body_material":      rec.GetString("body_material"),
		"bonnet_material":    rec.GetString("bonnet_material"),
		"plug_material":      rec.GetString("plug_material"),
		"seat_material":      rec.GetString("seat_material"),
		"cage_material":      rec.GetString("cage_material"),
		"stem_material_name": rec.GetString("stem_material_name"),

		"has_cage":      rec.GetBool("has_cage"),
		"has_seal_ring": rec.GetBool("has_seal_ring"),
		"has_actuator":  rec.GetBool("has_actuator"),
		"has_handwheel": rec.GetBool("has_handwheel"),

		"actuator_type":     rec.GetString("actuator_type"),
		"actuator_series":   rec.GetString("actuator_series"),
		"actuator_model":    rec.GetString("actuator_model"),
		"actuator_standard": rec.GetString("actuator_standard"),

		"handwheel_type":     rec.GetString("handwheel_type"),
		"handwheel_series":   rec.GetString("handwheel_series"),
		"handwheel_model":    rec.GetString("handwheel_model"),
		"handwheel_standard": rec.GetString("handwheel_standard"),

		"accessory_items": rec.Get("accessory_items"),
		"testing_items":   rec.Get("testing_items"),
		"tubing_items":    rec.Get("tubing_items"),

		"manufacturing_profit_percent": rec.GetFloat("manufacturing_profit_percent"),
		"boughtout_profit_percent":     rec.GetFloat("boughtout_profit_percent"),
	}

	if rec.GetBool("calculated") {
		for _, field := range []string{
			"body_cost", "bonnet_cost", "plug_cost", "seat_cost", "stem_cost",
			"cage_cost", "seal_ring_cost", "body_subassembly_total",
			"actuator_price", "handwheel_price", "actuator_subassembly_total",
			"tubing_total", "testing_total", "accessories_total",
			"manufacturing_cost", "manufacturing_profit_amount", "manufacturing_cost_with_profit",
			"boughtout_cost", "boughtout_profit_amount", "boughtout_cost_with_profit",
			"unit_cost", "line_total",
		} {
			resp[field] = rec.GetFloat(field)
		}
	}
	return resp
}

// defaultLineItems loads the is_default entries of an item catalog as the
// starting line items for a new product.
func defaultLineItems(app *pocketbase.PocketBase, collection string) ([]services.LineItem, error) {
	records, err := app.FindRecordsByFilter(collection, "is_default = true", "title", 0, 0, nil)
	if err != nil {
		return nil, err
	}
	items := make([]services.LineItem, 0, len(records))
	for _, r := range records {
		qty := r.GetInt("quantity")
		if qty < 1 {
			qty = 1
		}
		items = append(items, services.LineItem{
			Title:    r.GetString("title"),
			Price:    decimal.NewFromFloat(r.GetFloat("price")),
			Quantity: qty,
		})
	}
	return items, nil
}

// HandleProductAdd adds a product line to a quote, preloaded with default
// testing, tubing and accessory items.
func HandleProductAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("quotes", quoteID); err != nil {
			return e.String(http.StatusNotFound, "Quote not found")
		}

		// an empty body is fine, the tag is optional
		var body struct {
			ProductTag string `json:"product_tag"`
		}
		_ = json.NewDecoder(e.Request.Body).Decode(&body)

		existing, err := app.FindRecordsByFilter(
			"quote_products", "quote = {:quoteId}", "", 0, 0,
			map[string]any{"quoteId": quoteID},
		)
		if err != nil {
			log.Printf("quote_products: HandleProductAdd: count failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load products")
		}

		col, err := app.FindCollectionByNameOrId("quote_products")
		if err != nil {
			return e.String(http.StatusInternalServerError, "Products collection missing")
		}

		rec := core.NewRecord(col)
		rec.Set("quote", quoteID)
		rec.Set("product_tag", strings.TrimSpace(body.ProductTag))
		rec.Set("sort_order", len(existing)+1)
		rec.Set("quantity", 1)
		rec.Set("manufacturing_profit_percent", 20.0)
		rec.Set("boughtout_profit_percent", 10.0)
		rec.Set("calculated", false)

		for field, catalog := range map[string]string{
			"accessory_items": "accessories",
			"testing_items":   "testing_items",
			"tubing_items":    "tubing_items",
		} {
			items, err := defaultLineItems(app, catalog)
			if err != nil {
				log.Printf("quote_products: HandleProductAdd: load %s defaults: %v", catalog, err)
				return e.String(http.StatusInternalServerError, "Failed to load default items")
			}
			encoded, err := json.Marshal(items)
			if err != nil {
				return e.String(http.StatusInternalServerError, "Failed to encode default items")
			}
			rec.Set(field, string(encoded))
		}

		if err := app.Save(rec); err != nil {
			log.Printf("quote_products: HandleProductAdd: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to add product")
		}
		return e.JSON(http.StatusCreated, productToResponse(rec))
	}
}

// selectionPatch is a single dropdown/toggle edit. Routing every edit through
// the Selection mutators keeps downstream fields consistent with the changed
// upstream value.
type selectionPatch struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// HandleProductSelection applies one configuration edit, cascading the clears,
// and marks the product as needing recalculation.
func HandleProductSelection(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		var patch selectionPatch
		if err := json.NewDecoder(e.Request.Body).Decode(&patch); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		sel := services.SelectionFromRecord(rec)
		str := cast.ToString(patch.Value)

		switch patch.Field {
		case "series_number":
			sel.SetSeries(str)
			if series, ok, err := services.GetSeries(app, str); err == nil && ok {
				sel.HasCage = series.HasCage
				sel.HasSealRing = series.HasSealRing
			}
		case "size":
			sel.SetSize(str)
		case "rating":
			sel.SetRating(str)
		case "end_connect_type":
			sel.EndConnectType = str
		case "bonnet_type":
			sel.BonnetType = str
		case "seal_type":
			sel.SealType = str
		case "trim_type":
			sel.TrimType = str
		case "body_material":
			sel.BodyMaterialID = str
		case "bonnet_material":
			sel.BonnetMaterialID = str
		case "plug_material":
			sel.PlugMaterialID = str
		case "seat_material":
			sel.SeatMaterialID = str
		case "cage_material":
			sel.CageMaterialID = str
		case "stem_material_name":
			sel.StemMaterialName = str
		case "has_cage":
			sel.HasCage = cast.ToBool(patch.Value)
			if !sel.HasCage {
				sel.CageMaterialID = ""
			}
		case "has_seal_ring":
			sel.HasSealRing = cast.ToBool(patch.Value)
			if !sel.HasSealRing {
				sel.SealType = ""
			}
		case "has_actuator":
			sel.HasActuator = cast.ToBool(patch.Value)
			if !sel.HasActuator {
				sel.ActuatorType = ""
				sel.ActuatorSeries = ""
				sel.ActuatorModel = ""
				sel.ActuatorStandard = ""
				sel.HasHandwheel = false
				sel.HandwheelType = ""
				sel.HandwheelSeries = ""
				sel.HandwheelModel = ""
				sel.HandwheelStandard = ""
			}
		case "has_handwheel":
			sel.HasHandwheel = cast.ToBool(patch.Value)
			if !sel.HasHandwheel {
				sel.HandwheelType = ""
				sel.HandwheelSeries = ""
				sel.HandwheelModel = ""
				sel.HandwheelStandard = ""
			}
		case "actuator_type":
			sel.SetActuatorType(str)
		case "actuator_series":
			sel.SetActuatorSeries(str)
		case "actuator_model":
			sel.ActuatorModel = str
		case "actuator_standard":
			sel.ActuatorStandard = str
		case "handwheel_type":
			sel.SetHandwheelType(str)
		case "handwheel_series":
			sel.SetHandwheelSeries(str)
		case "handwheel_model":
			sel.HandwheelModel = str
		case "handwheel_standard":
			sel.HandwheelStandard = str
		default:
			return e.String(http.StatusBadRequest, "Unknown selection field: "+patch.Field)
		}

		services.ApplySelectionToRecord(rec, sel)
		rec.Set("calculated", false)

		if err := app.Save(rec); err != nil {
			log.Printf("quote_products: HandleProductSelection: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update product")
		}

		if _, err := services.RecalculateQuote(app, rec.GetString("quote")); err != nil {
			log.Printf("quote_products: HandleProductSelection: recalculate failed: %v", err)
		}

		opts, err := services.OptionsFor(app, sel)
		if err != nil {
			log.Printf("quote_products: HandleProductSelection: options failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load options")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"product": productToResponse(rec),
			"options": opts,
		})
	}
}

// HandleProductItems replaces one of the product's line item lists.
func HandleProductItems(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		var body struct {
			Field string              `json:"field"`
			Items []services.LineItem `json:"items"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		switch body.Field {
		case "accessory_items", "testing_items", "tubing_items":
		default:
			return e.String(http.StatusBadRequest, "Unknown item field: "+body.Field)
		}

		encoded, err := json.Marshal(body.Items)
		if err != nil {
			return e.String(http.StatusBadRequest, "Invalid items")
		}
		rec.Set(body.Field, string(encoded))
		rec.Set("calculated", false)

		if err := app.Save(rec); err != nil {
			log.Printf("quote_products: HandleProductItems: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update items")
		}

		if _, err := services.RecalculateQuote(app, rec.GetString("quote")); err != nil {
			log.Printf("quote_products: HandleProductItems: recalculate failed: %v", err)
		}
		return e.JSON(http.StatusOK, productToResponse(rec))
	}
}

// HandleProductProfit updates a profit percentage and invalidates the stored
// breakdown.
func HandleProductProfit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		var body struct {
			ManufacturingProfitPercent *float64 `json:"manufacturing_profit_percent"`
			BoughtoutProfitPercent     *float64 `json:"boughtout_profit_percent"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if body.ManufacturingProfitPercent != nil {
			if *body.ManufacturingProfitPercent < 0 {
				return e.String(http.StatusBadRequest, "Profit percent must not be negative")
			}
			rec.Set("manufacturing_profit_percent", *body.ManufacturingProfitPercent)
		}
		if body.BoughtoutProfitPercent != nil {
			if *body.BoughtoutProfitPercent < 0 {
				return e.String(http.StatusBadRequest, "Profit percent must not be negative")
			}
			rec.Set("boughtout_profit_percent", *body.BoughtoutProfitPercent)
		}
		rec.Set("calculated", false)

		if err := app.Save(rec); err != nil {
			log.Printf("quote_products: HandleProductProfit: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update profit")
		}

		if _, err := services.RecalculateQuote(app, rec.GetString("quote")); err != nil {
			log.Printf("quote_products: HandleProductProfit: recalculate failed: %v", err)
		}
		return e.JSON(http.StatusOK, productToResponse(rec))
	}
}

// HandleProductQuantity is the quantity-only edit. It never re-runs lookups:
// the line total is rebuilt from the stored unit cost.
func HandleProductQuantity(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if err := services.ApplyQuantity(app, rec, body.Quantity); err != nil {
			var verrs services.ValidationErrors
			if errors.As(err, &verrs) {
				return e.JSON(http.StatusUnprocessableEntity, map[string]any{"errors": verrs.FieldMap()})
			}
			log.Printf("quote_products: HandleProductQuantity: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to update quantity")
		}

		if _, err := services.RecalculateQuote(app, rec.GetString("quote")); err != nil {
			log.Printf("quote_products: HandleProductQuantity: recalculate failed: %v", err)
		}
		return e.JSON(http.StatusOK, productToResponse(rec))
	}
}

// HandleProductCalculate runs the full cost calculation for one product and
// re-aggregates the quote.
func HandleProductCalculate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		if err := services.CalculateProduct(app, rec); err != nil {
			var verrs services.ValidationErrors
			if errors.As(err, &verrs) {
				return e.JSON(http.StatusUnprocessableEntity, map[string]any{"errors": verrs.FieldMap()})
			}
			var notFound *services.LookupNotFoundError
			if errors.As(err, &notFound) {
				return e.JSON(http.StatusUnprocessableEntity, map[string]any{"message": notFound.Error()})
			}
			log.Printf("quote_products: HandleProductCalculate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to calculate product")
		}

		totals, err := services.RecalculateQuote(app, rec.GetString("quote"))
		if err != nil {
			log.Printf("quote_products: HandleProductCalculate: recalculate failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to recalculate totals")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"product": productToResponse(rec),
			"totals":  totals,
		})
	}
}

// HandleProductDelete removes a product line and re-aggregates the quote.
func HandleProductDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}
		quoteID := rec.GetString("quote")

		if err := app.Delete(rec); err != nil {
			log.Printf("quote_products: HandleProductDelete: delete failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete product")
		}

		if _, err := services.RecalculateQuote(app, quoteID); err != nil {
			log.Printf("quote_products: HandleProductDelete: recalculate failed: %v", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": rec.Id})
	}
}
