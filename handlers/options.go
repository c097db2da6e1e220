package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"valvequote/services"
)

// HandleProductOptions returns the cascading dropdown options for one
// product's current selection state.
func HandleProductOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("quote_products", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Product not found")
		}

		sel := services.SelectionFromRecord(rec)
		opts, err := services.OptionsFor(app, sel)
		if err != nil {
			log.Printf("options: HandleProductOptions: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load options")
		}
		return e.JSON(http.StatusOK, opts)
	}
}

// HandleSeriesList returns the active series for the series dropdown.
func HandleSeriesList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("series", "is_active = true", "series_number", 0, 0, nil)
		if err != nil {
			log.Printf("options: HandleSeriesList: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load series")
		}

		resp := make([]map[string]any, 0, len(records))
		for _, r := range records {
			resp = append(resp, map[string]any{
				"series_number": r.GetString("series_number"),
				"name":          r.GetString("name"),
				"product_type":  r.GetString("product_type"),
				"has_cage":      r.GetBool("has_cage"),
				"has_seal_ring": r.GetBool("has_seal_ring"),
			})
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleMaterialOptions returns the active materials of one material group.
func HandleMaterialOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		group := e.Request.PathValue("group")
		if group == "" {
			return e.String(http.StatusBadRequest, "Missing material group")
		}

		materials, err := services.MaterialsForGroup(app, group)
		if err != nil {
			log.Printf("options: HandleMaterialOptions: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load materials")
		}

		resp := make([]map[string]any, 0, len(materials))
		for _, m := range materials {
			resp = append(resp, map[string]any{
				"id":           m.ID,
				"name":         m.Name,
				"price_per_kg": m.PricePerKg.InexactFloat64(),
			})
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleActuatorOptions returns the top level actuator and handwheel type
// lists. The dependent series/model levels come from the cascade options.
func HandleActuatorOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		actuatorTypes, err := services.AvailableActuatorTypes(app)
		if err != nil {
			log.Printf("options: HandleActuatorOptions: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load actuator types")
		}
		handwheelTypes, err := services.AvailableHandwheelTypes(app)
		if err != nil {
			log.Printf("options: HandleActuatorOptions: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load handwheel types")
		}
		return e.JSON(http.StatusOK, map[string]any{
			"actuator_types":  actuatorTypes,
			"handwheel_types": handwheelTypes,
		})
	}
}

// HandleItemCatalog returns an item catalog (accessories, testing or tubing)
// for the line item pickers.
func HandleItemCatalog(app *pocketbase.PocketBase, collection string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(collection, "id != ''", "title", 0, 0, nil)
		if err != nil {
			log.Printf("options: HandleItemCatalog(%s): %v", collection, err)
			return e.String(http.StatusInternalServerError, "Failed to load items")
		}

		resp := make([]map[string]any, 0, len(records))
		for _, r := range records {
			item := map[string]any{
				"title":      r.GetString("title"),
				"price":      r.GetFloat("price"),
				"is_default": r.GetBool("is_default"),
			}
			if collection == "accessories" {
				item["quantity"] = r.GetInt("quantity")
			}
			resp = append(resp, item)
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleDropdowns returns the static enumerations the client renders without
// any upstream selection.
func HandleDropdowns(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"material_groups": services.MaterialGroups,
			"product_types":   services.ProductTypes,
			"quote_statuses":  services.QuoteStatuses,
			"pricing_types":   services.PricingTypes,
			"tax_options":     services.TaxOptions,
		})
	}
}
