// Package services holds the pricing domain logic: fact lookups against the
// pricing collections, the product cost calculator, quote aggregation, the
// selection cascade and the import/export helpers.
package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// Material is a priced raw material from the materials collection.
type Material struct {
	ID            string
	Name          string
	PricePerKg    decimal.Decimal
	MaterialGroup string
}

// Series is a valve product family. Its flags govern which optional
// sub-assemblies are selectable at all.
type Series struct {
	ID           string
	SeriesNumber string
	Name         string
	ProductType  string
	HasCage      bool
	HasSealRing  bool
}

// WeightFact is a resolved weight for a cast/machined component, priced as
// weight x material rate.
type WeightFact struct {
	SeriesNumber string
	Size         string
	Rating       string
	Weight       decimal.Decimal
}

// PriceFact is a resolved flat price for a component where machining or
// assembly dominates over raw material weight (stem, seal ring, actuator,
// handwheel).
type PriceFact struct {
	FixedPrice decimal.Decimal
}

// Lookup functions return (fact, false, nil) when no active fact matches.
// Absence is an expected outcome the caller must handle; the error return is
// reserved for store failures.

// GetMaterial resolves a material by record id. Inactive materials are
// treated as not found.
func GetMaterial(app *pocketbase.PocketBase, id string) (Material, bool, error) {
	if id == "" {
		return Material{}, false, nil
	}
	rec, err := app.FindRecordById("materials", id)
	if err != nil {
		return Material{}, false, nil
	}
	if !rec.GetBool("is_active") {
		return Material{}, false, nil
	}
	return Material{
		ID:            rec.Id,
		Name:          rec.GetString("name"),
		PricePerKg:    decimal.NewFromFloat(rec.GetFloat("price_per_kg")),
		MaterialGroup: rec.GetString("material_group"),
	}, true, nil
}

// GetSeries resolves a series by its series number.
func GetSeries(app *pocketbase.PocketBase, seriesNumber string) (Series, bool, error) {
	records, err := app.FindRecordsByFilter(
		"series",
		"series_number = {:series} && is_active = true",
		"", 1, 0,
		map[string]any{"series": seriesNumber},
	)
	if err != nil {
		return Series{}, false, fmt.Errorf("query series: %w", err)
	}
	if len(records) == 0 {
		return Series{}, false, nil
	}
	rec := records[0]
	return Series{
		ID:           rec.Id,
		SeriesNumber: rec.GetString("series_number"),
		Name:         rec.GetString("name"),
		ProductType:  rec.GetString("product_type"),
		HasCage:      rec.GetBool("has_cage"),
		HasSealRing:  rec.GetBool("has_seal_ring"),
	}, true, nil
}

// BodyWeight resolves the body casting weight for a configuration.
func BodyWeight(app *pocketbase.PocketBase, seriesNumber, size, rating, endConnectType string) (WeightFact, bool, error) {
	return weightLookup(app, "body_weights",
		"series_number = {:series} && size = {:size} && rating = {:rating} && end_connect_type = {:sub} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating, "sub": endConnectType})
}

// BonnetWeight resolves the bonnet weight for a configuration.
func BonnetWeight(app *pocketbase.PocketBase, seriesNumber, size, rating, bonnetType string) (WeightFact, bool, error) {
	return weightLookup(app, "bonnet_weights",
		"series_number = {:series} && size = {:size} && rating = {:rating} && bonnet_type = {:sub} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating, "sub": bonnetType})
}

// PlugWeight resolves the plug weight for a configuration.
func PlugWeight(app *pocketbase.PocketBase, seriesNumber, size, rating string) (WeightFact, bool, error) {
	return weightLookup(app, "plug_weights",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// SeatWeight resolves the seat weight for a configuration.
func SeatWeight(app *pocketbase.PocketBase, seriesNumber, size, rating string) (WeightFact, bool, error) {
	return weightLookup(app, "seat_weights",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// CageWeight resolves the cage weight from the standalone cage_weights table.
// Legacy seat-nested cage weights are copied into this table by
// collections.MigrateNestedCageFacts, so this is the only lookup path.
func CageWeight(app *pocketbase.PocketBase, seriesNumber, size, rating string) (WeightFact, bool, error) {
	return weightLookup(app, "cage_weights",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// StemPrice resolves the stem assembly price. Stems are priced by material
// identity, not weight.
func StemPrice(app *pocketbase.PocketBase, seriesNumber, size, rating, materialName string) (PriceFact, bool, error) {
	return priceLookup(app, "stem_prices",
		"series_number = {:series} && size = {:size} && rating = {:rating} && material_name = {:sub} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating, "sub": materialName})
}

// SealRingPrice resolves the seal ring price for a seal type.
func SealRingPrice(app *pocketbase.PocketBase, seriesNumber, size, rating, sealType string) (PriceFact, bool, error) {
	return priceLookup(app, "seal_ring_prices",
		"series_number = {:series} && size = {:size} && rating = {:rating} && seal_type = {:sub} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating, "sub": sealType})
}

// ActuatorPrice resolves a bought-in actuator price by its full key.
func ActuatorPrice(app *pocketbase.PocketBase, actuatorType, actuatorSeries, model, standard string) (PriceFact, bool, error) {
	return priceLookup(app, "actuator_prices",
		"actuator_type = {:type} && actuator_series = {:series} && model = {:model} && standard = {:standard} && is_active = true",
		map[string]any{"type": actuatorType, "series": actuatorSeries, "model": model, "standard": standard})
}

// HandwheelPrice resolves a handwheel price by its full key.
func HandwheelPrice(app *pocketbase.PocketBase, handwheelType, handwheelSeries, model, standard string) (PriceFact, bool, error) {
	return priceLookup(app, "handwheel_prices",
		"handwheel_type = {:type} && handwheel_series = {:series} && model = {:model} && standard = {:standard} && is_active = true",
		map[string]any{"type": handwheelType, "series": handwheelSeries, "model": model, "standard": standard})
}

func weightLookup(app *pocketbase.PocketBase, collection, filter string, params map[string]any) (WeightFact, bool, error) {
	records, err := app.FindRecordsByFilter(collection, filter, "", 1, 0, params)
	if err != nil {
		return WeightFact{}, false, fmt.Errorf("query %s: %w", collection, err)
	}
	if len(records) == 0 {
		return WeightFact{}, false, nil
	}
	rec := records[0]
	return WeightFact{
		SeriesNumber: rec.GetString("series_number"),
		Size:         rec.GetString("size"),
		Rating:       rec.GetString("rating"),
		Weight:       decimal.NewFromFloat(rec.GetFloat("weight")),
	}, true, nil
}

func priceLookup(app *pocketbase.PocketBase, collection, filter string, params map[string]any) (PriceFact, bool, error) {
	records, err := app.FindRecordsByFilter(collection, filter, "", 1, 0, params)
	if err != nil {
		return PriceFact{}, false, fmt.Errorf("query %s: %w", collection, err)
	}
	if len(records) == 0 {
		return PriceFact{}, false, nil
	}
	return PriceFact{FixedPrice: decimal.NewFromFloat(records[0].GetFloat("fixed_price"))}, true, nil
}

// ── Cascade projections ──────────────────────────────────────────────────

// AvailableSizes returns the distinct sizes priced for a series. The body
// weight table defines the saleable envelope, so it is the projection source.
func AvailableSizes(app *pocketbase.PocketBase, seriesNumber string) ([]string, error) {
	return distinctValues(app, "body_weights", "size",
		"series_number = {:series} && is_active = true",
		map[string]any{"series": seriesNumber})
}

// AvailableRatings returns the distinct ratings priced for a series and size.
func AvailableRatings(app *pocketbase.PocketBase, seriesNumber, size string) ([]string, error) {
	return distinctValues(app, "body_weights", "rating",
		"series_number = {:series} && size = {:size} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size})
}

// AvailableEndConnectTypes returns the end connection types priced for a full
// series/size/rating prefix.
func AvailableEndConnectTypes(app *pocketbase.PocketBase, seriesNumber, size, rating string) ([]string, error) {
	return distinctValues(app, "body_weights", "end_connect_type",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// AvailableBonnetTypes returns the bonnet types priced for the prefix.
func AvailableBonnetTypes(app *pocketbase.PocketBase, seriesNumber, size, rating string) ([]string, error) {
	return distinctValues(app, "bonnet_weights", "bonnet_type",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// AvailableSealTypes returns the seal ring types priced for the prefix.
func AvailableSealTypes(app *pocketbase.PocketBase, seriesNumber, size, rating string) ([]string, error) {
	return distinctValues(app, "seal_ring_prices", "seal_type",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// AvailableTrimTypes returns the trim types offered for the prefix.
func AvailableTrimTypes(app *pocketbase.PocketBase, seriesNumber, size, rating string) ([]string, error) {
	return distinctValues(app, "trim_types", "trim_type",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// AvailableStemMaterials returns the stem material names priced for the prefix.
func AvailableStemMaterials(app *pocketbase.PocketBase, seriesNumber, size, rating string) ([]string, error) {
	return distinctValues(app, "stem_prices", "material_name",
		"series_number = {:series} && size = {:size} && rating = {:rating} && is_active = true",
		map[string]any{"series": seriesNumber, "size": size, "rating": rating})
}

// AvailableActuatorTypes returns the distinct actuator types with any priced
// model.
func AvailableActuatorTypes(app *pocketbase.PocketBase) ([]string, error) {
	return distinctValues(app, "actuator_prices", "actuator_type",
		"is_active = true", nil)
}

// AvailableActuatorSeries returns the actuator series priced under a type.
func AvailableActuatorSeries(app *pocketbase.PocketBase, actuatorType string) ([]string, error) {
	return distinctValues(app, "actuator_prices", "actuator_series",
		"actuator_type = {:type} && is_active = true",
		map[string]any{"type": actuatorType})
}

// AvailableActuatorModels returns the actuator models priced under a type and
// series.
func AvailableActuatorModels(app *pocketbase.PocketBase, actuatorType, actuatorSeries string) ([]string, error) {
	return distinctValues(app, "actuator_prices", "model",
		"actuator_type = {:type} && actuator_series = {:series} && is_active = true",
		map[string]any{"type": actuatorType, "series": actuatorSeries})
}

// AvailableHandwheelTypes mirrors the actuator projection for handwheels.
func AvailableHandwheelTypes(app *pocketbase.PocketBase) ([]string, error) {
	return distinctValues(app, "handwheel_prices", "handwheel_type",
		"is_active = true", nil)
}

// AvailableHandwheelSeries returns the handwheel series priced under a type.
func AvailableHandwheelSeries(app *pocketbase.PocketBase, handwheelType string) ([]string, error) {
	return distinctValues(app, "handwheel_prices", "handwheel_series",
		"handwheel_type = {:type} && is_active = true",
		map[string]any{"type": handwheelType})
}

// AvailableHandwheelModels returns the handwheel models priced under a type
// and series.
func AvailableHandwheelModels(app *pocketbase.PocketBase, handwheelType, handwheelSeries string) ([]string, error) {
	return distinctValues(app, "handwheel_prices", "model",
		"handwheel_type = {:type} && handwheel_series = {:series} && is_active = true",
		map[string]any{"type": handwheelType, "series": handwheelSeries})
}

// MaterialsForGroup returns active materials selectable for a component group.
func MaterialsForGroup(app *pocketbase.PocketBase, group string) ([]Material, error) {
	records, err := app.FindRecordsByFilter(
		"materials",
		"material_group = {:group} && is_active = true",
		"name", 0, 0,
		map[string]any{"group": group},
	)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	materials := make([]Material, 0, len(records))
	for _, rec := range records {
		materials = append(materials, Material{
			ID:            rec.Id,
			Name:          rec.GetString("name"),
			PricePerKg:    decimal.NewFromFloat(rec.GetFloat("price_per_kg")),
			MaterialGroup: rec.GetString("material_group"),
		})
	}
	return materials, nil
}

// distinctValues projects the distinct non-empty values of a field over the
// fact rows matching the filter, sorted.
func distinctValues(app *pocketbase.PocketBase, collection, field, filter string, params map[string]any) ([]string, error) {
	records, err := app.FindRecordsByFilter(collection, filter, "", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	seen := make(map[string]bool, len(records))
	var values []string
	for _, rec := range records {
		v := rec.GetString(field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
