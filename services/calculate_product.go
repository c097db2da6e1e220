package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// SelectionFromRecord loads the configuration state from a quote_products
// record.
func SelectionFromRecord(rec *core.Record) Selection {
	return Selection{
		SeriesNumber: rec.GetString("series_number"),
		Size:         rec.GetString("size"),
		Rating:       rec.GetString("rating"),

		EndConnectType: rec.GetString("end_connect_type"),
		BonnetType:     rec.GetString("bonnet_type"),
		SealType:       rec.GetString("seal_type"),
		TrimType:       rec.GetString("trim_type"),

		BodyMaterialID:   rec.GetString("body_material"),
		BonnetMaterialID: rec.GetString("bonnet_material"),
		PlugMaterialID:   rec.GetString("plug_material"),
		SeatMaterialID:   rec.GetString("seat_material"),
		CageMaterialID:   rec.GetString("cage_material"),
		StemMaterialName: rec.GetString("stem_material_name"),

		HasCage:      rec.GetBool("has_cage"),
		HasSealRing:  rec.GetBool("has_seal_ring"),
		HasActuator:  rec.GetBool("has_actuator"),
		HasHandwheel: rec.GetBool("has_handwheel"),

		ActuatorType:     rec.GetString("actuator_type"),
		ActuatorSeries:   rec.GetString("actuator_series"),
		ActuatorModel:    rec.GetString("actuator_model"),
		ActuatorStandard: rec.GetString("actuator_standard"),

		HandwheelType:     rec.GetString("handwheel_type"),
		HandwheelSeries:   rec.GetString("handwheel_series"),
		HandwheelModel:    rec.GetString("handwheel_model"),
		HandwheelStandard: rec.GetString("handwheel_standard"),

		AccessoryItems: lineItemsFromRecord(rec, "accessory_items"),
		TestingItems:   lineItemsFromRecord(rec, "testing_items"),
		TubingItems:    lineItemsFromRecord(rec, "tubing_items"),

		ManufacturingProfitPercent: decimal.NewFromFloat(rec.GetFloat("manufacturing_profit_percent")),
		BoughtoutProfitPercent:     decimal.NewFromFloat(rec.GetFloat("boughtout_profit_percent")),
		Quantity:                   rec.GetInt("quantity"),
	}
}

// ApplySelectionToRecord writes the configuration state back to the record.
// Handlers route every selection PATCH through the Selection mutators and
// then call this, so a stored product can never hold a stale downstream
// value.
func ApplySelectionToRecord(rec *core.Record, sel Selection) {
	rec.Set("series_number", sel.SeriesNumber)
	rec.Set("size", sel.Size)
	rec.Set("rating", sel.Rating)

	rec.Set("end_connect_type", sel.EndConnectType)
	rec.Set("bonnet_type", sel.BonnetType)
	rec.Set("seal_type", sel.SealType)
	rec.Set("trim_type", sel.TrimType)

	rec.Set("body_material", sel.BodyMaterialID)
	rec.Set("bonnet_material", sel.BonnetMaterialID)
	rec.Set("plug_material", sel.PlugMaterialID)
	rec.Set("seat_material", sel.SeatMaterialID)
	rec.Set("cage_material", sel.CageMaterialID)
	rec.Set("stem_material_name", sel.StemMaterialName)

	rec.Set("has_cage", sel.HasCage)
	rec.Set("has_seal_ring", sel.HasSealRing)
	rec.Set("has_actuator", sel.HasActuator)
	rec.Set("has_handwheel", sel.HasHandwheel)

	rec.Set("actuator_type", sel.ActuatorType)
	rec.Set("actuator_series", sel.ActuatorSeries)
	rec.Set("actuator_model", sel.ActuatorModel)
	rec.Set("actuator_standard", sel.ActuatorStandard)

	rec.Set("handwheel_type", sel.HandwheelType)
	rec.Set("handwheel_series", sel.HandwheelSeries)
	rec.Set("handwheel_model", sel.HandwheelModel)
	rec.Set("handwheel_standard", sel.HandwheelStandard)
}

// ValidateSelection checks every precondition of the cost calculation and
// returns one field error per missing selection. No partial calculation runs
// while any error remains.
func ValidateSelection(sel Selection) ValidationErrors {
	var errs ValidationErrors

	require := func(field, value, label string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "Please select " + label})
		}
	}

	require("series_number", sel.SeriesNumber, "a series")
	require("size", sel.Size, "a size")
	require("rating", sel.Rating, "a rating")
	require("end_connect_type", sel.EndConnectType, "an end connection type")
	require("bonnet_type", sel.BonnetType, "a bonnet type")

	require("body_material", sel.BodyMaterialID, "a body material")
	require("bonnet_material", sel.BonnetMaterialID, "a bonnet material")
	require("plug_material", sel.PlugMaterialID, "a plug material")
	require("seat_material", sel.SeatMaterialID, "a seat material")
	require("stem_material_name", sel.StemMaterialName, "a stem material")

	if sel.HasCage {
		require("cage_material", sel.CageMaterialID, "a cage material")
	}
	if sel.HasSealRing {
		require("seal_type", sel.SealType, "a seal type")
	}
	if sel.HasActuator {
		require("actuator_type", sel.ActuatorType, "an actuator type")
		require("actuator_series", sel.ActuatorSeries, "an actuator series")
		require("actuator_model", sel.ActuatorModel, "an actuator model")
		require("actuator_standard", sel.ActuatorStandard, "an actuator standard")
	}
	if sel.HasHandwheel {
		require("handwheel_type", sel.HandwheelType, "a handwheel type")
		require("handwheel_series", sel.HandwheelSeries, "a handwheel series")
		require("handwheel_model", sel.HandwheelModel, "a handwheel model")
		require("handwheel_standard", sel.HandwheelStandard, "a handwheel standard")
	}

	if sel.Quantity < 1 {
		errs = append(errs, ValidationError{Field: "quantity", Message: "Quantity must be at least 1"})
	}

	return errs
}

// ResolveComponentCosts runs every required lookup for a validated selection,
// in sequence, and returns the pure calculation inputs. Any missing fact or
// material aborts with a *LookupNotFoundError naming the component and key —
// never a silent zero, since that would understate the quote.
func ResolveComponentCosts(app *pocketbase.PocketBase, sel Selection) (CostInputs, error) {
	in := CostInputs{
		HasCage:                    sel.HasCage,
		HasSealRing:                sel.HasSealRing,
		HasActuator:                sel.HasActuator,
		HasHandwheel:               sel.HasHandwheel,
		TubingItems:                sel.TubingItems,
		TestingItems:               sel.TestingItems,
		AccessoryItems:             sel.AccessoryItems,
		ManufacturingProfitPercent: sel.ManufacturingProfitPercent,
		BoughtoutProfitPercent:     sel.BoughtoutProfitPercent,
		Quantity:                   sel.Quantity,
	}

	configKey := fmt.Sprintf("series %s, size %s, rating %s", sel.SeriesNumber, sel.Size, sel.Rating)

	body, ok, err := BodyWeight(app, sel.SeriesNumber, sel.Size, sel.Rating, sel.EndConnectType)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, &LookupNotFoundError{Component: "body", Key: configKey + ", end connect " + sel.EndConnectType}
	}
	in.BodyWeight = body.Weight
	if in.BodyRate, err = materialRate(app, sel.BodyMaterialID, "body material"); err != nil {
		return in, err
	}

	bonnet, ok, err := BonnetWeight(app, sel.SeriesNumber, sel.Size, sel.Rating, sel.BonnetType)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, &LookupNotFoundError{Component: "bonnet", Key: configKey + ", bonnet type " + sel.BonnetType}
	}
	in.BonnetWeight = bonnet.Weight
	if in.BonnetRate, err = materialRate(app, sel.BonnetMaterialID, "bonnet material"); err != nil {
		return in, err
	}

	plug, ok, err := PlugWeight(app, sel.SeriesNumber, sel.Size, sel.Rating)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, &LookupNotFoundError{Component: "plug", Key: configKey}
	}
	in.PlugWeight = plug.Weight
	if in.PlugRate, err = materialRate(app, sel.PlugMaterialID, "plug material"); err != nil {
		return in, err
	}

	seat, ok, err := SeatWeight(app, sel.SeriesNumber, sel.Size, sel.Rating)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, &LookupNotFoundError{Component: "seat", Key: configKey}
	}
	in.SeatWeight = seat.Weight
	if in.SeatRate, err = materialRate(app, sel.SeatMaterialID, "seat material"); err != nil {
		return in, err
	}

	stem, ok, err := StemPrice(app, sel.SeriesNumber, sel.Size, sel.Rating, sel.StemMaterialName)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, &LookupNotFoundError{Component: "stem", Key: configKey + ", material " + sel.StemMaterialName}
	}
	in.StemPrice = stem.FixedPrice

	if sel.HasCage {
		cage, ok, err := CageWeight(app, sel.SeriesNumber, sel.Size, sel.Rating)
		if err != nil {
			return in, err
		}
		if !ok {
			return in, &LookupNotFoundError{Component: "cage", Key: configKey}
		}
		in.CageWeight = cage.Weight
		if in.CageRate, err = materialRate(app, sel.CageMaterialID, "cage material"); err != nil {
			return in, err
		}
	}

	if sel.HasSealRing {
		sealRing, ok, err := SealRingPrice(app, sel.SeriesNumber, sel.Size, sel.Rating, sel.SealType)
		if err != nil {
			return in, err
		}
		if !ok {
			return in, &LookupNotFoundError{Component: "seal ring", Key: configKey + ", seal type " + sel.SealType}
		}
		in.SealRingPrice = sealRing.FixedPrice
	}

	if sel.HasActuator {
		actuatorKey := fmt.Sprintf("type %s, series %s, model %s, standard %s",
			sel.ActuatorType, sel.ActuatorSeries, sel.ActuatorModel, sel.ActuatorStandard)
		actuator, ok, err := ActuatorPrice(app, sel.ActuatorType, sel.ActuatorSeries, sel.ActuatorModel, sel.ActuatorStandard)
		if err != nil {
			return in, err
		}
		if !ok {
			return in, &LookupNotFoundError{Component: "actuator", Key: actuatorKey}
		}
		in.ActuatorPrice = actuator.FixedPrice

		if sel.HasHandwheel {
			handwheelKey := fmt.Sprintf("type %s, series %s, model %s, standard %s",
				sel.HandwheelType, sel.HandwheelSeries, sel.HandwheelModel, sel.HandwheelStandard)
			handwheel, ok, err := HandwheelPrice(app, sel.HandwheelType, sel.HandwheelSeries, sel.HandwheelModel, sel.HandwheelStandard)
			if err != nil {
				return in, err
			}
			if !ok {
				return in, &LookupNotFoundError{Component: "handwheel", Key: handwheelKey}
			}
			in.HandwheelPrice = handwheel.FixedPrice
		}
	}

	return in, nil
}

// CalculateProduct validates a product record, resolves every lookup, runs
// the pure breakdown and persists all intermediate fields. On any failure the
// record is left untouched — no partial cost fields.
func CalculateProduct(app *pocketbase.PocketBase, rec *core.Record) error {
	sel := SelectionFromRecord(rec)

	if errs := ValidateSelection(sel); len(errs) > 0 {
		return errs
	}

	in, err := ResolveComponentCosts(app, sel)
	if err != nil {
		return err
	}

	b := CalcBreakdown(in)
	applyBreakdown(rec, b)
	rec.Set("calculated", true)

	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// ApplyQuantity is the cheap path for quantity-only edits: the line total is
// recomputed from the stored unit cost without re-running any lookup.
func ApplyQuantity(app *pocketbase.PocketBase, rec *core.Record, quantity int) error {
	if quantity < 1 {
		return ValidationErrors{{Field: "quantity", Message: "Quantity must be at least 1"}}
	}
	if !rec.GetBool("calculated") {
		return ValidationErrors{{Field: "quantity", Message: "Calculate the product before changing quantity"}}
	}

	unitCost := decimal.NewFromFloat(rec.GetFloat("unit_cost"))
	rec.Set("quantity", quantity)
	rec.Set("line_total", ReapplyQuantity(unitCost, quantity).InexactFloat64())

	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func applyBreakdown(rec *core.Record, b CostBreakdown) {
	set := func(field string, d decimal.Decimal) {
		rec.Set(field, d.InexactFloat64())
	}

	set("body_cost", b.BodyCost)
	set("bonnet_cost", b.BonnetCost)
	set("plug_cost", b.PlugCost)
	set("seat_cost", b.SeatCost)
	set("stem_cost", b.StemCost)
	set("cage_cost", b.CageCost)
	set("seal_ring_cost", b.SealRingCost)
	set("body_subassembly_total", b.BodySubAssemblyTotal)

	set("actuator_price", b.ActuatorPrice)
	set("handwheel_price", b.HandwheelPrice)
	set("actuator_subassembly_total", b.ActuatorSubAssemblyTotal)

	set("tubing_total", b.TubingTotal)
	set("testing_total", b.TestingTotal)
	set("accessories_total", b.AccessoriesTotal)

	set("manufacturing_cost", b.ManufacturingCost)
	set("manufacturing_profit_amount", b.ManufacturingProfitAmount)
	set("manufacturing_cost_with_profit", b.ManufacturingCostWithProfit)

	set("boughtout_cost", b.BoughtoutCost)
	set("boughtout_profit_amount", b.BoughtoutProfitAmount)
	set("boughtout_cost_with_profit", b.BoughtoutCostWithProfit)

	set("unit_cost", b.UnitCost)
	set("line_total", b.LineTotal)
}

func materialRate(app *pocketbase.PocketBase, materialID, component string) (decimal.Decimal, error) {
	material, ok, err := GetMaterial(app, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &LookupNotFoundError{Component: component, Key: "id " + materialID}
	}
	return material.PricePerKg, nil
}

func lineItemsFromRecord(rec *core.Record, field string) []LineItem {
	raw := cast.ToString(rec.Get(field))
	if raw == "" || raw == "null" {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("calculate_product: could not decode %s: %v", field, err)
		return nil
	}
	return items
}
