package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateNestedCageFacts copies cage weights nested on seat_weights rows and
// seal ring prices nested on plug_weights rows into the standalone
// cage_weights and seal_ring_prices tables the resolver reads.
// Safe to call on every startup -- rows already migrated are skipped.
func MigrateNestedCageFacts(app *pocketbase.PocketBase) error {
	if err := migrateNestedCageWeights(app); err != nil {
		return err
	}
	return migrateNestedSealRingPrices(app)
}

func migrateNestedCageWeights(app *pocketbase.PocketBase) error {
	cageCol, err := app.FindCollectionByNameOrId("cage_weights")
	if err != nil {
		return fmt.Errorf("migrate: could not find cage_weights collection: %w", err)
	}

	seats, err := app.FindRecordsByFilter(
		"seat_weights",
		"has_cage = true && cage_weight > 0",
		"", 0, 0, nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query seat_weights: %w", err)
	}

	migrated := 0
	for _, seat := range seats {
		series := seat.GetString("series_number")
		size := seat.GetString("size")
		rating := seat.GetString("rating")

		existing, err := app.FindRecordsByFilter(
			"cage_weights",
			"series_number = {:series} && size = {:size} && rating = {:rating}",
			"", 1, 0,
			map[string]any{"series": series, "size": size, "rating": rating},
		)
		if err == nil && len(existing) > 0 {
			continue
		}

		record := core.NewRecord(cageCol)
		record.Set("series_number", series)
		record.Set("size", size)
		record.Set("rating", rating)
		record.Set("weight", seat.GetFloat("cage_weight"))
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("migrate: save cage weight for series %s: %w", series, err)
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: copied %d nested cage weight(s) into cage_weights\n", migrated)
	}
	return nil
}

func migrateNestedSealRingPrices(app *pocketbase.PocketBase) error {
	sealCol, err := app.FindCollectionByNameOrId("seal_ring_prices")
	if err != nil {
		return fmt.Errorf("migrate: could not find seal_ring_prices collection: %w", err)
	}

	plugs, err := app.FindRecordsByFilter(
		"plug_weights",
		"has_seal_ring = true && seal_ring_price > 0",
		"", 0, 0, nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query plug_weights: %w", err)
	}

	migrated := 0
	for _, plug := range plugs {
		series := plug.GetString("series_number")
		size := plug.GetString("size")
		rating := plug.GetString("rating")
		sealType := plug.GetString("seal_type")

		existing, err := app.FindRecordsByFilter(
			"seal_ring_prices",
			"series_number = {:series} && size = {:size} && rating = {:rating} && seal_type = {:sealType}",
			"", 1, 0,
			map[string]any{"series": series, "size": size, "rating": rating, "sealType": sealType},
		)
		if err == nil && len(existing) > 0 {
			continue
		}

		record := core.NewRecord(sealCol)
		record.Set("series_number", series)
		record.Set("size", size)
		record.Set("rating", rating)
		record.Set("seal_type", sealType)
		record.Set("fixed_price", plug.GetFloat("seal_ring_price"))
		record.Set("is_active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("migrate: save seal ring price for series %s: %w", series, err)
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: copied %d nested seal ring price(s) into seal_ring_prices\n", migrated)
	}
	return nil
}
