package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all pricing, customer and quote
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "material_group",
			Required:  true,
			Values:    []string{"body_bonnet", "plug", "seat", "stem", "cage"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "price_per_kg", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "series", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "series_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		c.Fields.Add(&core.TextField{Name: "product_type", Required: false})
		c.Fields.Add(&core.BoolField{Name: "has_cage"})
		c.Fields.Add(&core.BoolField{Name: "has_seal_ring"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "body_weights", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.TextField{Name: "end_connect_type", Required: true})
		c.Fields.Add(&core.NumberField{Name: "weight", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "bonnet_weights", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.TextField{Name: "bonnet_type", Required: true})
		c.Fields.Add(&core.NumberField{Name: "weight", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	// plug_weights and seat_weights still carry the inline cage/seal-ring
	// columns older data files used. MigrateNestedCageFacts copies those
	// values into the standalone tables below, which the resolver reads.
	ensureCollection(app, "plug_weights", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.NumberField{Name: "weight", Required: true})
		c.Fields.Add(&core.BoolField{Name: "has_seal_ring"})
		c.Fields.Add(&core.TextField{Name: "seal_type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "seal_ring_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "seat_weights", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.NumberField{Name: "weight", Required: true})
		c.Fields.Add(&core.BoolField{Name: "has_cage"})
		c.Fields.Add(&core.NumberField{Name: "cage_weight", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "cage_weights", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.NumberField{Name: "weight", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "stem_prices", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.TextField{Name: "material_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "fixed_price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "seal_ring_prices", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.TextField{Name: "seal_type", Required: true})
		c.Fields.Add(&core.NumberField{Name: "fixed_price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "trim_types", func(c *core.Collection) {
		addFactKeyFields(c)
		c.Fields.Add(&core.TextField{Name: "trim_type", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "actuator_prices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "actuator_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "actuator_series", Required: true})
		c.Fields.Add(&core.TextField{Name: "model", Required: true})
		c.Fields.Add(&core.TextField{Name: "standard", Required: false})
		c.Fields.Add(&core.NumberField{Name: "fixed_price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "handwheel_prices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "handwheel_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "handwheel_series", Required: true})
		c.Fields.Add(&core.TextField{Name: "model", Required: true})
		c.Fields.Add(&core.TextField{Name: "standard", Required: false})
		c.Fields.Add(&core.NumberField{Name: "fixed_price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "accessories", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "testing_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	ensureCollection(app, "tubing_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "city", Required: false})
		c.Fields.Add(&core.TextField{Name: "contact_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "gstin", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "approved", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "discount_percent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_percent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "package_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "freight_price", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "pricing_type",
			Required:  true,
			Values:    []string{"ex_works", "for"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quote_products", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "product_tag", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})

		// Selection state
		c.Fields.Add(&core.TextField{Name: "series_number"})
		c.Fields.Add(&core.TextField{Name: "size"})
		c.Fields.Add(&core.TextField{Name: "rating"})
		c.Fields.Add(&core.TextField{Name: "end_connect_type"})
		c.Fields.Add(&core.TextField{Name: "bonnet_type"})
		c.Fields.Add(&core.TextField{Name: "seal_type"})
		c.Fields.Add(&core.TextField{Name: "trim_type"})
		c.Fields.Add(&core.TextField{Name: "body_material"})
		c.Fields.Add(&core.TextField{Name: "bonnet_material"})
		c.Fields.Add(&core.TextField{Name: "plug_material"})
		c.Fields.Add(&core.TextField{Name: "seat_material"})
		c.Fields.Add(&core.TextField{Name: "cage_material"})
		c.Fields.Add(&core.TextField{Name: "stem_material_name"})
		c.Fields.Add(&core.BoolField{Name: "has_cage"})
		c.Fields.Add(&core.BoolField{Name: "has_seal_ring"})
		c.Fields.Add(&core.BoolField{Name: "has_actuator"})
		c.Fields.Add(&core.BoolField{Name: "has_handwheel"})
		c.Fields.Add(&core.TextField{Name: "actuator_type"})
		c.Fields.Add(&core.TextField{Name: "actuator_series"})
		c.Fields.Add(&core.TextField{Name: "actuator_model"})
		c.Fields.Add(&core.TextField{Name: "actuator_standard"})
		c.Fields.Add(&core.TextField{Name: "handwheel_type"})
		c.Fields.Add(&core.TextField{Name: "handwheel_series"})
		c.Fields.Add(&core.TextField{Name: "handwheel_model"})
		c.Fields.Add(&core.TextField{Name: "handwheel_standard"})
		c.Fields.Add(&core.JSONField{Name: "accessory_items"})
		c.Fields.Add(&core.JSONField{Name: "testing_items"})
		c.Fields.Add(&core.JSONField{Name: "tubing_items"})
		c.Fields.Add(&core.NumberField{Name: "manufacturing_profit_percent"})
		c.Fields.Add(&core.NumberField{Name: "boughtout_profit_percent"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})

		// Computed breakdown
		c.Fields.Add(&core.NumberField{Name: "body_cost"})
		c.Fields.Add(&core.NumberField{Name: "bonnet_cost"})
		c.Fields.Add(&core.NumberField{Name: "plug_cost"})
		c.Fields.Add(&core.NumberField{Name: "seat_cost"})
		c.Fields.Add(&core.NumberField{Name: "stem_cost"})
		c.Fields.Add(&core.NumberField{Name: "cage_cost"})
		c.Fields.Add(&core.NumberField{Name: "seal_ring_cost"})
		c.Fields.Add(&core.NumberField{Name: "body_subassembly_total"})
		c.Fields.Add(&core.NumberField{Name: "actuator_price"})
		c.Fields.Add(&core.NumberField{Name: "handwheel_price"})
		c.Fields.Add(&core.NumberField{Name: "actuator_subassembly_total"})
		c.Fields.Add(&core.NumberField{Name: "tubing_total"})
		c.Fields.Add(&core.NumberField{Name: "testing_total"})
		c.Fields.Add(&core.NumberField{Name: "accessories_total"})
		c.Fields.Add(&core.NumberField{Name: "manufacturing_cost"})
		c.Fields.Add(&core.NumberField{Name: "manufacturing_profit_amount"})
		c.Fields.Add(&core.NumberField{Name: "manufacturing_cost_with_profit"})
		c.Fields.Add(&core.NumberField{Name: "boughtout_cost"})
		c.Fields.Add(&core.NumberField{Name: "boughtout_profit_amount"})
		c.Fields.Add(&core.NumberField{Name: "boughtout_cost_with_profit"})
		c.Fields.Add(&core.NumberField{Name: "unit_cost"})
		c.Fields.Add(&core.NumberField{Name: "line_total"})
		c.Fields.Add(&core.BoolField{Name: "calculated"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// addFactKeyFields adds the lookup dimensions shared by every per-series
// pricing fact table.
func addFactKeyFields(c *core.Collection) {
	c.Fields.Add(&core.TextField{Name: "series_number", Required: true})
	c.Fields.Add(&core.TextField{Name: "size", Required: true})
	c.Fields.Add(&core.TextField{Name: "rating", Required: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
