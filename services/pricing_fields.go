package services

import "fmt"

// TemplateField describes one column of an import template.
type TemplateField struct {
	Key            string
	Label          string
	Description    string
	FormatRule     string
	ExampleValue   string
	AlwaysRequired bool
	Numeric        bool
	Boolean        bool
}

// PricingDataset ties an import/export dataset to its backing collection.
// KeyFields identify an existing record for upsert during commit.
type PricingDataset struct {
	Name       string
	Label      string
	Collection string
	SheetName  string
	KeyFields  []string
	Fields     []TemplateField
}

// factKeyFields are the lookup dimensions shared by every per-series fact table.
func factKeyFields() []TemplateField {
	return []TemplateField{
		{Key: "series_number", Label: "Series", Description: "Series number this fact belongs to", FormatRule: "Must match an existing series number", ExampleValue: "2100", AlwaysRequired: true},
		{Key: "size", Label: "Size", Description: "Valve size", FormatRule: "Text, e.g. 1\", 2\", DN50", ExampleValue: "2\"", AlwaysRequired: true},
		{Key: "rating", Label: "Rating", Description: "Pressure rating class", FormatRule: "Text, e.g. 150, 300, 600", ExampleValue: "300", AlwaysRequired: true},
	}
}

func weightField(label string) TemplateField {
	return TemplateField{
		Key:            "weight",
		Label:          label,
		Description:    "Component weight in kilograms",
		FormatRule:     "Positive number",
		ExampleValue:   "12.5",
		AlwaysRequired: true,
		Numeric:        true,
	}
}

func fixedPriceField(label string) TemplateField {
	return TemplateField{
		Key:            "fixed_price",
		Label:          label,
		Description:    "Fixed price in INR",
		FormatRule:     "Positive number",
		ExampleValue:   "4500",
		AlwaysRequired: true,
		Numeric:        true,
	}
}

// PricingDatasets returns every importable pricing dataset, in display order.
func PricingDatasets() []PricingDataset {
	return []PricingDataset{
		{
			Name: "materials", Label: "Materials", Collection: "materials", SheetName: "Materials",
			KeyFields: []string{"name", "material_group"},
			Fields: []TemplateField{
				{Key: "name", Label: "Material", Description: "Material name", FormatRule: "Text, unique per group", ExampleValue: "ASTM A216 WCB", AlwaysRequired: true},
				{Key: "material_group", Label: "Group", Description: "Component group the material applies to", FormatRule: "One of: body_bonnet, plug, seat, stem, cage", ExampleValue: "body_bonnet", AlwaysRequired: true},
				{Key: "price_per_kg", Label: "Price / Kg", Description: "Rate in INR per kilogram", FormatRule: "Positive number", ExampleValue: "280", AlwaysRequired: true, Numeric: true},
			},
		},
		{
			Name: "body_weights", Label: "Body Weights", Collection: "body_weights", SheetName: "Body Weights",
			KeyFields: []string{"series_number", "size", "rating", "end_connect_type"},
			Fields: append(factKeyFields(),
				TemplateField{Key: "end_connect_type", Label: "End Connection", Description: "End connection type", FormatRule: "Text, e.g. Flanged, Butt Weld", ExampleValue: "Flanged", AlwaysRequired: true},
				weightField("Body Weight (Kg)"),
			),
		},
		{
			Name: "bonnet_weights", Label: "Bonnet Weights", Collection: "bonnet_weights", SheetName: "Bonnet Weights",
			KeyFields: []string{"series_number", "size", "rating", "bonnet_type"},
			Fields: append(factKeyFields(),
				TemplateField{Key: "bonnet_type", Label: "Bonnet Type", Description: "Bonnet construction type", FormatRule: "Text, e.g. Plain, Extended", ExampleValue: "Plain", AlwaysRequired: true},
				weightField("Bonnet Weight (Kg)"),
			),
		},
		{
			Name: "plug_weights", Label: "Plug Weights", Collection: "plug_weights", SheetName: "Plug Weights",
			KeyFields: []string{"series_number", "size", "rating"},
			Fields:    append(factKeyFields(), weightField("Plug Weight (Kg)")),
		},
		{
			Name: "seat_weights", Label: "Seat Weights", Collection: "seat_weights", SheetName: "Seat Weights",
			KeyFields: []string{"series_number", "size", "rating"},
			Fields:    append(factKeyFields(), weightField("Seat Weight (Kg)")),
		},
		{
			Name: "cage_weights", Label: "Cage Weights", Collection: "cage_weights", SheetName: "Cage Weights",
			KeyFields: []string{"series_number", "size", "rating"},
			Fields:    append(factKeyFields(), weightField("Cage Weight (Kg)")),
		},
		{
			Name: "stem_prices", Label: "Stem Prices", Collection: "stem_prices", SheetName: "Stem Prices",
			KeyFields: []string{"series_number", "size", "rating", "material_name"},
			Fields: append(factKeyFields(),
				TemplateField{Key: "material_name", Label: "Stem Material", Description: "Stem material name", FormatRule: "Text, e.g. SS 316", ExampleValue: "SS 316", AlwaysRequired: true},
				fixedPriceField("Stem Price (INR)"),
			),
		},
		{
			Name: "seal_ring_prices", Label: "Seal Ring Prices", Collection: "seal_ring_prices", SheetName: "Seal Ring Prices",
			KeyFields: []string{"series_number", "size", "rating", "seal_type"},
			Fields: append(factKeyFields(),
				TemplateField{Key: "seal_type", Label: "Seal Type", Description: "Seal ring type", FormatRule: "Text, e.g. PTFE, Metal", ExampleValue: "PTFE", AlwaysRequired: true},
				fixedPriceField("Seal Ring Price (INR)"),
			),
		},
		{
			Name: "actuator_prices", Label: "Actuator Prices", Collection: "actuator_prices", SheetName: "Actuator Prices",
			KeyFields: []string{"actuator_type", "actuator_series", "model"},
			Fields: []TemplateField{
				{Key: "actuator_type", Label: "Actuator Type", Description: "Actuator operating principle", FormatRule: "Text, e.g. Pneumatic Diaphragm", ExampleValue: "Pneumatic Diaphragm", AlwaysRequired: true},
				{Key: "actuator_series", Label: "Actuator Series", Description: "Manufacturer series", FormatRule: "Text", ExampleValue: "AD-3", AlwaysRequired: true},
				{Key: "model", Label: "Model", Description: "Actuator model", FormatRule: "Text", ExampleValue: "AD-3200", AlwaysRequired: true},
				{Key: "standard", Label: "Standard", Description: "Applicable standard", FormatRule: "Text, optional", ExampleValue: "IEC 60534"},
				fixedPriceField("Actuator Price (INR)"),
			},
		},
		{
			Name: "handwheel_prices", Label: "Handwheel Prices", Collection: "handwheel_prices", SheetName: "Handwheel Prices",
			KeyFields: []string{"handwheel_type", "handwheel_series", "model"},
			Fields: []TemplateField{
				{Key: "handwheel_type", Label: "Handwheel Type", Description: "Handwheel mounting type", FormatRule: "Text, e.g. Top Mounted", ExampleValue: "Top Mounted", AlwaysRequired: true},
				{Key: "handwheel_series", Label: "Handwheel Series", Description: "Manufacturer series", FormatRule: "Text", ExampleValue: "HW-1", AlwaysRequired: true},
				{Key: "model", Label: "Model", Description: "Handwheel model", FormatRule: "Text", ExampleValue: "HW-150", AlwaysRequired: true},
				{Key: "standard", Label: "Standard", Description: "Applicable standard", FormatRule: "Text, optional", ExampleValue: ""},
				fixedPriceField("Handwheel Price (INR)"),
			},
		},
		{
			Name: "accessories", Label: "Accessories", Collection: "accessories", SheetName: "Accessories",
			KeyFields: []string{"title"},
			Fields: []TemplateField{
				{Key: "title", Label: "Accessory", Description: "Accessory name", FormatRule: "Text, unique", ExampleValue: "Air Filter Regulator", AlwaysRequired: true},
				{Key: "price", Label: "Price (INR)", Description: "Unit price in INR", FormatRule: "Positive number", ExampleValue: "3500", AlwaysRequired: true, Numeric: true},
				{Key: "is_default", Label: "Default?", Description: "Pre-selected on new products", FormatRule: "yes or no", ExampleValue: "no", Boolean: true},
			},
		},
		{
			Name: "testing_items", Label: "Testing Charges", Collection: "testing_items", SheetName: "Testing Charges",
			KeyFields: []string{"title"},
			Fields: []TemplateField{
				{Key: "title", Label: "Test", Description: "Test name", FormatRule: "Text, unique", ExampleValue: "Hydro Test", AlwaysRequired: true},
				{Key: "price", Label: "Price (INR)", Description: "Charge in INR", FormatRule: "Positive number", ExampleValue: "1500", AlwaysRequired: true, Numeric: true},
				{Key: "is_default", Label: "Default?", Description: "Pre-selected on new products", FormatRule: "yes or no", ExampleValue: "yes", Boolean: true},
			},
		},
		{
			Name: "tubing_items", Label: "Tubing & Fittings", Collection: "tubing_items", SheetName: "Tubing & Fittings",
			KeyFields: []string{"title"},
			Fields: []TemplateField{
				{Key: "title", Label: "Item", Description: "Tubing or fitting name", FormatRule: "Text, unique", ExampleValue: "SS Tubing Set", AlwaysRequired: true},
				{Key: "price", Label: "Price (INR)", Description: "Price in INR", FormatRule: "Positive number", ExampleValue: "2200", AlwaysRequired: true, Numeric: true},
				{Key: "is_default", Label: "Default?", Description: "Pre-selected on new products", FormatRule: "yes or no", ExampleValue: "no", Boolean: true},
			},
		},
	}
}

// FindPricingDataset returns the dataset with the given name.
func FindPricingDataset(name string) (PricingDataset, error) {
	for _, ds := range PricingDatasets() {
		if ds.Name == name {
			return ds, nil
		}
	}
	return PricingDataset{}, fmt.Errorf("unknown pricing dataset: %s", name)
}
