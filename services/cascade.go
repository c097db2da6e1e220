package services

import (
	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// LineItem is a flat accessory/testing/tubing entry carried on a product.
// Accessories multiply price by quantity; testing and tubing items sum price
// only.
type LineItem struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Selection is the full configuration state of one quote product. Downstream
// fields must never hold a value inconsistent with their upstream selection,
// so every Set* mutator unconditionally clears everything below it — even
// values that would coincidentally still be valid.
type Selection struct {
	SeriesNumber string
	Size         string
	Rating       string

	EndConnectType string
	BonnetType     string
	SealType       string
	TrimType       string

	BodyMaterialID   string
	BonnetMaterialID string
	PlugMaterialID   string
	SeatMaterialID   string
	CageMaterialID   string
	StemMaterialName string

	HasCage      bool
	HasSealRing  bool
	HasActuator  bool
	HasHandwheel bool

	ActuatorType     string
	ActuatorSeries   string
	ActuatorModel    string
	ActuatorStandard string

	HandwheelType     string
	HandwheelSeries   string
	HandwheelModel    string
	HandwheelStandard string

	AccessoryItems []LineItem
	TestingItems   []LineItem
	TubingItems    []LineItem

	ManufacturingProfitPercent decimal.Decimal
	BoughtoutProfitPercent     decimal.Decimal
	Quantity                   int
}

// SetSeries selects a series and clears size, rating and every downstream
// type and material selection.
func (s *Selection) SetSeries(seriesNumber string) {
	s.SeriesNumber = seriesNumber
	s.Size = ""
	s.Rating = ""
	s.resetTypeSelections()
	s.resetMaterialSelections()
}

// SetSize selects a size and clears rating and the downstream type selections.
func (s *Selection) SetSize(size string) {
	s.Size = size
	s.Rating = ""
	s.resetTypeSelections()
}

// SetRating selects a rating and clears the downstream type selections.
func (s *Selection) SetRating(rating string) {
	s.Rating = rating
	s.resetTypeSelections()
}

// SetActuatorType selects an actuator type and clears its series and model.
func (s *Selection) SetActuatorType(actuatorType string) {
	s.ActuatorType = actuatorType
	s.ActuatorSeries = ""
	s.ActuatorModel = ""
}

// SetActuatorSeries selects an actuator series and clears the model.
func (s *Selection) SetActuatorSeries(actuatorSeries string) {
	s.ActuatorSeries = actuatorSeries
	s.ActuatorModel = ""
}

// SetHandwheelType selects a handwheel type and clears its series and model.
func (s *Selection) SetHandwheelType(handwheelType string) {
	s.HandwheelType = handwheelType
	s.HandwheelSeries = ""
	s.HandwheelModel = ""
}

// SetHandwheelSeries selects a handwheel series and clears the model.
func (s *Selection) SetHandwheelSeries(handwheelSeries string) {
	s.HandwheelSeries = handwheelSeries
	s.HandwheelModel = ""
}

func (s *Selection) resetTypeSelections() {
	s.EndConnectType = ""
	s.BonnetType = ""
	s.SealType = ""
	s.TrimType = ""
	s.StemMaterialName = ""
}

func (s *Selection) resetMaterialSelections() {
	s.BodyMaterialID = ""
	s.BonnetMaterialID = ""
	s.PlugMaterialID = ""
	s.SeatMaterialID = ""
	s.CageMaterialID = ""
}

// CascadeOptions holds the legal option sets for every dependent dropdown
// given the current selection prefix. Unreachable levels stay nil.
type CascadeOptions struct {
	Sizes           []string `json:"sizes"`
	Ratings         []string `json:"ratings"`
	EndConnectTypes []string `json:"end_connect_types"`
	BonnetTypes     []string `json:"bonnet_types"`
	SealTypes       []string `json:"seal_types"`
	TrimTypes       []string `json:"trim_types"`
	StemMaterials   []string `json:"stem_materials"`

	ActuatorSeries  []string `json:"actuator_series"`
	ActuatorModels  []string `json:"actuator_models"`
	HandwheelSeries []string `json:"handwheel_series"`
	HandwheelModels []string `json:"handwheel_models"`
}

// OptionsFor narrows every dropdown to the values priced under the current
// upstream selections.
func OptionsFor(app *pocketbase.PocketBase, sel Selection) (CascadeOptions, error) {
	var opts CascadeOptions
	var err error

	if sel.SeriesNumber == "" {
		return opts, nil
	}
	if opts.Sizes, err = AvailableSizes(app, sel.SeriesNumber); err != nil {
		return opts, err
	}

	if sel.Size != "" {
		if opts.Ratings, err = AvailableRatings(app, sel.SeriesNumber, sel.Size); err != nil {
			return opts, err
		}
	}

	if sel.Size != "" && sel.Rating != "" {
		if opts.EndConnectTypes, err = AvailableEndConnectTypes(app, sel.SeriesNumber, sel.Size, sel.Rating); err != nil {
			return opts, err
		}
		if opts.BonnetTypes, err = AvailableBonnetTypes(app, sel.SeriesNumber, sel.Size, sel.Rating); err != nil {
			return opts, err
		}
		if opts.SealTypes, err = AvailableSealTypes(app, sel.SeriesNumber, sel.Size, sel.Rating); err != nil {
			return opts, err
		}
		if opts.TrimTypes, err = AvailableTrimTypes(app, sel.SeriesNumber, sel.Size, sel.Rating); err != nil {
			return opts, err
		}
		if opts.StemMaterials, err = AvailableStemMaterials(app, sel.SeriesNumber, sel.Size, sel.Rating); err != nil {
			return opts, err
		}
	}

	if sel.HasActuator && sel.ActuatorType != "" {
		if opts.ActuatorSeries, err = AvailableActuatorSeries(app, sel.ActuatorType); err != nil {
			return opts, err
		}
		if sel.ActuatorSeries != "" {
			if opts.ActuatorModels, err = AvailableActuatorModels(app, sel.ActuatorType, sel.ActuatorSeries); err != nil {
				return opts, err
			}
		}
	}

	if sel.HasHandwheel && sel.HandwheelType != "" {
		if opts.HandwheelSeries, err = AvailableHandwheelSeries(app, sel.HandwheelType); err != nil {
			return opts, err
		}
		if sel.HandwheelSeries != "" {
			if opts.HandwheelModels, err = AvailableHandwheelModels(app, sel.HandwheelType, sel.HandwheelSeries); err != nil {
				return opts, err
			}
		}
	}

	return opts, nil
}
