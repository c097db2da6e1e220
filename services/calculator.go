package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CostInputs carries everything the pure calculation step needs: resolved
// weights and rates for each enabled component plus the product's own line
// items and margins. All lookups happen before this struct is built, so the
// breakdown itself runs without I/O.
type CostInputs struct {
	BodyWeight decimal.Decimal
	BodyRate   decimal.Decimal

	BonnetWeight decimal.Decimal
	BonnetRate   decimal.Decimal

	PlugWeight decimal.Decimal
	PlugRate   decimal.Decimal

	SeatWeight decimal.Decimal
	SeatRate   decimal.Decimal

	StemPrice decimal.Decimal

	HasCage    bool
	CageWeight decimal.Decimal
	CageRate   decimal.Decimal

	HasSealRing   bool
	SealRingPrice decimal.Decimal

	HasActuator   bool
	ActuatorPrice decimal.Decimal

	HasHandwheel   bool
	HandwheelPrice decimal.Decimal

	TubingItems    []LineItem
	TestingItems   []LineItem
	AccessoryItems []LineItem

	ManufacturingProfitPercent decimal.Decimal
	BoughtoutProfitPercent     decimal.Decimal

	Quantity int
}

// CostBreakdown is the complete layered result. Every intermediate figure is
// kept because the quote detail view and the exports display the full
// breakdown.
type CostBreakdown struct {
	BodyCost     decimal.Decimal
	BonnetCost   decimal.Decimal
	PlugCost     decimal.Decimal
	SeatCost     decimal.Decimal
	StemCost     decimal.Decimal
	CageCost     decimal.Decimal
	SealRingCost decimal.Decimal

	BodySubAssemblyTotal decimal.Decimal

	ActuatorPrice            decimal.Decimal
	HandwheelPrice           decimal.Decimal
	ActuatorSubAssemblyTotal decimal.Decimal

	TubingTotal      decimal.Decimal
	TestingTotal     decimal.Decimal
	AccessoriesTotal decimal.Decimal

	ManufacturingCost           decimal.Decimal
	ManufacturingProfitAmount   decimal.Decimal
	ManufacturingCostWithProfit decimal.Decimal

	BoughtoutCost           decimal.Decimal
	BoughtoutProfitAmount   decimal.Decimal
	BoughtoutCostWithProfit decimal.Decimal

	UnitCost  decimal.Decimal
	LineTotal decimal.Decimal
}

// CalcBreakdown computes the layered cost breakdown for a fully-resolved
// configuration. Deterministic, no I/O.
//
// Each displayed figure is rounded to 2 decimal places at the point it is
// first derived; sums of already-rounded figures are exact, so the additive
// invariants (unit cost = sum of with-profit pools, line total = unit cost x
// quantity) hold in exact decimal arithmetic.
func CalcBreakdown(in CostInputs) CostBreakdown {
	var b CostBreakdown

	// Body sub-assembly: cast components priced weight x rate, stem priced as
	// a fixed assembly, seal ring a flat price.
	b.BodyCost = in.BodyWeight.Mul(in.BodyRate).Round(2)
	b.BonnetCost = in.BonnetWeight.Mul(in.BonnetRate).Round(2)
	b.PlugCost = in.PlugWeight.Mul(in.PlugRate).Round(2)
	b.SeatCost = in.SeatWeight.Mul(in.SeatRate).Round(2)
	b.StemCost = in.StemPrice.Round(2)
	if in.HasCage {
		b.CageCost = in.CageWeight.Mul(in.CageRate).Round(2)
	}
	if in.HasSealRing {
		b.SealRingCost = in.SealRingPrice.Round(2)
	}
	b.BodySubAssemblyTotal = b.BodyCost.
		Add(b.BonnetCost).
		Add(b.PlugCost).
		Add(b.SeatCost).
		Add(b.StemCost).
		Add(b.CageCost).
		Add(b.SealRingCost)

	// Actuator sub-assembly: zero unless enabled, so a recalculation after
	// disabling never carries stale prices.
	if in.HasActuator {
		b.ActuatorPrice = in.ActuatorPrice.Round(2)
		if in.HasHandwheel {
			b.HandwheelPrice = in.HandwheelPrice.Round(2)
		}
	}
	b.ActuatorSubAssemblyTotal = b.ActuatorPrice.Add(b.HandwheelPrice)

	// Flat line items. Tubing and testing sum price only; accessories carry a
	// per-item quantity.
	b.TubingTotal = sumPrices(in.TubingItems)
	b.TestingTotal = sumPrices(in.TestingItems)
	b.AccessoriesTotal = sumPriceTimesQty(in.AccessoryItems)

	// Manufacturing pool is value-added in-house; boughtout pool is resold
	// accessories. Each carries its own margin.
	b.ManufacturingCost = b.BodySubAssemblyTotal.
		Add(b.ActuatorSubAssemblyTotal).
		Add(b.TubingTotal).
		Add(b.TestingTotal)
	b.ManufacturingProfitAmount = b.ManufacturingCost.Mul(in.ManufacturingProfitPercent).Div(hundred).Round(2)
	b.ManufacturingCostWithProfit = b.ManufacturingCost.Add(b.ManufacturingProfitAmount)

	b.BoughtoutCost = b.AccessoriesTotal
	b.BoughtoutProfitAmount = b.BoughtoutCost.Mul(in.BoughtoutProfitPercent).Div(hundred).Round(2)
	b.BoughtoutCostWithProfit = b.BoughtoutCost.Add(b.BoughtoutProfitAmount)

	b.UnitCost = b.ManufacturingCostWithProfit.Add(b.BoughtoutCostWithProfit)
	b.LineTotal = b.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))

	return b
}

// ReapplyQuantity recomputes a line total from an already-calculated unit
// cost. Quantity-only edits must not re-run lookups, and this must match a
// full recalculation with the same quantity.
func ReapplyQuantity(unitCost decimal.Decimal, quantity int) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}

func sumPrices(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Round(2))
	}
	return total
}

func sumPriceTimesQty(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		total = total.Add(item.Price.Round(2).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
