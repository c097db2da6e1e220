package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// baseInputs returns a fully-populated globe valve configuration used across
// the breakdown tests.
func baseInputs() CostInputs {
	return CostInputs{
		BodyWeight:   dec("20"),
		BodyRate:     dec("250"),
		BonnetWeight: dec("8"),
		BonnetRate:   dec("250"),
		PlugWeight:   dec("2"),
		PlugRate:     dec("400"),
		SeatWeight:   dec("1.5"),
		SeatRate:     dec("400"),
		StemPrice:    dec("1800"),

		HasCage:    true,
		CageWeight: dec("3"),
		CageRate:   dec("500"),

		HasSealRing:   true,
		SealRingPrice: dec("650"),

		HasActuator:   true,
		ActuatorPrice: dec("12000"),

		HasHandwheel:   true,
		HandwheelPrice: dec("3000"),

		TubingItems: []LineItem{
			{Title: "SS Tubing Set", Price: dec("2200")},
		},
		TestingItems: []LineItem{
			{Title: "Hydro Test", Price: dec("1500")},
			{Title: "Seat Leakage Test", Price: dec("800")},
		},
		AccessoryItems: []LineItem{
			{Title: "Air Filter Regulator", Price: dec("3500"), Quantity: 2},
			{Title: "Limit Switch", Price: dec("2750"), Quantity: 1},
		},

		ManufacturingProfitPercent: dec("20"),
		BoughtoutProfitPercent:     dec("10"),
		Quantity:                   3,
	}
}

func TestCalcBreakdownBodySubAssembly(t *testing.T) {
	b := CalcBreakdown(baseInputs())

	checks := []struct {
		name   string
		got    decimal.Decimal
		expect string
	}{
		{"body cost", b.BodyCost, "5000"},
		{"bonnet cost", b.BonnetCost, "2000"},
		{"plug cost", b.PlugCost, "800"},
		{"seat cost", b.SeatCost, "600"},
		{"stem cost", b.StemCost, "1800"},
		{"cage cost", b.CageCost, "1500"},
		{"seal ring cost", b.SealRingCost, "650"},
		{"body sub-assembly total", b.BodySubAssemblyTotal, "12350"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.expect)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.expect)
		}
	}
}

func TestCalcBreakdownPools(t *testing.T) {
	b := CalcBreakdown(baseInputs())

	// Manufacturing: body 12350 + actuator 15000 + tubing 2200 + testing 2300
	if !b.ManufacturingCost.Equal(dec("31850")) {
		t.Errorf("ManufacturingCost = %s, want 31850", b.ManufacturingCost)
	}
	if !b.ManufacturingCostWithProfit.Equal(dec("38220")) {
		t.Errorf("ManufacturingCostWithProfit = %s, want 38220", b.ManufacturingCostWithProfit)
	}

	// Boughtout: accessories 3500*2 + 2750*1 = 9750, +10% = 10725
	if !b.BoughtoutCost.Equal(dec("9750")) {
		t.Errorf("BoughtoutCost = %s, want 9750", b.BoughtoutCost)
	}
	if !b.BoughtoutCostWithProfit.Equal(dec("10725")) {
		t.Errorf("BoughtoutCostWithProfit = %s, want 10725", b.BoughtoutCostWithProfit)
	}

	if !b.UnitCost.Equal(dec("48945")) {
		t.Errorf("UnitCost = %s, want 48945", b.UnitCost)
	}
	if !b.LineTotal.Equal(dec("146835")) {
		t.Errorf("LineTotal = %s, want 146835", b.LineTotal)
	}
}

func TestCalcBreakdownAdditiveInvariants(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CostInputs)
	}{
		{"full configuration", func(in *CostInputs) {}},
		{"awkward rates", func(in *CostInputs) {
			in.BodyRate = dec("287.37")
			in.ManufacturingProfitPercent = dec("12.5")
			in.BoughtoutProfitPercent = dec("7.33")
		}},
		{"no optionals", func(in *CostInputs) {
			in.HasCage = false
			in.HasSealRing = false
			in.HasActuator = false
			in.HasHandwheel = false
		}},
		{"quantity one", func(in *CostInputs) {
			in.Quantity = 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.modify(&in)
			b := CalcBreakdown(in)

			wantUnit := b.ManufacturingCostWithProfit.Add(b.BoughtoutCostWithProfit)
			if !b.UnitCost.Equal(wantUnit) {
				t.Errorf("UnitCost = %s, want mfg+boughtout = %s", b.UnitCost, wantUnit)
			}
			wantLine := b.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))
			if !b.LineTotal.Equal(wantLine) {
				t.Errorf("LineTotal = %s, want unit x qty = %s", b.LineTotal, wantLine)
			}
		})
	}
}

func TestCalcBreakdownDisabledActuatorZeroesSubAssembly(t *testing.T) {
	in := baseInputs()
	in.HasActuator = false
	// Stale resolved prices must not leak into the totals.
	in.ActuatorPrice = dec("12000")
	in.HandwheelPrice = dec("3000")

	b := CalcBreakdown(in)
	if !b.ActuatorPrice.IsZero() {
		t.Errorf("ActuatorPrice = %s, want 0", b.ActuatorPrice)
	}
	if !b.HandwheelPrice.IsZero() {
		t.Errorf("HandwheelPrice = %s, want 0", b.HandwheelPrice)
	}
	if !b.ActuatorSubAssemblyTotal.IsZero() {
		t.Errorf("ActuatorSubAssemblyTotal = %s, want 0", b.ActuatorSubAssemblyTotal)
	}
}

func TestCalcBreakdownHandwheelRequiresActuator(t *testing.T) {
	in := baseInputs()
	in.HasActuator = true
	in.HasHandwheel = false

	b := CalcBreakdown(in)
	if !b.HandwheelPrice.IsZero() {
		t.Errorf("HandwheelPrice = %s, want 0", b.HandwheelPrice)
	}
	if !b.ActuatorSubAssemblyTotal.Equal(dec("12000")) {
		t.Errorf("ActuatorSubAssemblyTotal = %s, want 12000", b.ActuatorSubAssemblyTotal)
	}
}

func TestCalcBreakdownOptionalComponentsExcluded(t *testing.T) {
	in := baseInputs()
	in.HasCage = false
	in.HasSealRing = false
	// Non-zero resolved values to prove the flags gate the cost.
	in.CageWeight = dec("3")
	in.CageRate = dec("500")
	in.SealRingPrice = dec("650")

	b := CalcBreakdown(in)
	if !b.CageCost.IsZero() {
		t.Errorf("CageCost = %s, want 0", b.CageCost)
	}
	if !b.SealRingCost.IsZero() {
		t.Errorf("SealRingCost = %s, want 0", b.SealRingCost)
	}
	if !b.BodySubAssemblyTotal.Equal(dec("10200")) {
		t.Errorf("BodySubAssemblyTotal = %s, want 10200", b.BodySubAssemblyTotal)
	}
}

func TestLineItemSummationRules(t *testing.T) {
	// Tubing and testing ignore quantity; accessories multiply by it.
	items := []LineItem{
		{Title: "A", Price: dec("100"), Quantity: 5},
		{Title: "B", Price: dec("250"), Quantity: 2},
	}

	if got := sumPrices(items); !got.Equal(dec("350")) {
		t.Errorf("sumPrices = %s, want 350", got)
	}
	if got := sumPriceTimesQty(items); !got.Equal(dec("1000")) {
		t.Errorf("sumPriceTimesQty = %s, want 1000", got)
	}
}

func TestSumPriceTimesQtyZeroDefaultsToOne(t *testing.T) {
	items := []LineItem{
		{Title: "Positioner", Price: dec("8000"), Quantity: 0},
	}
	if got := sumPriceTimesQty(items); !got.Equal(dec("8000")) {
		t.Errorf("sumPriceTimesQty = %s, want 8000", got)
	}
}

func TestReapplyQuantityMatchesFullRecalc(t *testing.T) {
	tests := []struct {
		name string
		qty  int
	}{
		{"one", 1},
		{"several", 7},
		{"large", 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			in.BodyRate = dec("287.37")
			in.ManufacturingProfitPercent = dec("12.5")
			in.Quantity = tt.qty

			full := CalcBreakdown(in)
			cheap := ReapplyQuantity(full.UnitCost, tt.qty)
			if !cheap.Equal(full.LineTotal) {
				t.Errorf("ReapplyQuantity = %s, full recalc LineTotal = %s", cheap, full.LineTotal)
			}
		})
	}
}

func TestCalcBreakdownRoundsComponentCosts(t *testing.T) {
	in := baseInputs()
	in.BodyWeight = dec("1.333")
	in.BodyRate = dec("333.33")

	b := CalcBreakdown(in)
	// 1.333 * 333.33 = 444.328... rounds to 444.33
	if !b.BodyCost.Equal(dec("444.33")) {
		t.Errorf("BodyCost = %s, want 444.33", b.BodyCost)
	}
}
