package currency

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestToUSDUsesTheToUSDTable(t *testing.T) {
	cases := []struct {
		code string
		rate float64
	}{
		{"USD", 1},
		{"EUR", 1.08},
		{"SEK", 0.091},
		{"NOK", 0.094},
		{"DKK", 0.14},
		{"GBP", 1.27},
	}
	for _, tc := range cases {
		got := ToUSD(100, tc.code)
		if !almostEqual(got, 100*tc.rate) {
			t.Errorf("ToUSD(100, %s) = %v, want %v", tc.code, got, 100*tc.rate)
		}
	}
}

func TestFromUSDUsesTheFromUSDTable(t *testing.T) {
	cases := []struct {
		code string
		rate float64
	}{
		{"USD", 1},
		{"EUR", 0.93},
		{"SEK", 10.98},
		{"NOK", 10.64},
		{"DKK", 7.14},
		{"GBP", 0.79},
	}
	for _, tc := range cases {
		got := FromUSD(100, tc.code)
		if !almostEqual(got, 100*tc.rate) {
			t.Errorf("FromUSD(100, %s) = %v, want %v", tc.code, got, 100*tc.rate)
		}
	}
}

func TestUnknownCurrencyFallsBackToMultiplierOfOne(t *testing.T) {
	if got := ToUSD(42.5, "XYZ"); !almostEqual(got, 42.5) {
		t.Errorf("ToUSD(42.5, XYZ) = %v, want 42.5", got)
	}
	if got := FromUSD(42.5, "XYZ"); !almostEqual(got, 42.5) {
		t.Errorf("FromUSD(42.5, XYZ) = %v, want 42.5", got)
	}
}

// The two tables are intentionally preserved as shipped, and they are not
// multiplicative inverses of each other. This test pins the asymmetry so a
// future "correction" has to be deliberate.
func TestTablesAreNotInverses(t *testing.T) {
	roundTrip := FromUSD(ToUSD(100, "EUR"), "EUR")
	if almostEqual(roundTrip, 100) {
		t.Fatalf("expected asymmetric EUR round trip, got exactly 100")
	}
	if !almostEqual(roundTrip, 100*1.08*0.93) {
		t.Fatalf("EUR round trip = %v, want %v", roundTrip, 100*1.08*0.93)
	}
}

func TestFeeAndTotalToPay(t *testing.T) {
	for _, code := range SourceCurrencies() {
		fee := Fee(code)
		if !almostEqual(fee, FromUSD(BaseFeeUSD, code)) {
			t.Errorf("Fee(%s) = %v, want FromUSD(2.99, %s)", code, fee, code)
		}
		if got := TotalToPay(250, code); !almostEqual(got, 250+fee) {
			t.Errorf("TotalToPay(250, %s) = %v, want %v", code, got, 250+fee)
		}
	}
}

func TestReceivingAmount(t *testing.T) {
	// 100 EUR -> USD at 1.08 -> GHS at 12.5
	got := ReceivingAmount(100, "EUR", 12.5)
	if !almostEqual(got, 100*1.08*12.5) {
		t.Errorf("ReceivingAmount = %v, want %v", got, 100*1.08*12.5)
	}
	if rounded := Round2(got); rounded != 1350 {
		t.Errorf("Round2(%v) = %v, want 1350", got, rounded)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(2.7807); got != 2.78 {
		t.Errorf("Round2(2.7807) = %v, want 2.78", got)
	}
	if got := Round2(2.786); got != 2.79 {
		t.Errorf("Round2(2.786) = %v, want 2.79", got)
	}
}
