package finance

import (
	"math"
	"testing"
)

func TestPricePayment(t *testing.T) {
	t.Parallel()

	// 300k loan, 1%/month, 360 months: PMT ≈ 3085.77.
	got := PricePayment(30_000_000, 0.01, 360)
	want := int64(math.Round(30_000_000 * (0.01 * math.Pow(1.01, 360)) / (math.Pow(1.01, 360) - 1)))
	if got != want {
		t.Fatalf("PricePayment() = %d, want %d", got, want)
	}

	if got := PricePayment(0, 0.01, 360); got != 0 {
		t.Fatalf("expected zero payment for zero loan, got %d", got)
	}
	if got := PricePayment(30_000_000, 0, 360); got != 0 {
		t.Fatalf("expected zero payment for zero rate, got %d", got)
	}
}

func TestSACFirstPayment(t *testing.T) {
	t.Parallel()

	// 360k loan, 1%/month, 360 months: 1000 amortization + 3600 interest.
	got := SACFirstPayment(36_000_000, 0.01, 360)
	if got != 100_000+360_000 {
		t.Fatalf("SACFirstPayment() = %d, want %d", got, 100_000+360_000)
	}

	if got := SACFirstPayment(36_000_000, 0.01, 0); got != 0 {
		t.Fatalf("expected zero payment for zero term, got %d", got)
	}
}

func TestSimulateCoversEveryBankInBothSystems(t *testing.T) {
	t.Parallel()

	results := Simulate(SimulationInput{
		PropertyValueCents: 50_000_000,
		DownPaymentCents:   10_000_000,
		TermMonths:         360,
	})
	if len(results) != len(BankRates)*2 {
		t.Fatalf("expected %d simulations, got %d", len(BankRates)*2, len(results))
	}

	for _, r := range results {
		if r.LoanAmountCents != 40_000_000 {
			t.Fatalf("unexpected loan amount for %s: %d", r.BankName, r.LoanAmountCents)
		}
		if r.FirstPaymentCents <= 0 {
			t.Fatalf("non-positive first payment for %s/%s", r.BankName, r.System)
		}
		if r.System != SystemPrice && r.System != SystemSAC {
			t.Fatalf("unexpected system: %s", r.System)
		}
	}
}

// SAC front-loads amortization, so its first payment must never be below the
// constant Price payment for the same loan.
func TestSimulateSACFirstPaymentAtLeastPrice(t *testing.T) {
	t.Parallel()

	results := Simulate(SimulationInput{
		PropertyValueCents: 50_000_000,
		DownPaymentCents:   10_000_000,
		TermMonths:         360,
	})

	byBank := map[string]map[AmortizationSystem]int64{}
	for _, r := range results {
		if byBank[r.BankName] == nil {
			byBank[r.BankName] = map[AmortizationSystem]int64{}
		}
		byBank[r.BankName][r.System] = r.FirstPaymentCents
	}
	for bank, systems := range byBank {
		if systems[SystemSAC] < systems[SystemPrice] {
			t.Fatalf("%s: SAC first payment %d below Price payment %d", bank, systems[SystemSAC], systems[SystemPrice])
		}
	}
}

func TestSimulateDownPaymentCoversProperty(t *testing.T) {
	t.Parallel()

	results := Simulate(SimulationInput{
		PropertyValueCents: 50_000_000,
		DownPaymentCents:   50_000_000,
		TermMonths:         360,
	})
	if len(results) != 0 {
		t.Fatalf("expected no simulations, got %d", len(results))
	}
}
