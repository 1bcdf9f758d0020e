// Package finance implements the mortgage amortization calculators offered
// to leads during conversation. All monetary values are cents.
package finance

import "math"

// Monthly Taxa Referencial used across simulations.
const trMonthly = 0.0015

type AmortizationSystem string

const (
	SystemPrice AmortizationSystem = "price"
	SystemSAC   AmortizationSystem = "sac"
)

type BankRate struct {
	Name       string
	AnnualRate float64
	TR         float64
}

// BankRates is the fixed market table the simulator runs against.
var BankRates = []BankRate{
	{Name: "Caixa Econômica Federal", AnnualRate: 0.0850, TR: trMonthly},
	{Name: "Banco do Brasil", AnnualRate: 0.0829, TR: trMonthly},
	{Name: "Itaú Unibanco", AnnualRate: 0.0745, TR: trMonthly},
	{Name: "Bradesco", AnnualRate: 0.0730, TR: trMonthly},
	{Name: "Santander", AnnualRate: 0.0799, TR: trMonthly},
}

type SimulationInput struct {
	PropertyValueCents int64
	DownPaymentCents   int64
	TermMonths         int
}

type BankSimulation struct {
	BankName          string             `json:"bankName"`
	System            AmortizationSystem `json:"system"`
	AnnualRate        float64            `json:"annualRate"`
	MonthlyRate       float64            `json:"monthlyRate"`
	FirstPaymentCents int64              `json:"firstPaymentCents"`
	LoanAmountCents   int64              `json:"loanAmountCents"`
}

// PricePayment returns the constant monthly payment under the Price table:
// PMT = PV * [i * (1+i)^n] / [(1+i)^n - 1].
func PricePayment(loanCents int64, monthlyRate float64, termMonths int) int64 {
	if loanCents <= 0 || termMonths <= 0 || monthlyRate <= 0 {
		return 0
	}
	power := math.Pow(1+monthlyRate, float64(termMonths))
	payment := float64(loanCents) * (monthlyRate * power) / (power - 1)
	return int64(math.Round(payment))
}

// SACFirstPayment returns the first (largest) payment under constant
// amortization: A + PV*i.
func SACFirstPayment(loanCents int64, monthlyRate float64, termMonths int) int64 {
	if loanCents <= 0 || termMonths <= 0 {
		return 0
	}
	amortization := float64(loanCents) / float64(termMonths)
	firstInterest := float64(loanCents) * monthlyRate
	return int64(math.Round(amortization + firstInterest))
}

// Simulate runs every bank through both amortization systems. An empty slice
// means the down payment covers the property.
func Simulate(in SimulationInput) []BankSimulation {
	loan := in.PropertyValueCents - in.DownPaymentCents
	if loan <= 0 {
		return nil
	}

	results := make([]BankSimulation, 0, len(BankRates)*2)
	for _, bank := range BankRates {
		effectiveRate := bank.AnnualRate/12 + bank.TR

		results = append(results, BankSimulation{
			BankName:          bank.Name,
			System:            SystemPrice,
			AnnualRate:        bank.AnnualRate,
			MonthlyRate:       effectiveRate,
			FirstPaymentCents: PricePayment(loan, effectiveRate, in.TermMonths),
			LoanAmountCents:   loan,
		})
		results = append(results, BankSimulation{
			BankName:          bank.Name,
			System:            SystemSAC,
			AnnualRate:        bank.AnnualRate,
			MonthlyRate:       effectiveRate,
			FirstPaymentCents: SACFirstPayment(loan, effectiveRate, in.TermMonths),
			LoanAmountCents:   loan,
		})
	}
	return results
}
