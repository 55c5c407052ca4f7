package payroll

import (
	"time"

	payrollerrors "go-staffadmin/internal/payroll/errors"
	"go-staffadmin/internal/policy"

	"github.com/shopspring/decimal"
)

// Seluruh kalkulator di file ini pure: tanpa side effect, tanpa jam, tanpa DB.
// Nominal dalam satuan terkecil; pembulatan half-up ke satuan terkecil,
// konsisten untuk semua komponen.

var twelve = decimal.NewFromInt(12)

// ProrateMonthly mengubah gaji bulanan menjadi gross prorata untuk periode.
// Jumlah hari dihitung inklusif; pembagi adalah jumlah hari kalender pada
// bulan yang memuat periodEnd. Periode tepat satu bulan kalender penuh
// menghasilkan kembali gaji bulanan (±1 satuan pembulatan).
func ProrateMonthly(monthlySalary int64, periodStart, periodEnd time.Time) (int64, error) {
	if monthlySalary <= 0 {
		return 0, payrollerrors.ErrInvalidSalary
	}

	start := truncateToDate(periodStart)
	end := truncateToDate(periodEnd)
	if end.Before(start) {
		return 0, payrollerrors.ErrInvalidDateRange
	}

	periodDays := int64(end.Sub(start).Hours()/24) + 1
	daysInMonth := int64(time.Date(end.Year(), end.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day())

	gross := decimal.NewFromInt(monthlySalary).
		Div(decimal.NewFromInt(daysInMonth)).
		Mul(decimal.NewFromInt(periodDays)).
		Round(0)

	return gross.IntPart(), nil
}

// DeductionBreakdown adalah hasil keempat komponen statutori untuk satu gross.
type DeductionBreakdown struct {
	IncomeTax int64
	Pension   int64
	Health    int64
	Levy      int64
	Total     int64
}

// ComputeDeductions menghitung keempat komponen dari satu nilai gross.
// Semua hasil >= 0; pajak penghasilan non-decreasing terhadap gross.
func ComputeDeductions(gross int64, p policy.DeductionPolicy) DeductionBreakdown {
	if gross < 0 {
		gross = 0
	}

	pension := pensionContribution(gross, p)
	health := healthContribution(gross, p)
	levy := housingLevy(gross, p)

	// Taxable income = gross dikurangi kontribusi pensiun dan levy,
	// tidak pernah negatif.
	taxable := gross - pension - levy
	if taxable < 0 {
		taxable = 0
	}
	tax := incomeTax(taxable, p)

	return DeductionBreakdown{
		IncomeTax: tax,
		Pension:   pension,
		Health:    health,
		Levy:      levy,
		Total:     tax + pension + health + levy,
	}
}

// pensionContribution menerapkan dua tier: tier 1 atas slice gross sampai
// limit pertama, tier 2 atas slice berikutnya sampai limit kedua.
func pensionContribution(gross int64, p policy.DeductionPolicy) int64 {
	tier1Base := gross
	if tier1Base > p.PensionTier1Limit {
		tier1Base = p.PensionTier1Limit
	}
	contribution := decimal.NewFromInt(tier1Base).Mul(p.PensionRate)

	if gross > p.PensionTier1Limit {
		tier2Base := gross - p.PensionTier1Limit
		tier2Span := p.PensionTier2Limit - p.PensionTier1Limit
		if tier2Base > tier2Span {
			tier2Base = tier2Span
		}
		contribution = contribution.Add(decimal.NewFromInt(tier2Base).Mul(p.PensionRate))
	}

	return contribution.Round(0).IntPart()
}

// healthContribution memilih band terkecil yang batas atasnya (inklusif)
// tidak dilampaui gross; di atas band tertinggi berlaku nominal ceiling.
func healthContribution(gross int64, p policy.DeductionPolicy) int64 {
	for _, band := range p.HealthBands {
		if gross <= band.UpperBound {
			return band.Amount
		}
	}
	return p.HealthCeiling
}

func housingLevy(gross int64, p policy.DeductionPolicy) int64 {
	return decimal.NewFromInt(gross).Mul(p.LevyRate).Round(0).IntPart()
}

// incomeTax: taxable bulanan dianualisasi, tarif marginal diterapkan kumulatif
// per lapis, relief flat dikurangkan (clamp nol), lalu dibagi 12 lagi.
func incomeTax(monthlyTaxable int64, p policy.DeductionPolicy) int64 {
	if monthlyTaxable <= 0 {
		return 0
	}

	annual := decimal.NewFromInt(monthlyTaxable).Mul(twelve)

	tax := decimal.Zero
	lower := decimal.Zero
	for _, bracket := range p.PAYEBrackets {
		if annual.LessThanOrEqual(lower) {
			break
		}

		upper := annual // lapis open-ended (UpperBound 0) menampung sisanya
		if bracket.UpperBound > 0 {
			upper = decimal.NewFromInt(bracket.UpperBound)
		}

		span := decimal.Min(annual, upper).Sub(lower)
		if span.IsPositive() {
			tax = tax.Add(span.Mul(bracket.Rate))
		}
		lower = upper
	}

	tax = tax.Sub(decimal.NewFromInt(p.PersonalRelief))
	if !tax.IsPositive() {
		return 0
	}

	return tax.Div(twelve).Round(0).IntPart()
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
