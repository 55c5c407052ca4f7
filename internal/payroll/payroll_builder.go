package payroll

import (
	"time"

	"go-staffadmin/internal/policy"
	"go-staffadmin/internal/staff"

	"github.com/google/uuid"
)

// buildRecord menyusun satu PayrollRecord DRAFT yang konsisten secara internal:
// gross dari prorata, keempat komponen statutori dari policy, lalu total
// mengikuti invariant (netPay = max(0, gross - totalDeductions)).
// Deterministik: input sama selalu menghasilkan angka yang sama; timestamp
// audit diisi oleh persistence, bukan di sini.
func buildRecord(
	member staff.Staff,
	periodStart, periodEnd time.Time,
	runType string,
	pol policy.DeductionPolicy,
	createdBy uuid.UUID,
) (*PayrollRecord, error) {
	gross, err := ProrateMonthly(member.MonthlySalary, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	breakdown := ComputeDeductions(gross, pol)

	recordID := uuid.New()
	earnings := []PayrollLine{
		{
			ID:        uuid.New(),
			PayrollID: recordID,
			Kind:      LineKindEarning,
			Label:     "Basic Salary",
			Amount:    gross,
			Taxable:   true,
			Position:  0,
		},
	}

	// Komponen statutori hidup di kolom rincian pajak, bukan sebagai line;
	// line deduction disediakan untuk potongan ad-hoc di luar generate.
	totalDeductions := breakdown.Total

	net := gross - totalDeductions
	if net < 0 {
		net = 0
	}

	return &PayrollRecord{
		ID:                  recordID,
		StaffID:             member.ID,
		PeriodStart:         truncateToDate(periodStart),
		PeriodEnd:           truncateToDate(periodEnd),
		RunType:             runType,
		GrossPay:            gross,
		NetPay:              net,
		IncomeTax:           breakdown.IncomeTax,
		PensionContribution: breakdown.Pension,
		OtherTax:            breakdown.Health + breakdown.Levy,
		TaxTotal:            breakdown.Total,
		TotalDeductions:     totalDeductions,
		Currency:            pol.Currency,
		Status:              StatusDraft,
		CreatedBy:           createdBy,
		Lines:               earnings,
	}, nil
}
