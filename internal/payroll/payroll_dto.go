package payroll

type GeneratePayrollRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	RunType     string `json:"run_type" binding:"omitempty,oneof=REGULAR BONUS ADJUSTMENT TERMINATION OTHER"`
	Notes       string `json:"notes"`
}

type GeneratePayrollResponse struct {
	Count   int               `json:"count"`
	Skipped int               `json:"skipped"`
	Records []PayrollResponse `json:"records"`
}

type GetPayrollsFilterRequest struct {
	PeriodStart string `form:"period_start"`
	PeriodEnd   string `form:"period_end"`
	Status      string `form:"status"`
}

type VoidPayrollRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type EarningLineResponse struct {
	Label   string `json:"label"`
	Amount  int64  `json:"amount"`
	Taxable bool   `json:"taxable"`
}

type DeductionLineResponse struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type TaxBreakdownResponse struct {
	IncomeTax           int64 `json:"income_tax"`
	PensionContribution int64 `json:"pension_contribution"`
	Other               int64 `json:"other"`
	Total               int64 `json:"total"`
}

type PayrollResponse struct {
	ID              string                  `json:"id"`
	PayrollNumber   string                  `json:"payroll_number"`
	StaffID         string                  `json:"staff_id"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	RunType         string                  `json:"run_type"`
	Earnings        []EarningLineResponse   `json:"earnings"`
	Deductions      []DeductionLineResponse `json:"deductions"`
	TaxBreakdown    TaxBreakdownResponse    `json:"tax_breakdown"`
	GrossPay        int64                   `json:"gross_pay"`
	TotalDeductions int64                   `json:"total_deductions"`
	NetPay          int64                   `json:"net_pay"`
	Currency        string                  `json:"currency"`
	Status          string                  `json:"status"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedBy       string                  `json:"created_by"`
	ApprovedBy      *string                 `json:"approved_by,omitempty"`
	ApprovedAt      *string                 `json:"approved_at,omitempty"`
	PaidAt          *string                 `json:"paid_at,omitempty"`
}

// PayslipResponse adalah proyeksi aman-payslip: identitas staff disertakan,
// referensi audit internal tidak.
type PayslipResponse struct {
	ID              string                  `json:"id"`
	PayrollNumber   string                  `json:"payroll_number"`
	StaffName       string                  `json:"staff_name"`
	StaffNumber     string                  `json:"staff_number"`
	Department      string                  `json:"department,omitempty"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	PeriodLabel     string                  `json:"period_label"`
	RunType         string                  `json:"run_type"`
	Earnings        []EarningLineResponse   `json:"earnings"`
	Deductions      []DeductionLineResponse `json:"deductions"`
	TaxBreakdown    TaxBreakdownResponse    `json:"tax_breakdown"`
	GrossPay        int64                   `json:"gross_pay"`
	TotalDeductions int64                   `json:"total_deductions"`
	NetPay          int64                   `json:"net_pay"`
	Currency        string                  `json:"currency"`
	Status          string                  `json:"status"`
	PaidAt          *string                 `json:"paid_at,omitempty"`
}

type PeriodResponse struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Label       string `json:"label"`
}
