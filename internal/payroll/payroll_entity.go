package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
	StatusVoid     = "VOID"
)

const (
	RunTypeRegular     = "REGULAR"
	RunTypeBonus       = "BONUS"
	RunTypeAdjustment  = "ADJUSTMENT"
	RunTypeTermination = "TERMINATION"
	RunTypeOther       = "OTHER"
)

const (
	LineKindEarning   = "EARNING"
	LineKindDeduction = "DEDUCTION"
)

// PayrollRecord adalah satu baris gaji per staff per periode per run type.
// Baris earnings/deductions dan seluruh total bersifat immutable setelah
// dibuat; hanya status, payment date, dan audit yang boleh berubah.
type PayrollRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_payroll_number"`

	StaffID     uuid.UUID     `gorm:"type:uuid;not null;index:uq_staff_period_run,unique"`
	StaffMember *StaffSummary `gorm:"foreignKey:StaffID;references:ID"`

	// Periode
	PeriodStart time.Time `gorm:"type:date;not null;index:uq_staff_period_run,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:uq_staff_period_run,unique"`
	RunType     string    `gorm:"type:varchar(20);not null;default:'REGULAR';index:uq_staff_period_run,unique"`

	// Financials disimpan dalam satuan terkecil (sen) untuk hindari floating error.
	GrossPay        int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetPay          int64 `gorm:"type:bigint;not null;default:0"`

	// Rincian pajak/statutori
	IncomeTax           int64 `gorm:"type:bigint;not null;default:0"`
	PensionContribution int64 `gorm:"type:bigint;not null;default:0"`
	OtherTax            int64 `gorm:"type:bigint;not null;default:0"`
	TaxTotal            int64 `gorm:"type:bigint;not null;default:0"`

	Currency string `gorm:"type:varchar(3);not null;default:'KES'"`
	Status   string `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes    string `gorm:"type:text"`

	// Workflow & Audit
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time `gorm:"index"`
	PaidAt     *time.Time `gorm:"index"`
	VoidedAt   *time.Time

	Lines []PayrollLine `gorm:"foreignKey:PayrollID"`
}

// PayrollLine adalah satu baris earning atau deduction ad-hoc.
// Komponen statutori tidak disimpan sebagai line; lihat kolom rincian pajak.
type PayrollLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(12);not null"`
	Label     string    `gorm:"type:varchar(120);not null"`
	Amount    int64     `gorm:"type:bigint;not null;default:0"`
	Taxable   bool      `gorm:"not null;default:false"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// StaffSummary dipakai untuk eager loading identitas staff pada payslip.
type StaffSummary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffNumber string    `gorm:"column:staff_number"`
	FullName    string    `gorm:"column:full_name"`
	Department  string    `gorm:"column:department"`
}

func (StaffSummary) TableName() string {
	return "staff"
}

func ValidRunType(v string) bool {
	switch v {
	case RunTypeRegular, RunTypeBonus, RunTypeAdjustment, RunTypeTermination, RunTypeOther:
		return true
	}
	return false
}
