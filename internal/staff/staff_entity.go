package staff

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmploymentActive     = "ACTIVE"
	EmploymentTerminated = "TERMINATED"
)

// Staff adalah proyeksi read-only dari data kepegawaian yang dikelola oleh
// subsistem lain. Payroll hanya butuh identitas stabil plus gaji bulanan.
type Staff struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffNumber      string    `gorm:"type:varchar(30);uniqueIndex:uq_staff_number"`
	FullName         string    `gorm:"type:varchar(120);not null"`
	Department       string    `gorm:"type:varchar(80)"`
	MonthlySalary    int64     `gorm:"type:bigint;not null;default:0"` // satuan terkecil (sen)
	EmploymentStatus string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Staff) TableName() string {
	return "staff"
}
