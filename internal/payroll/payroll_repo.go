package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type PeriodRow struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, records []*PayrollRecord) error
	ExistsForPeriod(ctx context.Context, staffID string, periodStart, periodEnd time.Time, runType string) (bool, error)
	FindAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, error)
	FindByID(ctx context.Context, id string) (*PayrollRecord, error)
	FindByStaff(ctx context.Context, staffID string) ([]PayrollRecord, error)
	ListPeriods(ctx context.Context) ([]PeriodRow, error)
	UpdateStatus(ctx context.Context, record *PayrollRecord) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn mengembalikan session yang terikat ke *sql.Tx bila repository
// sedang berada dalam transaksi. *sql.Tx memenuhi gorm.ConnPool.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	session := r.db.WithContext(ctx)
	if r.tx != nil {
		session = session.Session(&gorm.Session{Context: ctx, NewDB: true})
		session.Statement.ConnPool = r.tx
	}
	return session
}

func (r *repository) CreateBatch(ctx context.Context, records []*PayrollRecord) error {
	return r.conn(ctx).Create(&records).Error
}

func (r *repository) ExistsForPeriod(
	ctx context.Context,
	staffID string,
	periodStart, periodEnd time.Time,
	runType string,
) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&PayrollRecord{}).
		Where("staff_id = ?", staffID).
		Where("period_start = ?", periodStart).
		Where("period_end = ?", periodEnd).
		Where("run_type = ?", runType).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollRecord, error) {
	db := r.conn(ctx).
		Model(&PayrollRecord{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	// Filter periode adalah match eksak, bukan range: run yang lebih pendek
	// di dalam periode yang diminta (mis. TERMINATION tengah bulan) bukan
	// bagian dari listing periode itu.
	if filter.PeriodStart != "" {
		db = db.Where("period_start = ?", filter.PeriodStart)
	}
	if filter.PeriodEnd != "" {
		db = db.Where("period_end = ?", filter.PeriodEnd)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var records []PayrollRecord
	err := db.Order("period_start DESC, payroll_number ASC").Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("StaffMember").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByStaff(ctx context.Context, staffID string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("StaffMember").
		Where("staff_id = ?", staffID).
		Order("period_end DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListPeriods(ctx context.Context) ([]PeriodRow, error) {
	var rows []PeriodRow
	err := r.conn(ctx).
		Model(&PayrollRecord{}).
		Distinct("period_start", "period_end").
		Order("period_start DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus hanya menyentuh kolom workflow; angka finansial immutable.
func (r *repository) UpdateStatus(ctx context.Context, record *PayrollRecord) error {
	return r.conn(ctx).
		Model(&PayrollRecord{}).
		Where("id = ?", record.ID).
		Select("status", "notes", "approved_by", "approved_at", "paid_at", "voided_at", "updated_at").
		Updates(record).Error
}
