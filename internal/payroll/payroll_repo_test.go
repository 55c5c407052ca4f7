package payroll_test

import (
	"context"
	"database/sql"
	"testing"

	"go-staffadmin/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPayrollRepoTest(t *testing.T) (payroll.Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(
		gormpostgres.New(gormpostgres.Config{Conn: db}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	assert.NoError(t, err)

	return payroll.NewRepository(gdb), mock, db
}

// Filter periode pada listing adalah match eksak: run yang lebih pendek
// di dalam rentang yang diminta tidak ikut terambil.
func TestPayrollRepository_FindAllExactPeriodFilter(t *testing.T) {
	repo, mock, db := setupPayrollRepoTest(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "payroll_records" WHERE period_start = \$1 AND period_end = \$2`).
		WithArgs("2026-02-01", "2026-02-28").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindAll(context.Background(), payroll.GetPayrollsFilterRequest{
		PeriodStart: "2026-02-01",
		PeriodEnd:   "2026-02-28",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_FindByStaffOrdersByPeriodEnd(t *testing.T) {
	repo, mock, db := setupPayrollRepoTest(t)
	defer db.Close()

	staffID := uuid.New().String()

	mock.ExpectQuery(`SELECT \* FROM "payroll_records" WHERE staff_id = \$1 ORDER BY period_end DESC`).
		WithArgs(staffID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByStaff(context.Background(), staffID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
