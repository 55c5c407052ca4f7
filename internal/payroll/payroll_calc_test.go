package payroll_test

import (
	"testing"
	"time"

	"go-staffadmin/internal/payroll"
	payrollerrors "go-staffadmin/internal/payroll/errors"
	"go-staffadmin/internal/policy"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProrateMonthly(t *testing.T) {
	const salary = int64(8_000_000) // KES 80,000.00

	t.Run("full calendar month returns the monthly salary", func(t *testing.T) {
		gross, err := payroll.ProrateMonthly(salary, date(2026, time.February, 1), date(2026, time.February, 28))
		assert.NoError(t, err)
		assert.Equal(t, salary, gross)

		gross, err = payroll.ProrateMonthly(salary, date(2026, time.March, 1), date(2026, time.March, 31))
		assert.NoError(t, err)
		assert.Equal(t, salary, gross)
	})

	t.Run("half month", func(t *testing.T) {
		// 14 dari 28 hari
		gross, err := payroll.ProrateMonthly(salary, date(2026, time.February, 1), date(2026, time.February, 14))
		assert.NoError(t, err)
		assert.Equal(t, int64(4_000_000), gross)
	})

	t.Run("single day", func(t *testing.T) {
		gross, err := payroll.ProrateMonthly(salary, date(2026, time.February, 10), date(2026, time.February, 10))
		assert.NoError(t, err)
		// 8_000_000 / 28 = 285_714.29 -> 285_714
		assert.Equal(t, int64(285_714), gross)
	})

	t.Run("cross month uses the end month as divisor", func(t *testing.T) {
		// Jan 25 - Feb 24 inklusif = 31 hari, pembagi 28
		gross, err := payroll.ProrateMonthly(salary, date(2026, time.January, 25), date(2026, time.February, 24))
		assert.NoError(t, err)
		assert.Equal(t, int64(8_857_143), gross)
	})

	t.Run("non-positive salary", func(t *testing.T) {
		_, err := payroll.ProrateMonthly(0, date(2026, time.February, 1), date(2026, time.February, 28))
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidSalary)

		_, err = payroll.ProrateMonthly(-500, date(2026, time.February, 1), date(2026, time.February, 28))
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidSalary)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := payroll.ProrateMonthly(salary, date(2026, time.February, 28), date(2026, time.February, 1))
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidDateRange)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2026, time.February, 1, 23, 59, 0, 0, time.UTC)
		end := time.Date(2026, time.February, 28, 0, 1, 0, 0, time.UTC)
		gross, err := payroll.ProrateMonthly(salary, start, end)
		assert.NoError(t, err)
		assert.Equal(t, salary, gross)
	})
}

func TestComputeDeductions(t *testing.T) {
	pol := policy.Default()

	t.Run("mid income breakdown", func(t *testing.T) {
		b := payroll.ComputeDeductions(8_000_000, pol)

		assert.Equal(t, int64(432_000), b.Pension)   // 800k@6% + 6.4M@6%
		assert.Equal(t, int64(120_000), b.Levy)      // 1.5%
		assert.Equal(t, int64(150_000), b.Health)    // band 80,000 <= 89,999.99
		assert.Equal(t, int64(1_472_733), b.IncomeTax)
		assert.Equal(t, b.IncomeTax+b.Pension+b.Health+b.Levy, b.Total)
	})

	t.Run("lower income breakdown", func(t *testing.T) {
		b := payroll.ComputeDeductions(4_500_000, pol)

		assert.Equal(t, int64(270_000), b.Pension)
		assert.Equal(t, int64(67_500), b.Levy)
		assert.Equal(t, int64(110_000), b.Health)
		assert.Equal(t, int64(487_083), b.IncomeTax)
	})

	t.Run("relief zeroes out tax at low income", func(t *testing.T) {
		b := payroll.ComputeDeductions(1_000_000, pol)

		assert.Equal(t, int64(0), b.IncomeTax)
		assert.Equal(t, int64(60_000), b.Pension)
		assert.Equal(t, int64(40_000), b.Health)
		assert.Equal(t, int64(15_000), b.Levy)
		assert.Equal(t, int64(115_000), b.Total)
	})

	t.Run("health band bounds are inclusive", func(t *testing.T) {
		assert.Equal(t, int64(100_000), payroll.ComputeDeductions(4_499_999, pol).Health)
		assert.Equal(t, int64(110_000), payroll.ComputeDeductions(4_500_000, pol).Health)
		// Di atas band tertinggi berlaku ceiling
		assert.Equal(t, int64(170_000), payroll.ComputeDeductions(25_000_000, pol).Health)
	})

	t.Run("pension caps at tier two limit", func(t *testing.T) {
		atLimit := payroll.ComputeDeductions(7_200_000, pol).Pension
		aboveLimit := payroll.ComputeDeductions(50_000_000, pol).Pension
		assert.Equal(t, atLimit, aboveLimit)
		assert.Equal(t, int64(432_000), atLimit)
	})

	t.Run("income tax is monotonic in gross", func(t *testing.T) {
		prev := int64(-1)
		for gross := int64(0); gross <= 30_000_000; gross += 250_000 {
			tax := payroll.ComputeDeductions(gross, pol).IncomeTax
			assert.GreaterOrEqual(t, tax, prev, "gross=%d", gross)
			prev = tax
		}
	})

	t.Run("all components non-negative", func(t *testing.T) {
		for _, gross := range []int64{0, 1, 99, 100_000, 999_999_999} {
			b := payroll.ComputeDeductions(gross, pol)
			assert.GreaterOrEqual(t, b.IncomeTax, int64(0))
			assert.GreaterOrEqual(t, b.Pension, int64(0))
			assert.GreaterOrEqual(t, b.Health, int64(0))
			assert.GreaterOrEqual(t, b.Levy, int64(0))
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := payroll.ComputeDeductions(6_543_210, pol)
		second := payroll.ComputeDeductions(6_543_210, pol)
		assert.Equal(t, first, second)
	})
}

func TestFormatPeriodLabel(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{
			name:  "same month",
			start: date(2026, time.February, 1),
			end:   date(2026, time.February, 28),
			want:  "Feb 1–28, 2026",
		},
		{
			name:  "cross month same year",
			start: date(2026, time.January, 25),
			end:   date(2026, time.February, 24),
			want:  "Jan 25 – Feb 24, 2026",
		},
		{
			name:  "cross year",
			start: date(2025, time.December, 25),
			end:   date(2026, time.January, 24),
			want:  "Dec 25, 2025 – Jan 24, 2026",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payroll.FormatPeriodLabel(tc.start, tc.end))
		})
	}
}
