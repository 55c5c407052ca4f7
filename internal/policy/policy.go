package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Semua nominal dalam satuan terkecil mata uang (sen) supaya bebas dari
// floating error; rate memakai decimal.

// Bracket adalah satu lapis tarif pajak progresif. UpperBound inklusif dan
// dalam basis tahunan; 0 berarti open-ended dan hanya boleh di lapis terakhir.
type Bracket struct {
	UpperBound int64           `json:"upper_bound"`
	Rate       decimal.Decimal `json:"rate"`
}

// Band memetakan batas atas gross (inklusif, bulanan) ke potongan nominal tetap.
type Band struct {
	UpperBound int64 `json:"upper_bound"`
	Amount     int64 `json:"amount"`
}

// DeductionPolicy adalah objek konfigurasi eksplisit untuk seluruh komponen
// potongan statutori. Dimuat sekali saat startup dan diberikan ke payroll
// service; tidak ada state global maupun lazy default di jalur query.
type DeductionPolicy struct {
	Currency string `json:"currency" validate:"required,len=3"`

	// Pajak penghasilan progresif (basis tahunan) + relief per tahun.
	PAYEBrackets   []Bracket `json:"paye_brackets" validate:"required,min=1"`
	PersonalRelief int64     `json:"personal_relief" validate:"gte=0"`

	// Kontribusi pensiun dua tier.
	PensionTier1Limit int64           `json:"pension_tier1_limit" validate:"gt=0"`
	PensionTier2Limit int64           `json:"pension_tier2_limit" validate:"gt=0"`
	PensionRate       decimal.Decimal `json:"pension_rate"`

	// Kontribusi kesehatan: step function atas band gross bulanan.
	HealthBands   []Band `json:"health_bands" validate:"required,min=1"`
	HealthCeiling int64  `json:"health_ceiling" validate:"gte=0"`

	// Levy persentase flat atas gross.
	LevyRate decimal.Decimal `json:"levy_rate"`
}

// Default mengembalikan tabel statutori bawaan (bentuk umum: PAYE 5 lapis,
// pensiun dua tier 6%, band kesehatan warisan, levy 1.5%). Angka-angka ini
// data konfigurasi, bukan hukum yang dikodekan permanen.
func Default() DeductionPolicy {
	return DeductionPolicy{
		Currency: "KES",
		PAYEBrackets: []Bracket{
			{UpperBound: 28_800_000, Rate: decimal.NewFromFloat(0.10)},
			{UpperBound: 38_800_000, Rate: decimal.NewFromFloat(0.25)},
			{UpperBound: 600_000_000, Rate: decimal.NewFromFloat(0.30)},
			{UpperBound: 960_000_000, Rate: decimal.NewFromFloat(0.325)},
			{UpperBound: 0, Rate: decimal.NewFromFloat(0.35)},
		},
		PersonalRelief:    2_880_000,
		PensionTier1Limit: 800_000,
		PensionTier2Limit: 7_200_000,
		PensionRate:       decimal.NewFromFloat(0.06),
		HealthBands: []Band{
			{UpperBound: 599_999, Amount: 15_000},
			{UpperBound: 799_999, Amount: 30_000},
			{UpperBound: 1_199_999, Amount: 40_000},
			{UpperBound: 1_499_999, Amount: 50_000},
			{UpperBound: 1_999_999, Amount: 60_000},
			{UpperBound: 2_499_999, Amount: 75_000},
			{UpperBound: 2_999_999, Amount: 85_000},
			{UpperBound: 3_499_999, Amount: 90_000},
			{UpperBound: 3_999_999, Amount: 95_000},
			{UpperBound: 4_499_999, Amount: 100_000},
			{UpperBound: 4_999_999, Amount: 110_000},
			{UpperBound: 5_999_999, Amount: 120_000},
			{UpperBound: 6_999_999, Amount: 130_000},
			{UpperBound: 7_999_999, Amount: 140_000},
			{UpperBound: 8_999_999, Amount: 150_000},
			{UpperBound: 9_999_999, Amount: 160_000},
		},
		HealthCeiling: 170_000,
		LevyRate:      decimal.NewFromFloat(0.015),
	}
}

// Load membaca override kebijakan dari file JSON. Path kosong berarti pakai
// Default(). Hasilnya selalu divalidasi.
func Load(path string) (DeductionPolicy, error) {
	p := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return DeductionPolicy{}, fmt.Errorf("read policy file: %w", err)
		}
		p = DeductionPolicy{}
		if err := json.Unmarshal(raw, &p); err != nil {
			return DeductionPolicy{}, fmt.Errorf("parse policy file: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return DeductionPolicy{}, err
	}
	return p, nil
}

// Validate memeriksa konsistensi tabel: lapis/band harus menaik, rate dalam
// [0,1], dan hanya lapis terakhir yang boleh open-ended.
func (p DeductionPolicy) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return err
	}

	one := decimal.NewFromInt(1)

	for i, b := range p.PAYEBrackets {
		last := i == len(p.PAYEBrackets)-1
		if b.UpperBound == 0 && !last {
			return errors.New("policy: only the last PAYE bracket may be open-ended")
		}
		if b.UpperBound < 0 {
			return errors.New("policy: PAYE bracket upper bound cannot be negative")
		}
		if i > 0 && b.UpperBound != 0 && b.UpperBound <= p.PAYEBrackets[i-1].UpperBound {
			return errors.New("policy: PAYE brackets must be strictly ascending")
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return errors.New("policy: PAYE rate must be within [0,1]")
		}
	}

	if p.PensionTier2Limit <= p.PensionTier1Limit {
		return errors.New("policy: pension tier2 limit must exceed tier1 limit")
	}
	if p.PensionRate.IsNegative() || p.PensionRate.GreaterThan(one) {
		return errors.New("policy: pension rate must be within [0,1]")
	}

	for i, b := range p.HealthBands {
		if b.UpperBound <= 0 {
			return errors.New("policy: health band upper bound must be positive")
		}
		if b.Amount < 0 {
			return errors.New("policy: health band amount cannot be negative")
		}
		if i > 0 && b.UpperBound <= p.HealthBands[i-1].UpperBound {
			return errors.New("policy: health bands must be strictly ascending")
		}
	}

	if p.LevyRate.IsNegative() || p.LevyRate.GreaterThan(one) {
		return errors.New("policy: levy rate must be within [0,1]")
	}

	return nil
}
