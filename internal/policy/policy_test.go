package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"go-staffadmin/internal/policy"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	assert.NoError(t, policy.Default().Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path falls back to default", func(t *testing.T) {
		p, err := policy.Load("")
		assert.NoError(t, err)
		assert.Equal(t, "KES", p.Currency)
		assert.Len(t, p.PAYEBrackets, 5)
	})

	t.Run("override file", func(t *testing.T) {
		raw := `{
			"currency": "TZS",
			"paye_brackets": [
				{"upper_bound": 10000000, "rate": "0.1"},
				{"upper_bound": 0, "rate": "0.3"}
			],
			"personal_relief": 100000,
			"pension_tier1_limit": 500000,
			"pension_tier2_limit": 5000000,
			"pension_rate": "0.05",
			"health_bands": [
				{"upper_bound": 1000000, "amount": 20000}
			],
			"health_ceiling": 50000,
			"levy_rate": "0.01"
		}`
		path := filepath.Join(t.TempDir(), "policy.json")
		assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		p, err := policy.Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "TZS", p.Currency)
		assert.Equal(t, int64(100000), p.PersonalRelief)
		assert.True(t, p.PensionRate.Equal(decimal.NewFromFloat(0.05)))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := policy.Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("invalid override is rejected", func(t *testing.T) {
		raw := `{
			"currency": "KES",
			"paye_brackets": [
				{"upper_bound": 0, "rate": "0.1"},
				{"upper_bound": 10000000, "rate": "0.3"}
			],
			"personal_relief": 0,
			"pension_tier1_limit": 500000,
			"pension_tier2_limit": 5000000,
			"pension_rate": "0.05",
			"health_bands": [
				{"upper_bound": 1000000, "amount": 20000}
			],
			"health_ceiling": 50000,
			"levy_rate": "0.01"
		}`
		path := filepath.Join(t.TempDir(), "policy.json")
		assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		_, err := policy.Load(path)
		assert.ErrorContains(t, err, "open-ended")
	})
}

func TestValidate(t *testing.T) {
	base := policy.Default()

	t.Run("brackets must ascend", func(t *testing.T) {
		p := base
		p.PAYEBrackets = []policy.Bracket{
			{UpperBound: 20_000_000, Rate: decimal.NewFromFloat(0.10)},
			{UpperBound: 10_000_000, Rate: decimal.NewFromFloat(0.25)},
		}
		assert.ErrorContains(t, p.Validate(), "ascending")
	})

	t.Run("rate out of range", func(t *testing.T) {
		p := base
		p.PAYEBrackets = []policy.Bracket{
			{UpperBound: 0, Rate: decimal.NewFromFloat(1.5)},
		}
		assert.ErrorContains(t, p.Validate(), "rate")
	})

	t.Run("pension tiers must be ordered", func(t *testing.T) {
		p := base
		p.PensionTier1Limit = 7_200_000
		p.PensionTier2Limit = 800_000
		assert.ErrorContains(t, p.Validate(), "tier2")
	})

	t.Run("health bands must ascend", func(t *testing.T) {
		p := base
		p.HealthBands = []policy.Band{
			{UpperBound: 1_000_000, Amount: 20_000},
			{UpperBound: 1_000_000, Amount: 30_000},
		}
		assert.ErrorContains(t, p.Validate(), "ascending")
	})

	t.Run("missing currency", func(t *testing.T) {
		p := base
		p.Currency = ""
		assert.Error(t, p.Validate())
	})
}
