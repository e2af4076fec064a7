package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wizardry/internal/game/character"
)

var starting = character.StartingValues{Health: 100, Mana: 100, Energy: 100, Currency: 100}

// TestNewRecord verifies a fresh character starts at level 1 with full vitals.
func TestNewRecord(t *testing.T) {
	now := time.Now()
	rec := character.NewRecord("Gandalf", starting, now)

	assert.Equal(t, "Gandalf", rec.Name)
	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, 0, rec.Experience)
	assert.Equal(t, character.Vital{Current: 100, Max: 100}, rec.Health)
	assert.Equal(t, character.Vital{Current: 100, Max: 100}, rec.Mana)
	assert.Equal(t, character.Vital{Current: 100, Max: 100}, rec.Energy)
	assert.Equal(t, 100, rec.Currency)
	assert.Equal(t, now, rec.LastEnergyUpdate)
	assert.Empty(t, rec.WeaponID)
	assert.Empty(t, rec.ArmorID)
	assert.Empty(t, rec.Properties)
}

// TestSpendEnergy_Insufficient verifies the rejection leaves energy untouched.
func TestSpendEnergy_Insufficient(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	rec.Energy.Current = 10

	err := rec.SpendEnergy(25)
	require.ErrorIs(t, err, character.ErrInsufficientResource)
	assert.Equal(t, 10, rec.Energy.Current, "a rejected spend must not mutate energy")
}

// TestSpendEnergy_ExactBalance verifies spending down to exactly zero succeeds.
func TestSpendEnergy_ExactBalance(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	require.NoError(t, rec.SpendEnergy(100))
	assert.Equal(t, 0, rec.Energy.Current)
}

// TestSpendMana_Insufficient verifies the rejection leaves mana untouched.
func TestSpendMana_Insufficient(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	rec.Mana.Current = 5

	err := rec.SpendMana(20)
	require.ErrorIs(t, err, character.ErrInsufficientResource)
	assert.Equal(t, 5, rec.Mana.Current)
}

// TestSpendCurrency verifies deduction and the no-mutation rejection.
func TestSpendCurrency(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())

	require.NoError(t, rec.SpendCurrency(40))
	assert.Equal(t, 60, rec.Currency)

	err := rec.SpendCurrency(61)
	require.ErrorIs(t, err, character.ErrInsufficientResource)
	assert.Equal(t, 60, rec.Currency, "currency never goes negative")
}

// TestHeal_ClampsAtMax verifies overhealing clamps to the maximum.
func TestHeal_ClampsAtMax(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	rec.Health.Current = 80

	rec.Heal(50)
	assert.Equal(t, 100, rec.Health.Current)
}

// TestRestoreMana_ClampsAtMax verifies mana restoration clamps to the maximum.
func TestRestoreMana_ClampsAtMax(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	rec.Mana.Current = 95

	rec.RestoreMana(50)
	assert.Equal(t, 100, rec.Mana.Current)
}

// TestApplyDamage_FloorsAtZero verifies health never goes negative and
// IsDowned flips at zero.
func TestApplyDamage_FloorsAtZero(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())

	rec.ApplyDamage(30)
	assert.Equal(t, 70, rec.Health.Current)
	assert.False(t, rec.IsDowned())

	rec.ApplyDamage(500)
	assert.Equal(t, 0, rec.Health.Current)
	assert.True(t, rec.IsDowned())
}

// TestVital_Bounds_Property verifies the vital invariant
// 0 <= Current <= Max under arbitrary damage/heal sequences.
func TestVital_Bounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rec := character.NewRecord("Hero", starting, time.Now())
		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			amount := rapid.IntRange(0, 300).Draw(rt, "amount")
			if rapid.Bool().Draw(rt, "heal") {
				rec.Heal(amount)
			} else {
				rec.ApplyDamage(amount)
			}
			assert.GreaterOrEqual(rt, rec.Health.Current, 0,
				"health must never go negative")
			assert.LessOrEqual(rt, rec.Health.Current, rec.Health.Max,
				"health must never exceed max")
		}
	})
}

// TestPropertyByID covers lookup hits and misses.
func TestPropertyByID(t *testing.T) {
	rec := character.NewRecord("Hero", starting, time.Now())
	rec.Properties = []*character.Property{
		{ID: "p-1", TypeID: "cottage", Listing: character.ListingNone},
		{ID: "p-2", TypeID: "manor", Listing: character.ListingNone},
	}

	p, ok := rec.PropertyByID("p-2")
	require.True(t, ok)
	assert.Equal(t, "manor", p.TypeID)

	_, ok = rec.PropertyByID("p-3")
	assert.False(t, ok)
}

// TestProperty_HasUpgrade verifies per-instance upgrade membership.
func TestProperty_HasUpgrade(t *testing.T) {
	p := &character.Property{ID: "p-1", TypeID: "manor", UpgradeIDs: []string{"garden", "fountain"}}
	assert.True(t, p.HasUpgrade("garden"))
	assert.True(t, p.HasUpgrade("fountain"))
	assert.False(t, p.HasUpgrade("library"))
}
