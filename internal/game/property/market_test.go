package property_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wizardry/internal/game/catalog"
	"github.com/cory-johannsen/wizardry/internal/game/character"
	"github.com/cory-johannsen/wizardry/internal/game/property"
)

func testMarket(t *testing.T) *property.Market {
	t.Helper()
	cat, err := catalog.New(
		nil, nil,
		[]*catalog.PropertyTypeDef{
			{ID: "cottage", Name: "Cottage", Price: 1000, Happiness: 10},
			{ID: "manor", Name: "Manor", Price: 5000, Happiness: 25},
		},
		[]*catalog.UpgradeDef{
			{ID: "garden", Name: "Garden", Price: 500, Happiness: 10},
		},
		[]*catalog.EnemyDef{{ID: "goblin", Name: "Goblin", BaseHealth: 30}},
	)
	require.NoError(t, err)
	return property.NewMarket(cat)
}

func newRecord(currency int) *character.Record {
	return character.NewRecord("Hero", character.StartingValues{
		Health: 100, Mana: 100, Energy: 100, Currency: currency,
	}, time.Now())
}

// TestBuy verifies a purchase appends a fresh unlisted instance.
func TestBuy(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(1500)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "cottage", p.TypeID)
	assert.Equal(t, character.ListingNone, p.Listing)
	assert.Empty(t, p.UpgradeIDs)
	assert.Equal(t, 500, rec.Currency)
	require.Len(t, rec.Properties, 1)
	assert.Same(t, p, rec.Properties[0])
}

// TestBuy_SameTypeTwice verifies instances of one type are independent.
func TestBuy_SameTypeTwice(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(2500)

	a, err := m.Buy(rec, "cottage")
	require.NoError(t, err)
	b, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "each purchase gets its own instance id")
	assert.Len(t, rec.Properties, 2)
}

// TestBuy_Rejections verifies unknown types and short funds leave the
// record unchanged.
func TestBuy_Rejections(t *testing.T) {
	m := testMarket(t)

	rec := newRecord(100)
	_, err := m.Buy(rec, "castle")
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Empty(t, rec.Properties)

	_, err = m.Buy(rec, "cottage")
	require.ErrorIs(t, err, character.ErrInsufficientResource)
	assert.Empty(t, rec.Properties)
	assert.Equal(t, 100, rec.Currency)
}

// TestApplyUpgrade verifies the paid upgrade lands on the instance.
func TestApplyUpgrade(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(2000)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	require.NoError(t, m.ApplyUpgrade(rec, p.ID, "garden"))
	assert.Equal(t, []string{"garden"}, p.UpgradeIDs)
	assert.Equal(t, 500, rec.Currency)
}

// TestApplyUpgrade_Duplicate verifies an upgrade applies at most once per
// instance, and the rejection is free.
func TestApplyUpgrade_Duplicate(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(3000)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)
	require.NoError(t, m.ApplyUpgrade(rec, p.ID, "garden"))
	funds := rec.Currency

	err = m.ApplyUpgrade(rec, p.ID, "garden")
	require.ErrorIs(t, err, property.ErrUpgradeApplied)
	assert.Equal(t, []string{"garden"}, p.UpgradeIDs)
	assert.Equal(t, funds, rec.Currency, "a rejected upgrade costs nothing")
}

// TestApplyUpgrade_SameUpgradeOnSecondInstance verifies the once-per-instance
// rule is per instance, not per character.
func TestApplyUpgrade_SameUpgradeOnSecondInstance(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(4000)

	a, err := m.Buy(rec, "cottage")
	require.NoError(t, err)
	b, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	require.NoError(t, m.ApplyUpgrade(rec, a.ID, "garden"))
	require.NoError(t, m.ApplyUpgrade(rec, b.ID, "garden"))
}

// TestApplyUpgrade_Rejections covers unowned instances, unknown upgrades,
// and short funds.
func TestApplyUpgrade_Rejections(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(1400)

	err := m.ApplyUpgrade(rec, "nonexistent", "garden")
	assert.ErrorIs(t, err, property.ErrNotOwned)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	err = m.ApplyUpgrade(rec, p.ID, "moat")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// 400 left, garden costs 500.
	err = m.ApplyUpgrade(rec, p.ID, "garden")
	assert.ErrorIs(t, err, character.ErrInsufficientResource)
	assert.Empty(t, p.UpgradeIDs)
}

// TestListings walks an instance through for-sale, for-rent, and delisting.
func TestListings(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(1000)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	require.NoError(t, m.ListForSale(rec, p.ID, 1200))
	assert.Equal(t, character.ListingForSale, p.Listing)
	assert.Equal(t, 1200, p.ListingPrice)

	require.NoError(t, m.ListForRent(rec, p.ID, 75))
	assert.Equal(t, character.ListingForRent, p.Listing)
	assert.Equal(t, 75, p.ListingPrice)

	require.NoError(t, m.Delist(rec, p.ID))
	assert.Equal(t, character.ListingNone, p.Listing)
	assert.Zero(t, p.ListingPrice)
}

// TestListings_Rejections verifies price and ownership validation.
func TestListings_Rejections(t *testing.T) {
	m := testMarket(t)
	rec := newRecord(1000)

	p, err := m.Buy(rec, "cottage")
	require.NoError(t, err)

	assert.Error(t, m.ListForSale(rec, p.ID, 0), "listing price must be positive")
	assert.Error(t, m.ListForRent(rec, p.ID, -5))
	assert.Equal(t, character.ListingNone, p.Listing)

	assert.ErrorIs(t, m.ListForSale(rec, "nonexistent", 100), property.ErrNotOwned)
	assert.ErrorIs(t, m.Delist(rec, "nonexistent"), property.ErrNotOwned)
}
