package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPackage(title, price string) Package {
	return Package{
		ID:             uuid.New(),
		Title:          title,
		BasePrice:      decimal.RequireFromString(price),
		AvailableSeats: 10,
	}
}

func TestCart_AddAccumulatesQuantity(t *testing.T) {
	cart := NewCart("session")
	pkg := testPackage("Lisbon weekend", "250.00")

	_, err := cart.Add(pkg, 2)
	require.NoError(t, err)
	_, err = cart.Add(pkg, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].PeopleCount)
	assert.Equal(t, "1250", cart.Total().String())
}

func TestCart_AddClampsNonPositiveCount(t *testing.T) {
	cart := NewCart("session")
	pkg := testPackage("Alps", "100")

	item, err := cart.Add(pkg, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.PeopleCount)

	item, err = cart.Add(pkg, -4)
	require.NoError(t, err)
	assert.Equal(t, 2, item.PeopleCount)
}

func TestCart_AddRejectsQuantityAboveLimit(t *testing.T) {
	cart := NewCart("session")
	pkg := testPackage("Fjords", "100")

	_, err := cart.Add(pkg, math.MaxInt)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "people_count", vErr.Field)
	assert.True(t, cart.IsEmpty())

	_, err = cart.Add(pkg, MaxPeopleCount)
	require.NoError(t, err)

	_, err = cart.Add(pkg, 1)
	require.ErrorAs(t, err, &vErr)
	_, err = cart.Add(pkg, math.MaxInt)
	require.ErrorAs(t, err, &vErr)

	item, ok := cart.Find(pkg.ID)
	require.True(t, ok)
	assert.Equal(t, MaxPeopleCount, item.PeopleCount)
}

func TestCart_AddKeepsOriginalSnapshot(t *testing.T) {
	cart := NewCart("session")
	pkg := testPackage("Crete", "300")
	_, err := cart.Add(pkg, 1)
	require.NoError(t, err)

	pkg.Title = "Crete (renamed)"
	pkg.BasePrice = decimal.RequireFromString("999")
	_, err = cart.Add(pkg, 1)
	require.NoError(t, err)

	item, ok := cart.Find(pkg.ID)
	require.True(t, ok)
	assert.Equal(t, "Crete", item.Title)
	assert.Equal(t, "300", item.UnitPrice.String())
	assert.Equal(t, 2, item.PeopleCount)
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	cart := NewCart("session")
	a := testPackage("A", "10")
	b := testPackage("B", "20")
	_, err := cart.Add(a, 1)
	require.NoError(t, err)
	_, err = cart.Add(b, 1)
	require.NoError(t, err)

	assert.True(t, cart.Remove(a.ID))
	assert.False(t, cart.Remove(a.ID))
	assert.False(t, cart.Remove(uuid.New()))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].PackageID)
}

func TestCart_DropFirstKeepsOrder(t *testing.T) {
	cart := NewCart("session")
	pkgs := []Package{testPackage("A", "1"), testPackage("B", "2"), testPackage("C", "3")}
	for _, p := range pkgs {
		_, err := cart.Add(p, 1)
		require.NoError(t, err)
	}

	cart.DropFirst(1)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, pkgs[1].ID, cart.Items[0].PackageID)
	assert.Equal(t, pkgs[2].ID, cart.Items[1].PackageID)

	cart.DropFirst(5)
	assert.True(t, cart.IsEmpty())
}

func TestPackage_Remaining(t *testing.T) {
	assert.Equal(t, 0, Package{AvailableSeats: -3}.Remaining())
	assert.Equal(t, 7, Package{AvailableSeats: 7}.Remaining())
}

func TestCapacityError_MatchesSentinel(t *testing.T) {
	var err error = &CapacityError{Title: "Rome", Requested: 3, Remaining: 2}
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Contains(t, err.Error(), "Remaining: 2")
}

func TestSeatAudit_Drift(t *testing.T) {
	audit := SeatAudit{TotalSeats: 10, BookedSeats: 4, AvailableSeats: 6}
	assert.True(t, audit.Consistent())

	audit.AvailableSeats = 5
	assert.Equal(t, 1, audit.Drift())
	assert.False(t, audit.Consistent())
}
