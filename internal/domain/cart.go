package domain

import (
	"fmt"
	"time"

	"github.com/Domenick1991/travelagency/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-session staging area for packages a customer intends to
// book. It is a plain value: the session store loads it at the start of a
// request and saves it back at the end.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots title and price at the time the package was added.
type CartItem struct {
	PackageID   uuid.UUID       `json:"package_id"`
	Title       string          `json:"title"`
	PeopleCount int             `json:"people_count"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return pricing.LineTotal(i.UnitPrice, i.PeopleCount)
}

func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []CartItem{}}
}

// Add stages count seats of pkg. Non-positive counts are treated as 1.
// Adding a package that is already staged grows its quantity and keeps the
// original snapshot. A staged quantity above MaxPeopleCount is rejected and
// leaves the cart unchanged.
func (c *Cart) Add(pkg Package, count int) (CartItem, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxPeopleCount {
		return CartItem{}, tooManyPeople()
	}
	for i := range c.Items {
		if c.Items[i].PackageID == pkg.ID {
			if c.Items[i].PeopleCount > MaxPeopleCount-count {
				return CartItem{}, tooManyPeople()
			}
			c.Items[i].PeopleCount += count
			return c.Items[i], nil
		}
	}
	item := CartItem{
		PackageID:   pkg.ID,
		Title:       pkg.Title,
		PeopleCount: count,
		UnitPrice:   pkg.BasePrice,
	}
	c.Items = append(c.Items, item)
	return item, nil
}

func tooManyPeople() *ValidationError {
	return &ValidationError{Field: "people_count", Message: fmt.Sprintf("must be at most %d", MaxPeopleCount)}
}

// Remove drops the staged item for packageID and reports whether it was present.
func (c *Cart) Remove(packageID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].PackageID == packageID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Find(packageID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.PackageID == packageID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// DropFirst removes the first n staged items, keeping staging order of the rest.
func (c *Cart) DropFirst(n int) {
	if n <= 0 {
		return
	}
	if n >= len(c.Items) {
		c.Items = []CartItem{}
		return
	}
	c.Items = append([]CartItem{}, c.Items[n:]...)
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c *Cart) Total() decimal.Decimal {
	lines := make([]decimal.Decimal, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, item.Subtotal())
	}
	return pricing.Sum(lines...)
}
