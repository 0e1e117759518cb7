package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore keeps every table in process memory behind one lock. It backs
// the "memory" database driver and the service tests, and enforces the same
// constraints as the Postgres schema: seat counters never go negative,
// customer emails and (country, city) pairs are unique, deletes cascade.
type MemoryStore struct {
	mu           sync.RWMutex
	destinations map[uuid.UUID]domain.Destination
	packages     map[uuid.UUID]domain.Package
	customers    map[uuid.UUID]domain.Customer
	bookings     map[uuid.UUID]domain.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		destinations: make(map[uuid.UUID]domain.Destination),
		packages:     make(map[uuid.UUID]domain.Package),
		customers:    make(map[uuid.UUID]domain.Customer),
		bookings:     make(map[uuid.UUID]domain.Booking),
	}
}

func (s *MemoryStore) Packages() PackageRepository { return &memoryPackages{s} }
func (s *MemoryStore) Bookings() BookingRepository { return &memoryBookings{s} }
func (s *MemoryStore) Customers() CustomerRepository { return &memoryCustomers{s} }
func (s *MemoryStore) Destinations() DestinationRepository { return &memoryDestinations{s} }

func now() time.Time {
	return time.Now().UTC()
}

// packageLocked returns the package with its destination attached. Callers hold s.mu.
func (s *MemoryStore) packageLocked(id uuid.UUID) (domain.Package, bool) {
	p, ok := s.packages[id]
	if !ok {
		return domain.Package{}, false
	}
	if d, ok := s.destinations[p.DestinationID]; ok {
		p.Destination = &d
	}
	return p, true
}

func (s *MemoryStore) bookingLocked(id uuid.UUID) (domain.Booking, bool) {
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, false
	}
	if p, ok := s.packageLocked(b.PackageID); ok {
		b.Package = &p
	}
	if c, ok := s.customers[b.CustomerID]; ok {
		b.Customer = &c
	}
	return b, true
}

func (s *MemoryStore) reserveLocked(id uuid.UUID, count int) (int, error) {
	p, ok := s.packages[id]
	if !ok {
		return 0, ErrNotFound
	}
	if p.AvailableSeats < count {
		return 0, &SeatsError{Remaining: p.AvailableSeats}
	}
	p.AvailableSeats -= count
	p.UpdatedAt = now()
	s.packages[id] = p
	return p.AvailableSeats, nil
}

func (s *MemoryStore) releaseLocked(id uuid.UUID, count int) error {
	p, ok := s.packages[id]
	if !ok {
		return ErrNotFound
	}
	p.AvailableSeats += count
	p.UpdatedAt = now()
	s.packages[id] = p
	return nil
}

func (s *MemoryStore) bookedSeatsLocked(packageID uuid.UUID) int {
	seats := 0
	for _, b := range s.bookings {
		if b.PackageID == packageID && b.HoldsSeats() {
			seats += b.PeopleCount
		}
	}
	return seats
}

func (s *MemoryStore) deletePackageLocked(id uuid.UUID) {
	delete(s.packages, id)
	for bid, b := range s.bookings {
		if b.PackageID == id {
			delete(s.bookings, bid)
		}
	}
}

type memoryPackages struct{ s *MemoryStore }

func (r *memoryPackages) List(_ context.Context) ([]domain.Package, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	packages := make([]domain.Package, 0, len(r.s.packages))
	for id := range r.s.packages {
		p, _ := r.s.packageLocked(id)
		packages = append(packages, p)
	}
	sort.Slice(packages, func(i, j int) bool {
		if !packages[i].StartDate.Equal(packages[j].StartDate) {
			return packages[i].StartDate.Before(packages[j].StartDate)
		}
		return packages[i].Title < packages[j].Title
	})
	return packages, nil
}

func (r *memoryPackages) GetByID(_ context.Context, id uuid.UUID) (*domain.Package, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packageLocked(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryPackages) Create(_ context.Context, pkg *domain.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.packages[pkg.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := r.s.destinations[pkg.DestinationID]; !ok {
		return fmt.Errorf("destination %s: %w", pkg.DestinationID, ErrNotFound)
	}
	pkg.CreatedAt, pkg.UpdatedAt = now(), now()
	stored := *pkg
	stored.Destination = nil
	r.s.packages[pkg.ID] = stored
	return nil
}

func (r *memoryPackages) Update(_ context.Context, pkg *domain.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.packages[pkg.ID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := r.s.destinations[pkg.DestinationID]; !ok {
		return fmt.Errorf("destination %s: %w", pkg.DestinationID, ErrNotFound)
	}
	pkg.TotalSeats = pkg.AvailableSeats + r.s.bookedSeatsLocked(pkg.ID)
	pkg.CreatedAt, pkg.UpdatedAt = existing.CreatedAt, now()
	stored := *pkg
	stored.Destination = nil
	r.s.packages[pkg.ID] = stored
	return nil
}

func (r *memoryPackages) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.packages[id]; !ok {
		return ErrNotFound
	}
	r.s.deletePackageLocked(id)
	return nil
}

func (r *memoryPackages) ReserveSeats(_ context.Context, id uuid.UUID, count int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reserveLocked(id, count)
}

func (r *memoryPackages) ReleaseSeats(_ context.Context, id uuid.UUID, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.releaseLocked(id, count)
}

type memoryBookings struct{ s *MemoryStore }

func (r *memoryBookings) CreateWithReservation(ctx context.Context, booking *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[booking.CustomerID]; !ok {
		return fmt.Errorf("customer %s: %w", booking.CustomerID, ErrNotFound)
	}
	if _, ok := r.s.bookings[booking.ID]; ok {
		return ErrDuplicate
	}
	if _, err := r.s.reserveLocked(booking.PackageID, booking.PeopleCount); err != nil {
		return err
	}
	stored := *booking
	stored.Package, stored.Customer = nil, nil
	r.s.bookings[booking.ID] = stored
	return nil
}

func (r *memoryBookings) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookingLocked(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *memoryBookings) List(_ context.Context) ([]domain.Booking, error) {
	return r.filter(func(domain.Booking) bool { return true }), nil
}

func (r *memoryBookings) ListByCustomerEmail(_ context.Context, email string) ([]domain.Booking, error) {
	email = domain.NormalizeEmail(email)
	return r.filter(func(b domain.Booking) bool {
		return b.Customer != nil && domain.NormalizeEmail(b.Customer.Email) == email
	}), nil
}

func (r *memoryBookings) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for id := range r.s.bookings {
		b, _ := r.s.bookingLocked(id)
		if keep(b) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings
}

func (r *memoryBookings) CountBookedSeats(_ context.Context, packageID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.bookedSeatsLocked(packageID), nil
}

func (r *memoryBookings) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !b.HoldsSeats() {
		return nil, ErrBookingCancelled
	}
	b.Status = status
	b.UpdatedAt = now()
	r.s.bookings[id] = b

	updated, _ := r.s.bookingLocked(id)
	return &updated, nil
}

func (r *memoryBookings) Cancel(_ context.Context, id uuid.UUID) (*domain.Booking, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, false, ErrNotFound
	}

	changed := b.HoldsSeats()
	if changed {
		if err := r.s.releaseLocked(b.PackageID, b.PeopleCount); err != nil {
			return nil, false, err
		}
		b.Status = domain.BookingStatusCancelled
		b.UpdatedAt = now()
		r.s.bookings[id] = b
	}

	updated, _ := r.s.bookingLocked(id)
	return &updated, changed, nil
}

type memoryCustomers struct{ s *MemoryStore }

func (r *memoryCustomers) List(_ context.Context) ([]domain.Customer, error) {
	return r.filter(func(domain.Customer) bool { return true }), nil
}

func (r *memoryCustomers) Search(_ context.Context, term string) ([]domain.Customer, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return r.filter(func(c domain.Customer) bool {
		return strings.Contains(strings.ToLower(c.Email), term) ||
			strings.Contains(strings.ToLower(c.FirstName), term) ||
			strings.Contains(strings.ToLower(c.LastName), term)
	}), nil
}

func (r *memoryCustomers) filter(keep func(domain.Customer) bool) []domain.Customer {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customers := make([]domain.Customer, 0)
	for _, c := range r.s.customers {
		if keep(c) {
			customers = append(customers, c)
		}
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].LastName != customers[j].LastName {
			return customers[i].LastName < customers[j].LastName
		}
		return customers[i].FirstName < customers[j].FirstName
	})
	return customers
}

func (r *memoryCustomers) GetByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.customerByEmailLocked(email); ok {
		return &c, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) customerByEmailLocked(email string) (domain.Customer, bool) {
	email = domain.NormalizeEmail(email)
	for _, c := range s.customers {
		if domain.NormalizeEmail(c.Email) == email {
			return c, true
		}
	}
	return domain.Customer{}, false
}

func (r *memoryCustomers) Create(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[customer.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := r.s.customerByEmailLocked(customer.Email); ok {
		return ErrDuplicate
	}
	customer.CreatedAt, customer.UpdatedAt = now(), now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *memoryCustomers) Update(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.customers[customer.ID]
	if !ok {
		return ErrNotFound
	}
	if other, ok := r.s.customerByEmailLocked(customer.Email); ok && other.ID != customer.ID {
		return ErrDuplicate
	}
	customer.CreatedAt, customer.UpdatedAt = existing.CreatedAt, now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *memoryCustomers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[id]; !ok {
		return ErrNotFound
	}

	owned := make([]domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.CustomerID != id {
			continue
		}
		if _, ok := r.s.packages[b.PackageID]; !ok && b.HoldsSeats() {
			return fmt.Errorf("release seats of booking %s: package %s: %w", b.ID, b.PackageID, ErrNotFound)
		}
		owned = append(owned, b)
	}

	for _, b := range owned {
		if b.HoldsSeats() {
			if err := r.s.releaseLocked(b.PackageID, b.PeopleCount); err != nil {
				return err
			}
		}
		delete(r.s.bookings, b.ID)
	}
	delete(r.s.customers, id)
	return nil
}

type memoryDestinations struct{ s *MemoryStore }

func (r *memoryDestinations) List(ctx context.Context) ([]domain.Destination, error) {
	return r.Find(ctx, "", "")
}

func (r *memoryDestinations) Find(_ context.Context, country, city string) ([]domain.Destination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	destinations := make([]domain.Destination, 0)
	for _, d := range r.s.destinations {
		if (country == "" || d.CountryName == country) && (city == "" || d.City == city) {
			destinations = append(destinations, d)
		}
	}
	sort.Slice(destinations, func(i, j int) bool {
		if destinations[i].CountryName != destinations[j].CountryName {
			return destinations[i].CountryName < destinations[j].CountryName
		}
		return destinations[i].City < destinations[j].City
	})
	return destinations, nil
}

func (r *memoryDestinations) GetByID(_ context.Context, id uuid.UUID) (*domain.Destination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.destinations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *memoryDestinations) GetByCityCountry(_ context.Context, city, country string) (*domain.Destination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.destinations {
		if d.City == city && d.CountryName == country {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryDestinations) ExistsByISO(_ context.Context, isoCode string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.destinations {
		if strings.EqualFold(d.IsoCode, isoCode) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryDestinations) conflictLocked(dest *domain.Destination) bool {
	for _, d := range r.s.destinations {
		if d.ID != dest.ID && d.CountryName == dest.CountryName && d.City == dest.City {
			return true
		}
	}
	return false
}

func (r *memoryDestinations) Create(_ context.Context, dest *domain.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.destinations[dest.ID]; ok || r.conflictLocked(dest) {
		return ErrDuplicate
	}
	dest.CreatedAt, dest.UpdatedAt = now(), now()
	r.s.destinations[dest.ID] = *dest
	return nil
}

func (r *memoryDestinations) Update(_ context.Context, dest *domain.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.destinations[dest.ID]
	if !ok {
		return ErrNotFound
	}
	if r.conflictLocked(dest) {
		return ErrDuplicate
	}
	dest.CreatedAt, dest.UpdatedAt = existing.CreatedAt, now()
	r.s.destinations[dest.ID] = *dest
	return nil
}

func (r *memoryDestinations) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.destinations[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.destinations, id)
	for pid, p := range r.s.packages {
		if p.DestinationID == id {
			r.s.deletePackageLocked(pid)
		}
	}
	return nil
}

var (
	_ PackageRepository     = (*memoryPackages)(nil)
	_ BookingRepository     = (*memoryBookings)(nil)
	_ CustomerRepository    = (*memoryCustomers)(nil)
	_ DestinationRepository = (*memoryDestinations)(nil)
)
