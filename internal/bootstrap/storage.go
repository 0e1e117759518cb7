package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelagency/config"
	"github.com/Domenick1991/travelagency/internal/database"
	"github.com/Domenick1991/travelagency/internal/repository"
	"go.uber.org/zap"
)

// Repositories is the storage backend selected by configuration.
type Repositories struct {
	Packages     repository.PackageRepository
	Bookings     repository.BookingRepository
	Customers    repository.CustomerRepository
	Destinations repository.DestinationRepository

	close func()
}

func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects to postgres, applying migrations when asked, or
// builds an in-memory store for the memory driver.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := repository.NewMemoryStore()
		return &Repositories{
			Packages:     store.Packages(),
			Bookings:     store.Bookings(),
			Customers:    store.Customers(),
			Destinations: store.Destinations(),
		}, nil
	case config.DriverPostgres:
		if cfg.MigrateOnStart {
			if err := database.Migrate(cfg.URL()); err != nil {
				return nil, err
			}
			logger.Info("migrations applied")
		}
		pool, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Packages:     repository.NewPackageRepository(pool),
			Bookings:     repository.NewBookingRepository(pool),
			Customers:    repository.NewCustomerRepository(pool),
			Destinations: repository.NewDestinationRepository(pool),
			close:        pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
