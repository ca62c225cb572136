package app

import (
	"context"
	"fmt"

	"feira/internal/config"
	"feira/internal/database"
	"feira/internal/repositories"
)

// Stores bundles the repositories of one backing store.
type Stores struct {
	Vendors  repositories.VendorRepository
	Products repositories.ProductRepository
	Orders   repositories.OrderRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the backing store is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the store's connections.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects to the store selected by cfg.StoreDriver and makes
// sure its schema (tables or indexes) exists.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return &Stores{
			Vendors:  repositories.NewMemoryVendorRepository(),
			Products: repositories.NewMemoryProductRepository(),
			Orders:   repositories.NewMemoryOrderRepository(),
		}, nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Stores{
			Vendors:  repositories.NewMongoVendorRepository(db),
			Products: repositories.NewMongoProductRepository(db),
			Orders:   repositories.NewMongoOrderRepository(db),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    func() error { return client.Disconnect(context.Background()) },
		}, nil

	default:
		db, err := database.Open(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		return &Stores{
			Vendors:  repositories.NewGORMVendorRepository(db),
			Products: repositories.NewGORMProductRepository(db),
			Orders:   repositories.NewGORMOrderRepository(db),
			ping: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return fmt.Errorf("get sql.DB: %w", err)
				}
				return sqlDB.PingContext(ctx)
			},
			close: func() error { return database.Close(db) },
		}, nil
	}
}
