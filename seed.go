package main

import (
	"context"
	"errors"
	"log/slog"

	"feira/internal/app"
	"feira/internal/config"
	"feira/internal/revocation"
	"feira/internal/services"
)

const (
	demoEmail     = "demo@feira.local"
	demoPassword  = "feira123"
	demoStoreName = "Banca Demo"
)

// seedDemoStore registers the demo vendor and fills its catalog. A second
// run finds the vendor already registered and leaves everything as is.
func seedDemoStore(ctx context.Context, cfg *config.Config, stores *app.Stores, log *slog.Logger) error {
	auth := services.NewAuthService(stores.Vendors, revocation.NewMemoryStore(), cfg.JWTSecret, cfg.TokenTTL)
	res, err := auth.Register(ctx, services.RegisterInput{
		Name:      "Vendedor Demo",
		Email:     demoEmail,
		Phone:     "+55 11 99999-0000",
		Password:  demoPassword,
		StoreName: demoStoreName,
	})
	if errors.Is(err, services.ErrConflict) {
		log.Info("demo vendor already exists, nothing to seed", "email", demoEmail)
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("seeded vendor", "vendor_id", res.Vendor.ID, "nome_loja", demoStoreName, "email", demoEmail)

	products := []services.ProductInput{
		{Name: "Tomate", Description: "Tomate italiano maduro, kg", Price: 8.90, Quantity: 40, Category: "Legumes"},
		{Name: "Alface", Description: "Alface crespa hidropônica", Price: 3.50, Quantity: 25, Category: "Verduras"},
		{Name: "Banana prata", Description: "Dúzia", Price: 6.00, Quantity: 30, Category: "Frutas"},
		{Name: "Queijo minas", Description: "Peça de 500g", Price: 25.50, Quantity: 10, Category: "Laticínios"},
	}

	catalog := services.NewProductService(stores.Products)
	for _, in := range products {
		p, err := catalog.CreateProduct(ctx, res.Vendor.ID, in)
		if err != nil {
			log.Error("error seeding product", "nome", in.Name, "error", err)
			continue
		}
		log.Info("seeded product", "nome", p.Name, "id", p.ID)
	}
	return nil
}
