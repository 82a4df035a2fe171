package main

import (
	"context"
	"fmt"
	"log"

	"cart-discount-service/internal/config"
	"cart-discount-service/internal/database"
	"cart-discount-service/internal/repositories"
)

func main() {
	fmt.Println("Seeding demo carts")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(cfg.Database.Connection())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store := repositories.NewSQLStore(db.DB, db.Driver)
	if err := repositories.SeedDemoData(ctx, store); err != nil {
		log.Fatal("Failed to seed demo data:", err)
	}

	for _, cartID := range repositories.DemoCartIDs {
		tickets, err := store.Ledgers().Tickets.TicketsByCart(ctx, cartID)
		if err != nil {
			log.Fatal("Failed to read tickets:", err)
		}
		recorded, err := store.Ledgers().Discounts.DiscountsByCart(ctx, cartID)
		if err != nil {
			log.Fatal("Failed to read discounts:", err)
		}
		fmt.Printf("  cart %d: %d tickets, %d discounts\n", cartID, len(tickets), len(recorded))
	}

	fmt.Println("Seeding completed")
}
