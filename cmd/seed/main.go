package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jeetendra29gupta/pizza-order-api/internal/config"
	"github.com/jeetendra29gupta/pizza-order-api/internal/db"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
	"github.com/jeetendra29gupta/pizza-order-api/internal/repository"
)

const bcryptCost = 10

type seedUser struct {
	Username string
	Password string
	Email    string
	IsStaff  bool
}

var seedUsers = []seedUser{
	{Username: "admin", Password: "admin-pass", Email: "admin@pizza.local", IsStaff: true},
	{Username: "demo", Password: "demo-pass", Email: "demo@pizza.local", IsStaff: false},
}

var seedOrders = []model.Order{
	{Quantity: 2, PizzaSize: model.PizzaSizeMedium, Flavour: true, OrderStatus: model.OrderStatusPending},
	{Quantity: 1, PizzaSize: model.PizzaSizeLarge, Flavour: false, OrderStatus: model.OrderStatusPending},
	{Quantity: 3, PizzaSize: model.PizzaSizeSmall, Flavour: true, OrderStatus: model.OrderStatusPending},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Order{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	var demo *model.User
	for _, su := range seedUsers {
		existing, err := userRepo.FindByUsername(ctx, su.Username)
		if err == nil {
			log.Printf("User %q already present, skipping", su.Username)
			if !existing.IsStaff {
				demo = existing
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check user %q: %v", su.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %q: %v", su.Username, err)
		}
		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hashed),
			IsActive:     true,
			IsStaff:      su.IsStaff,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %q: %v", su.Username, err)
		}
		log.Printf("Created user %q (staff=%v)", su.Username, su.IsStaff)
		if !su.IsStaff {
			demo = user
		}
	}

	if demo == nil {
		log.Println("No demo customer resolved, skipping order seeding")
		return
	}

	existing, err := orderRepo.ListByUser(ctx, demo.ID)
	if err != nil {
		log.Fatalf("Failed to list demo orders: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Demo user already has %d orders, skipping order seeding", len(existing))
		return
	}

	for i := range seedOrders {
		order := seedOrders[i]
		order.UserID = demo.ID
		if err := orderRepo.Create(ctx, &order); err != nil {
			log.Fatalf("Failed to create sample order: %v", err)
		}
		log.Printf("Created sample order %d", order.ID)
	}

	log.Println("Seeding complete")
}
