package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/deliverymx/user-service/config"
	"github.com/deliverymx/user-service/pkg/helpers"
)

type seedUser struct {
	name, lastName, email, phone, username, role string

	loyaltyPoints int
	paymentMethod string

	vehicleType, licenseNumber, deliveryStatus string

	restaurantID, restaurantRole string
	permissions                  []string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "Sup3rSecret!"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []seedUser{
		{
			name: "Maria", lastName: "Lopez", email: "maria.lopez@example.com",
			phone: "+525512345678", username: "maria.lopez", role: "customer",
			loyaltyPoints: 120, paymentMethod: "credit_card",
		},
		{
			name: "Diego", lastName: "Ramirez", email: "diego.ramirez@example.com",
			phone: "+525587654321", username: "diego.r", role: "delivery_person",
			vehicleType: "motorcycle", licenseNumber: "MX-9981-22", deliveryStatus: "available",
		},
		{
			name: "Sofia", lastName: "Hernandez", email: "sofia.hernandez@example.com",
			phone: "+525511223344", username: "sofia.h", role: "restaurant_user",
			restaurantID: uuid.NewString(), restaurantRole: "owner",
			permissions: []string{"manage_restaurant", "manage_menu", "manage_orders", "manage_staff", "view_analytics", "manage_settings"},
		},
	}

	for _, u := range users {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND is_active)`, u.email).Scan(&exists); err != nil {
			log.Fatalf("failed to check %s: %v", u.email, err)
		}
		if exists {
			fmt.Printf("skipping %s: already seeded\n", u.email)
			continue
		}

		id := uuid.NewString()
		perms := "{}"
		if len(u.permissions) > 0 {
			perms = "{"
			for i, p := range u.permissions {
				if i > 0 {
					perms += ","
				}
				perms += p
			}
			perms += "}"
		}
		_, err := db.Exec(`
			INSERT INTO users (
				id, name, last_name, email, phone, username, password_hash, role, is_active,
				loyalty_points, preferred_payment_method,
				vehicle_type, license_number, rating, completed_deliveries, delivery_status, profile_picture_url,
				restaurant_id, restaurant_role, permissions
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true,
				$9, $10, $11, $12, 0, 0, $13, '', $14, $15, $16)
			ON CONFLICT (id) DO NOTHING
		`, id, u.name, u.lastName, u.email, u.phone, u.username, hash, u.role,
			u.loyaltyPoints, u.paymentMethod,
			u.vehicleType, u.licenseNumber, u.deliveryStatus,
			u.restaurantID, u.restaurantRole, perms)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", u.email, err)
		}
		fmt.Printf("seeded %s: id=%s email=%s password=%s\n", u.role, id, u.email, password)
	}
}
