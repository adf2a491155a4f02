package main

import (
	"fmt"
	"log"
	"time"

	"tourly/internal/bookings"
	"tourly/internal/policies"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
	"tourly/internal/users"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Tourly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"refund_requests",
		"refund_policies",
		"bookings",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedBookings(userIDs["customer"]); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	if err := s.SeedRefundPolicies(); err != nil {
		return fmt.Errorf("failed to seed refund policies: %w", err)
	}

	return nil
}

// SeedUsers creates an admin and a customer account
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := users.User{
		ID:        uuid.New(),
		FirstName: "Admin",
		LastName:  "Tourly",
		Email:     "admin@tourly.local",
		Password:  string(hash),
		Role:      users.RoleAdmin,
	}
	customer := users.User{
		ID:        uuid.New(),
		FirstName: "Linh",
		LastName:  "Tran",
		Email:     "linh.tran@example.com",
		Password:  string(hash),
		Role:      users.RoleCustomer,
	}

	for _, u := range []users.User{admin, customer} {
		if err := s.db.PostgreSQL.Create(&u).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		fmt.Printf("  Created user: %s (%s)\n", u.Email, u.Role)
	}

	return map[string]uuid.UUID{
		"admin":    admin.ID,
		"customer": customer.ID,
	}, nil
}

// SeedBookings creates confirmed bookings at various distances from departure
func (s *Seeder) SeedBookings(customerID uuid.UUID) error {
	now := time.Now().UTC()
	seeds := []struct {
		ref      string
		daysOut  int
		price    int64
	}{
		{"TRV-1001", 14, 1000000},
		{"TRV-1002", 7, 1000000},
		{"TRV-1003", 3, 2500000},
		{"TRV-1004", 1, 600000},
	}

	for _, b := range seeds {
		booking := bookings.Booking{
			ID:         uuid.New(),
			CustomerID: customerID,
			TourID:     uuid.New(),
			TourDate:   now.AddDate(0, 0, b.daysOut),
			TotalPrice: decimal.NewFromInt(b.price),
			Status:     string(bookings.StatusConfirmed),
			BookingRef: b.ref,
		}
		if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking %s: %w", b.ref, err)
		}
		fmt.Printf("  Created booking: %s (%d days out, %d VND)\n", b.ref, b.daysOut, b.price)
	}
	return nil
}

// SeedRefundPolicies creates the standard two-band catalog for each refund type
func (s *Seeder) SeedRefundPolicies() error {
	effectiveFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	six := 6

	bands := []struct {
		refundType policies.RefundType
		minDays    int
		maxDays    *int
		pct        string
		fee        int64
		priority   int
		desc       string
	}{
		{policies.RefundTypeUserCancellation, 7, nil, "90", 50000, 1, "Early cancellation, 7+ days before departure"},
		{policies.RefundTypeUserCancellation, 0, &six, "50", 50000, 2, "Late cancellation, under 7 days"},
		{policies.RefundTypeCompanyCancellation, 0, nil, "100", 0, 1, "Operator-cancelled tours refund in full"},
		{policies.RefundTypeAutoCancellation, 0, nil, "100", 0, 1, "System-cancelled bookings refund in full"},
	}

	for _, b := range bands {
		policy := policies.RefundPolicy{
			ID:                 uuid.New(),
			RefundType:         b.refundType,
			MinDaysBeforeEvent: b.minDays,
			MaxDaysBeforeEvent: b.maxDays,
			RefundPercentage:   decimal.RequireFromString(b.pct),
			ProcessingFee:      decimal.NewFromInt(b.fee),
			Priority:           b.priority,
			IsEnabled:          true,
			EffectiveFrom:      effectiveFrom,
			Description:        b.desc,
		}
		if err := policy.Validate(); err != nil {
			return fmt.Errorf("invalid seed policy %q: %w", b.desc, err)
		}
		if err := s.db.PostgreSQL.Create(&policy).Error; err != nil {
			return fmt.Errorf("failed to create policy %q: %w", b.desc, err)
		}
		fmt.Printf("  Created policy: %s [%s]\n", b.desc, b.refundType)
	}
	return nil
}
