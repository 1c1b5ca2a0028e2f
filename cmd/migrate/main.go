package main

import (
	"context"
	"log"

	"matchtrip-be/internal/config"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/implementation"
	"matchtrip-be/internal/service"
	"matchtrip-be/pkg/database"
	"matchtrip-be/pkg/refund"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.UserProvider{},
		&model.Trip{},
		&model.TripPhoto{},
		&model.Offer{},
		&model.Payment{},
		&model.CancellationRequest{},
		&model.RefundPolicy{},
		&model.Message{},
		&model.Review{},
		&model.AuditLog{},
		&model.NotificationType{},
		&model.Notification{},
		&model.UserNotificationPreference{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: partial indexes GORM tags cannot express
	log.Println("Step 3: Creating partial indexes...")
	postMigrationSQL := []string{
		// At most one open cancellation per payment.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_cancellation_active_payment
		 ON cancellation_requests (payment_id) WHERE status IN ('pending', 'approved');`,
		// One pending offer per guide per trip.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_offer_pending_guide
		 ON offers (trip_id, guide_id) WHERE status = 'pending';`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	// 6. Seed
	ctx := context.Background()
	log.Println("Step 4: Seeding notification types...")
	seedNotificationTypes(ctx, db)

	log.Println("Step 5: Seeding default refund bands...")
	seedRefundPolicies(ctx, db)

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}

func seedNotificationTypes(ctx context.Context, db *gorm.DB) {
	repo := implementation.NewNotificationRepository(db)
	for _, t := range service.DefaultNotificationTypes() {
		t := t
		if err := repo.UpsertNotificationType(ctx, &t); err != nil {
			log.Printf("Warn: Failed to seed notification type %s: %v", t.Code, err)
		}
	}
}

// seedRefundPolicies writes the default band table once. An existing table is
// left alone so admin edits survive re-running the migration.
func seedRefundPolicies(ctx context.Context, db *gorm.DB) {
	repo := implementation.NewRefundPolicyRepository(db)
	existing, err := repo.FindAll(ctx)
	if err != nil {
		log.Printf("Warn: Failed to read refund policies: %v", err)
		return
	}
	if len(existing) > 0 {
		log.Printf("Info: %d refund policies already present, skipping", len(existing))
		return
	}
	for _, b := range refund.DefaultBands() {
		p := &entity.RefundPolicy{
			DaysBeforeStart:  b.DaysFrom,
			DaysBeforeEnd:    b.DaysTo,
			RefundPercentage: b.Percentage,
			ApplicableTo:     refund.RoleAll,
			IsActive:         true,
		}
		if err := repo.Create(ctx, p); err != nil {
			log.Printf("Warn: Failed to seed band %s: %v", b.Describe(), err)
		}
	}
}
