package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"styledecor/internal/config"
	"styledecor/internal/database"
	"styledecor/internal/domain"
	jwtsvc "styledecor/internal/pkg/jwt"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "styledecor-seed",
		Short: "Schema, demo data and dev tokens for the StyleDecor API",
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		return nil, nil, fmt.Errorf("DB connection failed: %w", err)
	}
	return db, cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the five tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			log.Println("Running AutoMigrate...")
			return database.Migrate(db)
		},
	}
}

func seedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, services and decorators",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if reset {
				log.Println("Cleaning old data...")
				for _, table := range []string{"payments", "bookings", "decorators", "services", "users"} {
					if err := db.Exec("DELETE FROM " + table).Error; err != nil {
						return fmt.Errorf("clean %s: %w", table, err)
					}
				}
			}
			return seed(db, time.Now().UTC())
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing rows first")
	return cmd
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token [email]",
		Short: "Print a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.IsProdLike() {
				return fmt.Errorf("refusing to mint tokens in APP_ENV=%s", cfg.AppEnv)
			}
			tok, err := jwtsvc.New(cfg.JWTSecret, ttl).GenerateToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func seed(db *gorm.DB, now time.Time) error {
	skipExisting := clause.OnConflict{DoNothing: true}

	// ================== USERS ==================
	log.Println("Creating users...")
	users := []domain.User{
		{Email: "admin@styledecor.test", Name: "Admin", Role: domain.RoleAdmin, CreatedAt: now},
		{Email: "rafi@styledecor.test", Name: "Rafi Ahmed", Role: domain.RoleDecorator, CreatedAt: now},
		{Email: "nadia@styledecor.test", Name: "Nadia Islam", Role: domain.RoleDecorator, CreatedAt: now},
		{Email: "ann@styledecor.test", Name: "Ann Customer", Role: domain.RoleUser, CreatedAt: now},
	}
	if err := db.Clauses(skipExisting).Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	// ================== SERVICES ==================
	log.Println("Creating services...")
	services := []domain.Service{
		{Name: "Wedding Stage Decoration", Category: "wedding", Cost: 1200, Unit: "per event", CreatedBy: "admin@styledecor.test"},
		{Name: "Birthday Balloon Setup", Category: "birthday", Cost: 150, Unit: "per room", CreatedBy: "admin@styledecor.test"},
		{Name: "Living Room Makeover", Category: "home", Cost: 40, Unit: "per sqft", CreatedBy: "admin@styledecor.test"},
		{Name: "Office Lobby Styling", Category: "office", Cost: 600, Unit: "per floor", CreatedBy: "admin@styledecor.test"},
		{Name: "Seminar Hall Setup", Category: "seminar", Cost: 800, Unit: "per event", CreatedBy: "admin@styledecor.test"},
	}
	for i := range services {
		services[i].CreatedAt = now.Add(time.Duration(i) * time.Minute)
		services[i].UpdatedAt = services[i].CreatedAt
	}
	if err := db.Create(&services).Error; err != nil {
		return fmt.Errorf("seed services: %w", err)
	}

	// ================== DECORATORS ==================
	log.Println("Creating decorators...")
	decorators := []domain.Decorator{
		{Name: "Rafi Ahmed", Email: "rafi@styledecor.test", Specialities: []string{"Wedding", "Stage"},
			Experience: "6 years", Status: domain.DecoratorApproved, WorkStatus: domain.WorkAvailable, AppliedAt: now.Add(-48 * time.Hour)},
		{Name: "Nadia Islam", Email: "nadia@styledecor.test", Specialities: []string{"Birthday", "Home"},
			Experience: "3 years", Status: domain.DecoratorApproved, WorkStatus: domain.WorkAvailable, AppliedAt: now.Add(-24 * time.Hour)},
	}
	if err := db.Clauses(skipExisting).Create(&decorators).Error; err != nil {
		return fmt.Errorf("seed decorators: %w", err)
	}

	log.Printf("Seed completed: %d users, %d services, %d decorators", len(users), len(services), len(decorators))
	log.Println("Mint a token with: styledecor-seed token admin@styledecor.test")
	return nil
}
