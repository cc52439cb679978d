package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"styledecor/internal/domain"
)

// Connect opens PostgreSQL for postgres:// DSNs and SQLite for anything else.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("level=info msg=connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("level=info msg=using SQLite for local development dsn=" + dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// OpenInMemory returns a migrated private SQLite database. The pool is pinned to a
// single connection because every new ":memory:" connection is a fresh database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Connect(":memory:", false)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Service{},
		&domain.Decorator{},
		&domain.Booking{},
		&domain.Payment{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
