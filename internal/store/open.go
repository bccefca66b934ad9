package store

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open builds the EventStore selected by driver.
func Open(driver, dsn string) (EventStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", DriverMemory:
		log.Info().Str("module", "store").Str("driver", DriverMemory).Msg("opened event store")
		return NewMemoryStore(), nil
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time, or concurrent appends fail with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	s, err := NewGormStore(db)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "store").Str("driver", driver).Msg("opened event store")
	return s, nil
}
