package sqlite

import (
	"clinicdesk/cmd/internal/domain/entity"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "./database.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = Migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate keeps the schema current. Also used by tests against in-memory
// databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Patient{},
		&entity.Therapist{},
		&entity.Appointment{},
		&entity.Session{},
		&entity.Transaction{},
		&entity.User{},
		&entity.Invite{},
	)
}
