package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/config"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// activeDateIndex allows one non-cancelled appointment per slot start.
// Both postgres and sqlite support partial indexes.
const activeDateIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_date
	ON appointments (date)
	WHERE status <> 'CANCELLED'
`

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	if cfg.DBDriver == DriverSQLite {
		// one writer; concurrent writers would fail with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	return db
}

// Open connects without migrating. Timestamps are written in UTC and
// driver errors are translated to gorm errors (gorm.ErrDuplicatedKey).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    driver != DriverSQLite,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Service{},
		&models.Appointment{},
		&models.BlockedSlot{},
		&models.Holiday{},
		&models.ShopSettings{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(activeDateIndex).Error; err != nil {
		return fmt.Errorf("create active date index: %w", err)
	}
	return nil
}

// SeedAdmin creates the first admin account when credentials are configured
// and no user with that email exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	log.Printf("seeding admin user %s", email)
	return db.Create(&models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}).Error
}
