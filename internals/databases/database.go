// file: internals/databases/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"kampusku_backend/internals/configs"
	amodel "kampusku_backend/internals/features/academics/model"
	fmodel "kampusku_backend/internals/features/finance/model"
)

var DB *gorm.DB

// =======================
// DATABASE CONNECTOR
// =======================

func ConnectDB() {
	dbUser := configs.GetEnv("DB_USER")
	dbPassword := configs.GetEnv("DB_PASSWORD")
	dbHost := configs.GetEnv("DB_HOST", "localhost")
	dbPort := configs.GetEnv("DB_PORT", "5432")
	dbName := configs.GetEnv("DB_NAME")
	dbSSL := configs.GetEnv("DB_SSLMODE", "require")

	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSL)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // hindari cache prepared statement
	}), &gorm.Config{
		Logger: NewGormLogger(),
		// penting: unique violation harus terpetakan ke gorm.ErrDuplicatedKey
		// supaya store adapter bisa mengembalikan ErrDuplicate
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database: %v", err)
	}
	DB = db
	log.Println("✅ Database terkoneksi.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("⚠️ Gagal mengambil sql.DB: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

// AutoMigrate menjalankan migrasi kelima relasi core.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&amodel.Program{},
		&amodel.Student{},
		&fmodel.BillCategory{},
		&fmodel.Bill{},
		&fmodel.Payment{},
	); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}

// =======================
// GORM LOGGER CUSTOM
// =======================

type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
