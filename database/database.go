// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Migration'lar goose ile çalıştırılır: her dosya "-- +goose Up" /
// "-- +goose Down" bölümleri taşır, uygulanan versiyonlar goose_db_version
// tablosunda tutulur.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver — CGO gerekmez
)

// gooseMu, goose'un global state'ini (base FS, dialect) korur.
// Testlerde birden fazla DB aynı process içinde açılabilir.
var gooseMu sync.Mutex

// DB, veritabanı bağlantısını saran struct.
// *sql.DB Go'nun built-in connection pool'udur — thread-safe'dir.
type DB struct {
	Conn *sql.DB
}

// New, yeni bir SQLite bağlantısı oluşturur ve gömülü migration'ları çalıştırır.
//
// dbPath: SQLite dosya yolu (ör: "./data/pano.db")
func New(dbPath string) (*DB, error) {
	return NewWithMigrations(dbPath, EmbeddedMigrations, migrationsDir)
}

// NewWithMigrations, migration kaynağını dışarıdan alan New varyantı.
// migrationsFS içinde dir altındaki *.sql dosyaları goose formatında olmalıdır.
func NewWithMigrations(dbPath string, migrationsFS fs.FS, dir string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite driver adı "sqlite".
	// foreign_keys → ON DELETE CASCADE / SET NULL için şart (SQLite'ta varsayılan kapalı!)
	// journal_mode(WAL) → eşzamanlı okuma/yazma performansı
	// busy_timeout → kısa yazma çakışmalarında "database is locked" yerine bekle
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.migrate(migrationsFS, dir); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[database] connected and migrations applied")
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// migrate, goose ile bekleyen tüm migration'ları uygular.
func (db *DB) migrate(migrationsFS fs.FS, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db.Conn, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db.Conn)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Printf("[database] schema version %d", version)

	return nil
}
