// Package database embed dosyası — migration SQL dosyalarını binary'ye gömer.
//
// Deploy edilen binary yanında migration dosyalarına ihtiyaç duymaz.
package database

import "embed"

// EmbeddedMigrations, migrations/ dizinindeki goose SQL dosyalarını içerir.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

// migrationsDir, EmbeddedMigrations içindeki alt dizin adıdır.
const migrationsDir = "migrations"
