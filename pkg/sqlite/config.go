package sqlite

import "time"

// Config holds settings for an embedded SQLite database.
type Config struct {
	Path        string        `env:"SQLITE_PATH" envDefault:"apikit.db"` // file path or ":memory:"
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	WAL         bool          `env:"SQLITE_WAL" envDefault:"true"`

	MigrationsTable string `env:"SQLITE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
