// Package sqlite opens embedded SQLite databases through the pure Go
// modernc.org/sqlite driver.
//
// Open applies pragmas through the DSN so every pooled connection enforces
// foreign keys, Migrate runs embedded goose migrations, and ClassifyError maps
// UNIQUE, PRIMARY KEY and FOREIGN KEY failures to *core.ConstraintError.
package sqlite
