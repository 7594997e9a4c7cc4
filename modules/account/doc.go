// Package account provides email and password sign-up, login and logout
// endpoints on top of pkg/auth.
//
// Users live in SQLite (SQLiteStorage) and are migrated with Migrate. Duplicate
// emails surface as driver errors; register sqlite.ClassifyError with the
// error handler to answer them with 409.
package account
