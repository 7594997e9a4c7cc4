// Package session defines the persistence contract for authenticated sessions.
//
// A Session binds a principal (OwnerID) to a random SecretKey that signs every
// token issued for it. Verifying a token means loading its session first, so
// deleting a session immediately invalidates all of its tokens.
//
// Store is the minimal contract (Create, Find). Stores that can revoke
// implement Revoker and OwnerRevoker; stores without native TTL implement
// Cleaner. Backends:
//
//   - MemoryStore in this package
//   - redisstore (go-redis, native key TTL)
//   - pgstore (pgx, goose migrations)
//   - mongostore (mongo-driver, TTL index)
//   - sqlitestore (modernc.org/sqlite)
//
// Every backend is checked against the same behaviour with sessiontest.Run.
package session
