// Package kv provides the key/value persistence service used by the
// document engine.
//
// Values are JSON documents stored under opaque string keys. Two backends
// implement KV:
//   - SQLite: durable storage in a single kv table (production)
//   - Memory: map-backed storage that still round-trips through JSON (tests)
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Schema changes are tracked through PRAGMA user_version.
package kv
