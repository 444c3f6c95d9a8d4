// Package session provides session management for Minesweeper games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Automatic persistence of every engine action
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// SessionPersistence is the storage contract, implemented by FilePersistence
// (one JSON file per session) and SQLitePersistence (a single sessions table).
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated with
// crypto/rand. Lookups are case-insensitive.
//
// Persistence:
//
// When a manager is built with NewManagerWithPersistence it subscribes to each
// session's engine, so reveals, flags, chords and resets are written as they
// happen. Evicted sessions stay in storage and are reloaded on the next Get.
//
// Usage:
//
//	store, err := session.NewSQLitePersistence("sessions.db", configs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", configs.GetDefault())
package session
